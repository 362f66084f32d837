// shared/config/config.go
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// AdminServiceConfig holds configuration for the admin dashboard service.
type AdminServiceConfig struct {
	ServiceName string
	ListenAddr  string // Address for the HTTP server (e.g., ":8080")
	ServicePort int    // Numeric port extracted from ListenAddr

	MongoDBConnStr          string
	MongoDBDatabase         string
	MongoDBDriverCollection string
	MongoDBTeamCollection   string
	MongoDBUserCollection   string

	RedisAddr     string
	RedisPassword string

	SessionTTL time.Duration // Session lifetime in Redis and on the cookie (1 day)

	// StrictDeletes rolls back the optimistic list removal when the remote
	// delete fails. Off by default to match the original dashboard behavior.
	StrictDeletes bool

	// Seed admin credentials. Both empty means no seeding on startup.
	AdminEmail    string
	AdminPassword string
}

// LoadAdminServiceConfig loads configuration from the environment, reading a
// local .env file first if one exists.
func LoadAdminServiceConfig() (*AdminServiceConfig, error) {
	_ = godotenv.Load(".env")

	cfg := &AdminServiceConfig{
		ServiceName:             cast.ToString(getOrDefault("SERVICE_NAME", "racing-admin")),
		ListenAddr:              cast.ToString(getOrDefault("ADMIN_SERVICE_LISTEN_ADDR", ":8080")),
		MongoDBConnStr:          cast.ToString(getOrDefault("MONGODB_CONN_STR", "mongodb://localhost:27017")),
		MongoDBDatabase:         cast.ToString(getOrDefault("MONGODB_DATABASE", "racing_admin")),
		MongoDBDriverCollection: cast.ToString(getOrDefault("MONGODB_DRIVER_COLLECTION", "tbl_driver")),
		MongoDBTeamCollection:   cast.ToString(getOrDefault("MONGODB_TEAM_COLLECTION", "tbl_team")),
		MongoDBUserCollection:   cast.ToString(getOrDefault("MONGODB_USER_COLLECTION", "tbl_user")),
		RedisAddr:               cast.ToString(getOrDefault("REDIS_ADDR", "localhost:6379")),
		RedisPassword:           cast.ToString(os.Getenv("REDIS_PASSWORD")),
		StrictDeletes:           cast.ToBool(getOrDefault("STRICT_DELETES", false)),
		AdminEmail:              cast.ToString(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:           cast.ToString(os.Getenv("ADMIN_PASSWORD")),
	}

	var err error
	cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from ADMIN_SERVICE_LISTEN_ADDR %q: %w", cfg.ListenAddr, err)
	}

	return cfg, nil
}

func getOrDefault(key string, defaultValue interface{}) interface{} {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(envKey string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format for %s: %w", envKey, err)
	}
	return d, nil
}

// extractPort extracts the numeric port from a listen address (e.g., ":8080" -> 8080).
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid ListenAddr format for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number %q: %w", portStr, err)
	}
	return port, nil
}
