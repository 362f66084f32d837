// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapi "github.com/paddocklab/racing-admin/admin/api"
	"github.com/paddocklab/racing-admin/admin/auth"
	"github.com/paddocklab/racing-admin/admin/service"
	"github.com/paddocklab/racing-admin/admin/state"
	mongostore "github.com/paddocklab/racing-admin/admin/store/mongo"
	"github.com/paddocklab/racing-admin/shared/api"
	"github.com/paddocklab/racing-admin/shared/config"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/mongodb"
	"github.com/paddocklab/racing-admin/shared/redisdb"
	"github.com/paddocklab/racing-admin/shared/session"
)

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadAdminServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.ServiceName)

	// --- 2. Connect to MongoDB ---
	mongoClient, err := mongodb.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, logger)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect from MongoDB", logging.Error(err))
		}
	}()

	// --- 3. Connect to Redis ---
	redisClient, err := redisdb.NewClient(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err = redisClient.Close(); err != nil {
			logger.Error("error closing Redis client", logging.Error(err))
		}
	}()

	// --- 4. Initialize Data Stores ---
	driverStore := mongostore.NewDriverStore(mongoClient.Collection(cfg.MongoDBDriverCollection))
	teamStore := mongostore.NewTeamStore(mongoClient.Collection(cfg.MongoDBTeamCollection))
	userStore := mongostore.NewUserStore(mongoClient.Collection(cfg.MongoDBUserCollection))

	// --- 5. Initialize Identity Provider and Session Store ---
	provider := auth.NewMongoProvider(userStore, logger)
	if err := provider.EnsureAdminExists(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to ensure seed admin exists: %v", err)
	}
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)

	// --- 6. Initialize Business Logic Services ---
	authService := service.NewAuthService(provider, sessions, logger)
	driverService := service.NewDriverService(driverStore, logger, cfg.StrictDeletes)
	teamService := service.NewTeamService(teamStore, driverStore, logger, cfg.StrictDeletes)

	// --- 7. Dashboard State and API Handlers ---
	dashboardState := state.New()
	handlers := adminapi.NewAdminAPIHandlers(authService, driverService, teamService, dashboardState, sessions, cfg.SessionTTL, logger)

	// --- 8. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, logger)
	handlers.RegisterRoutes(baseServer.Router)

	// --- 9. Start HTTP Server ---
	go func() {
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 10. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	logger.Info("server gracefully stopped")
}
