// shared/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/paddocklab/racing-admin/shared/models"
)

// CookieName is the fixed name the session token travels under.
const CookieName = "userSession"

// keyPrefix namespaces session keys in Redis.
const keyPrefix = CookieName + ":"

// ErrNotFound is returned when a token resolves to no live session.
var ErrNotFound = errors.New("session not found")

// Store persists identities under opaque tokens with a fixed expiry.
type Store interface {
	// Persist saves the identity and returns the token to hand to the client.
	Persist(ctx context.Context, identity *models.Identity) (string, error)
	// Retrieve resolves a token to its identity, or ErrNotFound.
	Retrieve(ctx context.Context, token string) (*models.Identity, error)
	// Clear removes the session for the token. Clearing an unknown token is
	// not an error.
	Clear(ctx context.Context, token string) error
}

// RedisStore is the Redis-backed session store. Sessions expire after TTL
// (one day by default) with no sliding renewal.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (rs *RedisStore) Persist(ctx context.Context, identity *models.Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to encode session payload: %w", err)
	}

	token := uuid.NewString()
	if err := rs.client.Set(ctx, keyPrefix+token, payload, rs.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}
	return token, nil
}

func (rs *RedisStore) Retrieve(ctx context.Context, token string) (*models.Identity, error) {
	payload, err := rs.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode session payload: %w", err)
	}
	return &identity, nil
}

func (rs *RedisStore) Clear(ctx context.Context, token string) error {
	if err := rs.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// TTL reports the configured session lifetime, used for the cookie expiry.
func (rs *RedisStore) TTL() time.Duration {
	return rs.ttl
}
