// Package auth implements the identity provider the dashboard delegates
// authentication to: email/password accounts in the tbl_user collection with
// bcrypt hashes, plus identity-change notification for session syncing.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/paddocklab/racing-admin/admin/store"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("account already exists")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Provider authenticates credentials and notifies listeners whenever the
// authentication state changes.
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, email, password string) (*models.Identity, error)
	Deauthenticate(ctx context.Context, identity *models.Identity) error
	// OnIdentityChange registers a callback invoked with the current identity,
	// or nil after a deauthentication.
	OnIdentityChange(fn func(*models.Identity))
}

// MongoProvider is the tbl_user-backed Provider.
type MongoProvider struct {
	users store.UserStore
	log   logging.Logger

	mu        sync.Mutex
	listeners []func(*models.Identity)
}

func NewMongoProvider(users store.UserStore, log logging.Logger) *MongoProvider {
	return &MongoProvider{users: users, log: log}
}

// Authenticate verifies the credentials and returns the account's identity.
func (p *MongoProvider) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := p.users.TouchLastLogin(ctx, user.ID); err != nil {
		p.log.Warn("failed to stamp last login", logging.String("user", user.ID), logging.Error(err))
	}

	identity := &models.Identity{UserID: user.ID, Email: user.Email}
	p.notify(identity)
	return identity, nil
}

// Register creates an account and returns its identity.
func (p *MongoProvider) Register(ctx context.Context, email, password string) (*models.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if _, err := p.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := p.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	identity := &models.Identity{UserID: user.ID, Email: user.Email}
	p.notify(identity)
	return identity, nil
}

// Deauthenticate signs the identity out and notifies listeners with nil.
func (p *MongoProvider) Deauthenticate(ctx context.Context, identity *models.Identity) error {
	p.notify(nil)
	return nil
}

// OnIdentityChange registers a state-change callback.
func (p *MongoProvider) OnIdentityChange(fn func(*models.Identity)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *MongoProvider) notify(identity *models.Identity) {
	p.mu.Lock()
	listeners := make([]func(*models.Identity), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(identity)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
