// Package store defines the persistence interfaces the admin services depend
// on. The production implementation lives in store/mongo; tests substitute
// in-memory fakes.
package store

import (
	"context"

	"github.com/paddocklab/racing-admin/shared/models"
)

// DriverStore is the document-store surface for the driver collection.
type DriverStore interface {
	// ListDrivers returns every driver document in the collection.
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	// MaxSequentialID returns the highest assigned sequential id, or 0 for an
	// empty collection. Backed by an ordered, limit-1 query.
	MaxSequentialID(ctx context.Context) (int64, error)
	// CreateDriver persists a new document and returns the store-assigned key.
	CreateDriver(ctx context.Context, driver *models.Driver) (string, error)
	// UpdateDriver overwrites the whole document identified by docID.
	UpdateDriver(ctx context.Context, docID string, driver *models.Driver) error
	// DeleteDriver removes the document identified by docID.
	DeleteDriver(ctx context.Context, docID string) error
}

// TeamStore is the document-store surface for the team collection.
type TeamStore interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	MaxSequentialID(ctx context.Context) (int64, error)
	CreateTeam(ctx context.Context, team *models.Team) (string, error)
	UpdateTeam(ctx context.Context, docID string, team *models.Team) error
	DeleteTeam(ctx context.Context, docID string) error
}

// UserStore is the account surface the identity provider persists through.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, userID string) error
}
