package auth

import (
	"context"
	"errors"

	"github.com/paddocklab/racing-admin/shared/logging"
)

// EnsureAdminExists registers the seed admin account if it is not already
// present. A blank email or password skips seeding entirely.
func (p *MongoProvider) EnsureAdminExists(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := p.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil
		}
		return err
	}
	p.log.Info("seeded admin account", logging.String("email", normalizeEmail(email)))
	return nil
}
