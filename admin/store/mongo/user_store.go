package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paddocklab/racing-admin/shared/models"
)

// UserStore is the MongoDB store for the tbl_user collection.
type UserStore struct {
	collection *mongo.Collection
}

// NewUserStore creates a new UserStore instance over the given collection.
func NewUserStore(collection *mongo.Collection) *UserStore {
	return &UserStore{collection: collection}
}

// GetUserByEmail retrieves an account by email.
func (us *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := us.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &user, nil
}

// CreateUser inserts a new account document.
func (us *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := us.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("account %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create account %s: %w", user.Email, err)
	}
	return nil
}

// TouchLastLogin stamps the account's last login time.
func (us *UserStore) TouchLastLogin(ctx context.Context, userID string) error {
	now := time.Now()
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"last_login_at": &now}}
	res, err := us.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update last login for account %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("account %s not found for last login update", userID)
	}
	return nil
}
