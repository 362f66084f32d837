package models

import "time"

// User represents an account document in the tbl_user collection.
type User struct {
	ID           string     `bson:"_id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
}

// Identity is the authenticated-user view handed to the session store and the
// presentation layer. It never carries credentials.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
