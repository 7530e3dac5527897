package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when a write violates a uniqueness constraint,
	// that is, the email or the (provider, uid) pair is already taken.
	ErrConflict = errors.New("user or account already exists")
)

// User represents a single user in the database.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Accounts    []Account `json:"accounts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Account binds one external identity to a User.
type Account struct {
	Provider string `json:"provider" bson:"provider"`
	UID      string `json:"uid" bson:"uid"`
}

// HasAccount returns true if the user is linked to the given provider identity.
func (u User) HasAccount(provider, uid string) bool {
	for _, acc := range u.Accounts {
		if acc.Provider == provider && acc.UID == uid {
			return true
		}
	}
	return false
}

// Store encapsulates all user operations available on the database.
type Store interface {
	// FindByAccount returns the user that holds the given provider identity.
	FindByAccount(ctx context.Context, provider, uid string) (User, error)
	// FindByEmail returns the user with the given email.
	FindByEmail(ctx context.Context, email string) (User, error)
	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id string) (User, error)
	// CreateUser persists a new user along with its accounts and returns it with the ID populated.
	CreateUser(ctx context.Context, user User) (User, error)
	// LinkAccount appends the account to the user's accounts and overwrites the display name.
	LinkAccount(ctx context.Context, userID string, account Account, displayName string) error
}
