// Package account implements user registration, password login and the
// bearer tokens issued on login.
package account

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("account: username already exists")

	// ErrNotFound is returned by stores when no user matches.
	ErrNotFound = errors.New("account: user not found")

	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("account: invalid credentials")

	// ErrInvalidUsername is returned when a username is too short or too long
	// once surrounding whitespace is removed.
	ErrInvalidUsername = errors.New("account: username must be 3 to 64 characters")

	// ErrInvalidToken is returned for a malformed, expired or forged token.
	ErrInvalidToken = errors.New("account: invalid token")
)

// User is a stored account.
type User struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
}

// Store persists users. Usernames are unique.
type Store interface {
	// Create inserts u. It returns ErrUserExists if the username is taken.
	Create(ctx context.Context, u *User) error
	// FindByUsername returns ErrNotFound if no user has that name.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
