package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user of the import cost service.
type Account struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents a server-side login session referenced by an opaque
// cookie token.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// UserService provides business logic for accounts and sessions.
type UserService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, email, password, name string) (*Account, error)

	// Authenticate verifies email/password and returns the account if valid.
	Authenticate(ctx context.Context, email, password string) (*Account, error)

	// CreateSession creates a new session for a user and returns its token.
	CreateSession(ctx context.Context, userID uuid.UUID) (string, error)

	// GetUserBySessionToken retrieves the account behind a session token.
	GetUserBySessionToken(ctx context.Context, token string) (*Account, error)

	// DeleteSession logs out a user by deleting their session.
	DeleteSession(ctx context.Context, token string) error

	// GetUserByID retrieves an account by ID.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*Account, error)
}

// User-specific errors.
var (
	ErrUserNotFound    = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrUserExists      = &Error{Code: ECONFLICT, Message: "User with this email already exists"}
	ErrInvalidPassword = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionExpired  = &Error{Code: EUNAUTHORIZED, Message: "Session has expired"}
)
