// Package auth wraps bcrypt password hashing behind sentinel errors the
// handler layer can map to field-level validation messages.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to signup input. Accounts seeded at startup
// are held to a stricter length in the bootstrap package.
const MinPasswordLength = 8

// bcryptCost of 12 keeps a single hash slow enough to blunt offline
// guessing without making login noticeably laggy.
const bcryptCost = 12

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

// HashPassword returns the bcrypt hash of password, rejecting inputs
// below MinPasswordLength before any hashing work is done.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword compares password against a stored hash. A wrong password
// returns ErrPasswordMismatch; any other failure means the stored hash
// itself is malformed.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}
