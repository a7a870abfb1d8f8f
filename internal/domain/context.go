// Package domain provides the core business types, application errors and
// context helpers shared by every layer of the import cost service.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated user in context.
	userContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// User represents the authenticated user stored in context.
// This is a minimal struct for context storage; the full account record
// lives in the database.
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns uuid.Nil if no user is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// RequireUserID retrieves the user ID from context, panicking if not present.
// Use this in service layers where an authenticated user is required.
// The panic is caught by the recovery middleware in HTTP handlers.
func RequireUserID(ctx context.Context) uuid.UUID {
	id := UserIDFromContext(ctx)
	if id == uuid.Nil {
		panic("user_id required in context but not found")
	}
	return id
}

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
