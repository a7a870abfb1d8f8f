// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/importabr/landed/internal/domain"
)

// AdminConfig contains configuration for the initial admin account.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is usable.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdminAccount creates the initial account if it doesn't exist.
// Idempotent: safe to call on every startup. When cfg is nil or has an
// empty email or password, seeding is skipped with a log line so the
// server can run without one.
func EnsureAdminAccount(ctx context.Context, users domain.UserService, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Info("bootstrap: skipping admin account creation, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	account, err := users.Register(ctx, cfg.Email, cfg.Password, name)
	if err != nil {
		if domain.IsCode(err, domain.ECONFLICT) {
			logger.Info("bootstrap: admin account already exists", "email", cfg.Email)
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info("bootstrap: admin account created",
		"email", cfg.Email,
		"user_id", account.ID,
	)
	return nil
}
