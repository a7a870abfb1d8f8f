package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/importabr/landed/internal/auth"
	"github.com/importabr/landed/internal/domain"
)

// UserService implements domain.UserService using PostgreSQL.
type UserService struct {
	pool       *pgxpool.Pool
	sessionTTL time.Duration
}

// Compile-time check to ensure UserService implements domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// NewUserService creates a new UserService. sessionTTL controls how long
// a login session stays valid.
func NewUserService(pool *pgxpool.Pool, sessionTTL time.Duration) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &UserService{pool: pool, sessionTTL: sessionTTL}
}

const accountColumns = `id, email, name, password_hash, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*domain.Account, error) {
	if email == "" || len(email) < 3 {
		return nil, domain.Invalid("user.register", "invalid email address")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid("user.register", err.Error())
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+accountColumns,
		email, name, passwordHash,
	)
	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation (duplicate email).
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return account, nil
}

// Authenticate verifies email/password and returns the account if valid.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same error as a wrong password so the response does not
			// reveal which emails are registered.
			return nil, domain.ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := auth.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return account, nil
}

// CreateSession creates a new session for a user and returns its token.
func (s *UserService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, time.Now().Add(s.sessionTTL),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// GetUserBySessionToken retrieves the account behind a session token.
func (s *UserService) GetUserBySessionToken(ctx context.Context, token string) (*domain.Account, error) {
	var expiresAt time.Time
	var userID uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !time.Now().Before(expiresAt) {
		// Expired rows are cleaned up lazily on lookup.
		_, _ = s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
		return nil, domain.ErrSessionExpired
	}

	return s.GetUserByID(ctx, userID)
}

// DeleteSession logs out a user by deleting their session.
func (s *UserService) DeleteSession(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetUserByID retrieves an account by ID.
func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, userID)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return account, nil
}
