package middleware

import (
	"net/http"

	"github.com/importabr/landed/internal/domain"
)

type contextKey string

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "landed_session"

// WithUser extracts the user from the session cookie and adds it to the
// request context. This middleware is optional: it adds the user if
// present but doesn't require authentication.
func WithUser(users domain.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, err := users.GetUserBySessionToken(r.Context(), cookie.Value)
			if err != nil {
				// Invalid or expired session, continue without user.
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), &domain.User{
				ID:    account.ID,
				Email: account.Email,
				Name:  account.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries an authenticated user, returning
// 401 otherwise.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
