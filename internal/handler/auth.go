package handler

import (
	"net/http"
	"time"

	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/middleware"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	users        domain.UserService
	secureCookie bool
}

// NewAuthHandler creates an AuthHandler. secureCookie should be true in
// production so the session cookie is HTTPS-only.
func NewAuthHandler(users domain.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{users: users, secureCookie: secureCookie}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	account, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.startSession(w, r, account); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user": toAccountResponse(account),
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	account, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.startSession(w, r, account); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": toAccountResponse(account),
	})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.users.DeleteSession(r.Context(), cookie.Value); err != nil {
			middleware.GetLogger(r.Context()).Warn("failed to delete session", "error", err.Error())
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r)
		return
	}

	account, err := h.users.GetUserByID(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": toAccountResponse(account),
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, account *domain.Account) error {
	token, err := h.users.CreateSession(r.Context(), account.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
