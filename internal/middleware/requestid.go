package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both request and response.
	RequestIDHeader = "X-Request-ID"

	// RequestIDContextKey is where the ID lives in the request context.
	RequestIDContextKey contextKey = "request_id"
)

// RequestID tags every request with an ID so log lines across the
// middleware chain and handlers can be correlated. An ID already present
// on the request, typically set by a proxy in front, is kept; otherwise a
// fresh UUID is minted. The ID is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID from ctx, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
