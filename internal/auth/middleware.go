package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// UserIDKey carries the authenticated user id through the request context.
const UserIDKey contextKey = "user_id"

// Middleware authenticates requests with a Bearer token. In dev mode
// unauthenticated requests pass through with an empty user id.
type Middleware struct {
	tokens  *TokenService
	devMode bool
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(tokens *TokenService, devMode bool) *Middleware {
	return &Middleware{tokens: tokens, devMode: devMode}
}

// RequireAuth rejects requests without a valid Bearer token, except in dev
// mode.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if m.devMode {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			http.Error(w, "authorization header must use Bearer scheme", http.StatusUnauthorized)
			return
		}

		userID, err := m.tokens.Validate(token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
