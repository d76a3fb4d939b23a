package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/buildnow/buildnow-api/internal/storage"
)

// AuthMiddleware resolves bearer tokens to users through the identity
// capability on the store.
type AuthMiddleware struct {
	store storage.Store
}

// NewAuthMiddleware creates new auth middleware.
func NewAuthMiddleware(store storage.Store) *AuthMiddleware {
	return &AuthMiddleware{store: store}
}

// Authenticate verifies the token from the Authorization header ("Bearer xxx"
// or a raw token) or the X-API-Key header, and injects the user into the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing token: provide Authorization header with Bearer token")
			return
		}

		user, err := m.store.GetUserByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				slog.Warn("invalid token attempt", "token_prefix", maskToken(token), "remote_addr", r.RemoteAddr)
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			slog.Error("failed to look up user", "error", err, "token_prefix", maskToken(token))
			respondError(w, http.StatusInternalServerError, "authentication error")
			return
		}

		if !user.IsActive {
			slog.Warn("inactive user attempt", "user", user.ID)
			respondError(w, http.StatusUnauthorized, "account deactivated")
			return
		}

		// Update last_seen_at without blocking the request.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.store.TouchUser(ctx, user.ID); err != nil {
				slog.Error("failed to update user last_seen_at", "error", err, "user", user.ID)
			}
		}()

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// extractToken pulls the token from request headers.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}
	return r.Header.Get("X-API-Key")
}

// maskToken returns a log-safe prefix of a token.
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}
