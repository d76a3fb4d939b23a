package api

import (
	"context"

	"github.com/buildnow/buildnow-api/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) *models.User {
	u, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return u
}

// ContextWithUser adds the authenticated user to the context.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}
