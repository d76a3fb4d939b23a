package storage

import (
	"context"
	"errors"

	"github.com/buildnow/buildnow-api/internal/models"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("not found")

// Store is the persistence and identity capability injected into the API
// layer. Production uses Postgres; tests use the in-memory implementation.
type Store interface {
	// Identity
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	TouchUser(ctx context.Context, userID string) error

	// Saved projects (immutable bookmarks)
	CreateSavedProject(ctx context.Context, p *models.SavedProject) error
	ListSavedProjects(ctx context.Context, userID string) ([]*models.SavedProject, error)
	DeleteSavedProject(ctx context.Context, userID, id string) error

	// Active projects (step tracking)
	CreateActiveProject(ctx context.Context, p *models.ActiveProject) error
	GetActiveProject(ctx context.Context, userID, id string) (*models.ActiveProject, error)
	ListActiveProjects(ctx context.Context, userID string) ([]*models.ActiveProject, error)
	UpdateActiveProject(ctx context.Context, p *models.ActiveProject) error
	DeleteActiveProject(ctx context.Context, userID, id string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
