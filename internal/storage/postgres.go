package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildnow/buildnow-api/internal/models"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// GetUserByToken resolves an API token to a user.
func (s *PostgresStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, email, token, is_active, created_at, last_seen_at
		FROM users
		WHERE token = $1
	`

	var u models.User
	var lastSeenAt sql.NullTime

	err := s.pool.QueryRow(ctx, query, token).Scan(
		&u.ID,
		&u.Email,
		&u.Token,
		&u.IsActive,
		&u.CreatedAt,
		&lastSeenAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastSeenAt.Valid {
		u.LastSeenAt = &lastSeenAt.Time
	}

	return &u, nil
}

// TouchUser updates the user's last_seen_at timestamp.
func (s *PostgresStore) TouchUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_seen_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

// CreateSavedProject stores a bookmark.
func (s *PostgresStore) CreateSavedProject(ctx context.Context, p *models.SavedProject) error {
	ideaJSON, err := json.Marshal(p.Idea)
	if err != nil {
		return fmt.Errorf("failed to marshal idea: %w", err)
	}

	query := `
		INSERT INTO saved_projects (id, user_id, idea, concept, domain, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		ideaJSON,
		p.Concept,
		string(p.Domain),
		p.SavedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create saved project: %w", err)
	}

	return nil
}

// ListSavedProjects returns a user's bookmarks, newest first.
func (s *PostgresStore) ListSavedProjects(ctx context.Context, userID string) ([]*models.SavedProject, error) {
	query := `
		SELECT id, user_id, idea, concept, domain, saved_at
		FROM saved_projects
		WHERE user_id = $1
		ORDER BY saved_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.SavedProject

	for rows.Next() {
		var p models.SavedProject
		var ideaJSON []byte
		var domain string

		if err := rows.Scan(&p.ID, &p.UserID, &ideaJSON, &p.Concept, &domain, &p.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved project: %w", err)
		}

		p.Domain = models.Domain(domain)
		if err := json.Unmarshal(ideaJSON, &p.Idea); err != nil {
			return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
		}

		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved projects: %w", err)
	}

	return projects, nil
}

// DeleteSavedProject removes a bookmark owned by the user.
func (s *PostgresStore) DeleteSavedProject(ctx context.Context, userID, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM saved_projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateActiveProject stores a started project with its progress record.
func (s *PostgresStore) CreateActiveProject(ctx context.Context, p *models.ActiveProject) error {
	ideaJSON, err := json.Marshal(p.Idea)
	if err != nil {
		return fmt.Errorf("failed to marshal idea: %w", err)
	}

	stepsJSON, err := json.Marshal(p.Progress.CompletedSteps)
	if err != nil {
		return fmt.Errorf("failed to marshal completed steps: %w", err)
	}

	query := `
		INSERT INTO active_projects (id, user_id, idea, status, completed_steps, current_step, started_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		ideaJSON,
		string(p.Status),
		stepsJSON,
		p.Progress.CurrentStep,
		p.Progress.StartedAt,
		p.Progress.UpdatedAt,
		nullTime(p.Progress.CompletedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to create active project: %w", err)
	}

	return nil
}

// GetActiveProject retrieves a started project owned by the user.
func (s *PostgresStore) GetActiveProject(ctx context.Context, userID, id string) (*models.ActiveProject, error) {
	query := `
		SELECT id, user_id, idea, status, completed_steps, current_step, started_at, updated_at, completed_at
		FROM active_projects
		WHERE id = $1 AND user_id = $2
	`

	p, err := scanActiveProject(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// ListActiveProjects returns a user's started projects, newest first.
func (s *PostgresStore) ListActiveProjects(ctx context.Context, userID string) ([]*models.ActiveProject, error) {
	query := `
		SELECT id, user_id, idea, status, completed_steps, current_step, started_at, updated_at, completed_at
		FROM active_projects
		WHERE user_id = $1
		ORDER BY started_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.ActiveProject

	for rows.Next() {
		p, err := scanActiveProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active projects: %w", err)
	}

	return projects, nil
}

// UpdateActiveProject persists status and progress changes.
func (s *PostgresStore) UpdateActiveProject(ctx context.Context, p *models.ActiveProject) error {
	stepsJSON, err := json.Marshal(p.Progress.CompletedSteps)
	if err != nil {
		return fmt.Errorf("failed to marshal completed steps: %w", err)
	}

	query := `
		UPDATE active_projects
		SET status = $3, completed_steps = $4, current_step = $5, updated_at = $6, completed_at = $7
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		string(p.Status),
		stepsJSON,
		p.Progress.CurrentStep,
		p.Progress.UpdatedAt,
		nullTime(p.Progress.CompletedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to update active project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteActiveProject removes a started project owned by the user.
func (s *PostgresStore) DeleteActiveProject(ctx context.Context, userID, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM active_projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete active project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActiveProject(row rowScanner) (*models.ActiveProject, error) {
	var p models.ActiveProject
	var statusStr string
	var ideaJSON, stepsJSON []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&ideaJSON,
		&statusStr,
		&stepsJSON,
		&p.Progress.CurrentStep,
		&p.Progress.StartedAt,
		&p.Progress.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan active project: %w", err)
	}

	p.Status = models.ProjectStatus(statusStr)

	if err := json.Unmarshal(ideaJSON, &p.Idea); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
	}

	if err := json.Unmarshal(stepsJSON, &p.Progress.CompletedSteps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completed steps: %w", err)
	}

	if completedAt.Valid {
		p.Progress.CompletedAt = &completedAt.Time
	}

	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
