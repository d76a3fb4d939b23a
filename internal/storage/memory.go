package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/buildnow/buildnow-api/internal/models"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]*models.User // keyed by token
	saved  map[string]*models.SavedProject
	active map[string]*models.ActiveProject
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*models.User),
		saved:  make(map[string]*models.SavedProject),
		active: make(map[string]*models.ActiveProject),
	}
}

// AddUser registers a user resolvable by token.
func (s *MemoryStore) AddUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Token] = u
}

func (s *MemoryStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) TouchUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, u := range s.users {
		if u.ID == userID {
			u.LastSeenAt = &now
		}
	}
	return nil
}

func (s *MemoryStore) CreateSavedProject(ctx context.Context, p *models.SavedProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *p
	s.saved[p.ID] = &copied
	return nil
}

func (s *MemoryStore) ListSavedProjects(ctx context.Context, userID string) ([]*models.SavedProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SavedProject
	for _, p := range s.saved {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (s *MemoryStore) DeleteSavedProject(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.saved[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(s.saved, id)
	return nil
}

func (s *MemoryStore) CreateActiveProject(ctx context.Context, p *models.ActiveProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *p
	s.active[p.ID] = &copied
	return nil
}

func (s *MemoryStore) GetActiveProject(ctx context.Context, userID, id string) (*models.ActiveProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.active[id]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) ListActiveProjects(ctx context.Context, userID string) ([]*models.ActiveProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ActiveProject
	for _, p := range s.active {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Progress.StartedAt.After(out[j].Progress.StartedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateActiveProject(ctx context.Context, p *models.ActiveProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.active[p.ID]
	if !ok || existing.UserID != p.UserID {
		return ErrNotFound
	}
	copied := *p
	s.active[p.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteActiveProject(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.active[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(s.active, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
