package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildnow/buildnow-api/internal/models"
	"github.com/buildnow/buildnow-api/internal/storage"
)

// Saved project handlers

type saveProjectRequest struct {
	Idea    models.ProjectIdea `json:"idea"`
	Concept string             `json:"concept"`
	Domain  models.Domain      `json:"domain"`
}

func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req saveProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Idea.Title) == "" {
		respondError(w, http.StatusBadRequest, "idea title is required")
		return
	}

	project := &models.SavedProject{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Idea:    req.Idea,
		Concept: req.Concept,
		Domain:  req.Domain,
		SavedAt: time.Now().UTC(),
	}

	if err := s.store.CreateSavedProject(r.Context(), project); err != nil {
		slog.Error("failed to save project", "error", err, "user", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to save project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListSavedProjects(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	projects, err := s.store.ListSavedProjects(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list saved projects", "error", err, "user", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to list saved projects")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
	})
}

func (s *Server) handleDeleteSavedProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteSavedProject(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "saved project not found")
			return
		}
		slog.Error("failed to delete saved project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to delete saved project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "saved project deleted"})
}

// Active project handlers

type startProjectRequest struct {
	Idea models.ProjectIdea `json:"idea"`
}

func (s *Server) handleStartProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req startProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Idea.Title) == "" {
		respondError(w, http.StatusBadRequest, "idea title is required")
		return
	}
	if len(req.Idea.Steps) == 0 {
		respondError(w, http.StatusBadRequest, "idea must have steps")
		return
	}

	now := time.Now().UTC()
	project := &models.ActiveProject{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Idea:   req.Idea,
		Status: models.StatusActive,
		Progress: models.Progress{
			CompletedSteps: []int{},
			CurrentStep:    0,
			StartedAt:      now,
			UpdatedAt:      now,
		},
	}

	if err := s.store.CreateActiveProject(r.Context(), project); err != nil {
		slog.Error("failed to start project", "error", err, "user", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to start project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListActiveProjects(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	projects, err := s.store.ListActiveProjects(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list active projects", "error", err, "user", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to list active projects")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
	})
}

func (s *Server) handleGetActiveProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	project, err := s.store.GetActiveProject(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "active project not found")
			return
		}
		slog.Error("failed to get active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to get active project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteActiveProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteActiveProject(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "active project not found")
			return
		}
		slog.Error("failed to delete active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to delete active project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "active project deleted"})
}

type updateProgressRequest struct {
	CompletedSteps []int `json:"completedSteps"`
	CurrentStep    int   `json:"currentStep"`
}

// handleUpdateProgress applies a progress update and recomputes project
// status: completed exactly when every step is checked, otherwise active.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CurrentStep < 0 {
		respondError(w, http.StatusBadRequest, "currentStep must be non-negative")
		return
	}

	project, err := s.store.GetActiveProject(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "active project not found")
			return
		}
		slog.Error("failed to get active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to update progress")
		return
	}

	project.ApplyProgress(req.CompletedSteps, req.CurrentStep, time.Now().UTC())

	if err := s.store.UpdateActiveProject(r.Context(), project); err != nil {
		slog.Error("failed to update active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to update progress")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// handlePauseProject sets the paused state. Pausing is only ever an explicit
// action; the progress rule never computes it.
func (s *Server) handlePauseProject(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	project, err := s.store.GetActiveProject(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "active project not found")
			return
		}
		slog.Error("failed to get active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to pause project")
		return
	}

	if project.Status == models.StatusCompleted {
		respondError(w, http.StatusConflict, "completed project cannot be paused")
		return
	}

	project.Status = models.StatusPaused
	project.Progress.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateActiveProject(r.Context(), project); err != nil {
		slog.Error("failed to pause active project", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to pause project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}
