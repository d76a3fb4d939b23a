package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/buildnow/buildnow-api/internal/orchestrator"
	"github.com/buildnow/buildnow-api/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	router         *chi.Mux
	orch           *orchestrator.Orchestrator
	store          storage.Store
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server.
func NewServer(orch *orchestrator.Orchestrator, store storage.Store) *Server {
	s := &Server{
		orch:           orch,
		store:          store,
		authMiddleware: NewAuthMiddleware(store),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:5174"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Generation endpoints (public)
		r.Post("/generate-projects", s.handleGenerateProjects)
		r.Get("/generate-projects/mock", s.handleMockProjects)
		r.Post("/generate-prerequisites", s.handleGeneratePrerequisites)
		r.Post("/ai-step-help", s.handleStepHelp)
		r.Get("/ai-step-help/ws", s.handleStepHelpWS)

		// Cost endpoints (public)
		r.Post("/estimate-cost", s.handleEstimateCost)
		r.Get("/cost-comparison", s.handleCostComparison)

		// Per-user project persistence (authenticated)
		r.Route("/projects", func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			r.Route("/saved", func(r chi.Router) {
				r.Get("/", s.handleListSavedProjects)
				r.Post("/", s.handleSaveProject)
				r.Delete("/{id}", s.handleDeleteSavedProject)
			})

			r.Route("/active", func(r chi.Router) {
				r.Get("/", s.handleListActiveProjects)
				r.Post("/", s.handleStartProject)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetActiveProject)
					r.Delete("/", s.handleDeleteActiveProject)
					r.Post("/progress", s.handleUpdateProgress)
					r.Post("/pause", s.handlePauseProject)
				})
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
