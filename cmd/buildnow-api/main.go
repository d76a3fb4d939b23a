package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildnow/buildnow-api/internal/api"
	"github.com/buildnow/buildnow-api/internal/cache"
	"github.com/buildnow/buildnow-api/internal/config"
	"github.com/buildnow/buildnow-api/internal/gateway"
	"github.com/buildnow/buildnow-api/internal/orchestrator"
	"github.com/buildnow/buildnow-api/internal/pricing"
	"github.com/buildnow/buildnow-api/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting buildnow-api",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"model", cfg.OpenAI.Model,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.Migrate(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize project store
	store, err := storage.NewPostgresStore(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		slog.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected successfully")

	// Optional redis response cache
	var responseCache cache.ResponseCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		responseCache = rc
		slog.Info("response cache enabled", "address", cfg.Redis.Address, "ttl", cfg.Redis.TTL)
	}

	// Pricing table with optional override file
	table := pricing.NewTable()
	if cfg.Pricing.Path != "" {
		if err := table.LoadFromFile(cfg.Pricing.Path); err != nil {
			slog.Warn("failed to load pricing file, using defaults", "path", cfg.Pricing.Path, "error", err)
		}
	}

	// Completion gateway
	if cfg.OpenAI.APIKey == "" {
		slog.Warn("no completion API key configured; generation endpoints will serve fallback data")
	}
	gwOpts := []gateway.Option{gateway.WithTimeout(cfg.OpenAI.Timeout)}
	if cfg.OpenAI.BaseURL != "" {
		gwOpts = append(gwOpts, gateway.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	completer := gateway.NewOpenAIClient(cfg.OpenAI.APIKey, gwOpts...)

	// Orchestrator
	orchCfg := orchestrator.DefaultConfig()
	orchCfg.Model = cfg.OpenAI.Model
	orchCfg.CacheTTL = cfg.Redis.TTL
	orch := orchestrator.New(completer, orchestrator.NewCostEstimator(table), responseCache, orchCfg)

	// Setup HTTP server
	server := api.NewServer(orch, store)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := store.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("buildnow-api stopped")
}
