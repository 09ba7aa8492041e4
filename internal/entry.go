// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/calder/folio/internal/api"
	"github.com/calder/folio/internal/assistant"
	"github.com/calder/folio/internal/auth"
	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/index"
	"github.com/calder/folio/internal/mcpserver"
	"github.com/calder/folio/internal/portfolio"
	"github.com/calder/folio/internal/sse"
	"github.com/calder/folio/internal/storage"
)

// defaultSecretFile is where the admin secret hash lives inside the data
// directory unless the configuration names another file.
const defaultSecretFile = "admin.secret"

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data directory exists.
	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	dataDir, err := storage.New(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init data dir: %w", err)
	}

	// Build the content store, from the seed snapshot when one is
	// configured, otherwise from the built-in defaults.
	store, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	// Initialize SQLite search index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	// SSE broker for content change events.
	broker := sse.NewBroker(2 * time.Second)

	// Session gate, only in password mode.
	var gate *auth.Gate
	if cfg.Auth.AuthEnabled() {
		secretFile := cfg.Auth.SecretFile
		if secretFile == "" {
			secretFile = defaultSecretFile
		}
		gate = auth.New(dataDir, secretFile)
	}

	// Assistant bridge; without an API key chat serves fallback replies.
	var asker api.Asker
	if cfg.Assistant.APIKey != "" {
		bridge, err := assistant.New(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			return fmt.Errorf("init assistant: %w", err)
		}
		defer bridge.Close()
		asker = bridge
	} else {
		logger.Info("assistant disabled, chat will serve fallback replies")
	}

	svc := portfolio.NewService(store, db, broker, logger)
	apiRouter := api.NewRouter(svc, gate, asker, broker, dataDir)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Uploaded assets are public.
	r.Get("/uploads/{filename}", api.NewUploadHandler(dataDir).ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the seed snapshot when configured.
	if cfg.Seed.Watch {
		g.Go(func() error {
			err := content.Watch(gCtx, store, cfg.Seed.Path, logger, func() {
				if err := index.Sync(db, store, logger); err != nil {
					logger.Warn("index sync after seed reload failed", slog.String("error", err.Error()))
				}
				broker.PublishContentEvent("imported", "seed", 0)
			})
			if err != nil {
				logger.Warn("seed watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the portfolio content over MCP on stdin/stdout. Logs go
// to stderr because stdout carries the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	dataDir, err := storage.New(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init data dir: %w", err)
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	svc := portfolio.NewService(store, db, nil, logger)
	return mcpserver.New(svc, dataDir).ServeStdio()
}

// buildStore loads the seed snapshot when one is configured. A missing
// seed file is not fatal; the built-in defaults are used instead.
func buildStore(cfg *Config, logger *slog.Logger) (*content.Store, error) {
	if cfg.Seed.Path == "" {
		return content.New(), nil
	}
	doc, err := content.LoadSeed(cfg.Seed.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("seed file not found, using defaults", slog.String("path", cfg.Seed.Path))
			return content.New(), nil
		}
		return nil, fmt.Errorf("load seed: %w", err)
	}
	logger.Info("content seeded from snapshot", slog.String("path", cfg.Seed.Path))
	return content.FromSnapshot(doc), nil
}
