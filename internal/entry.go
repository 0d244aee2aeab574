// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/meetings"
	"github.com/starford/ansuz/internal/source"
)

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

	// Initialize structured JSON logger. In MCP stdio mode stdout
	// carries the protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpStdio {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("cache_source", cfg.Cache.Source),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the document source and cache loader.
	src, err := source.New(cfg.Cache.SourceConfig())
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}
	loader := cache.NewLoader(src)

	// Optional SQLite search index.
	var idx meetings.Index
	if cfg.SQLite.Enabled() {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init index: %w", err)
		}
		defer db.Close()
		idx = db
	}

	svc := meetings.NewService(loader, idx, logger)

	// Warm the cache and index. A failure here is not fatal: the cache
	// may appear later, and every operation surfaces a structured error
	// until it does.
	if _, err := loader.Load(false); err != nil {
		logger.Warn("initial cache load failed", slog.String("error", err.Error()))
	} else if err := svc.SyncIndex(); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the local cache file for changes.
	if cfg.Cache.Source == source.KindLocal && cfg.Cache.Watch {
		g.Go(func() error {
			return cache.Watch(gCtx, cfg.Cache.Path, logger, func() {
				if _, err := loader.Load(true); err != nil {
					logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
					return
				}
				if err := svc.SyncIndex(); err != nil {
					logger.Warn("watcher: index sync failed", slog.String("error", err.Error()))
				}
			})
		})
	}

	if app.mcpStdio {
		return runMCP(gCtx, g, svc, logger)
	}
	return runHTTP(gCtx, g, cfg, svc, logger)
}

// runMCP serves the tool surface over stdio until stdin closes or the
// context is cancelled.
func runMCP(ctx context.Context, g *errgroup.Group, svc *meetings.Service, logger *slog.Logger) error {
	srv := mcpserver.New(svc)

	g.Go(func() error {
		logger.Info("Starting MCP server on stdio")
		if err := srv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}

// runHTTP serves the read-only HTTP mirror until a shutdown signal.
func runHTTP(ctx context.Context, g *errgroup.Group, cfg *Config, svc *meetings.Service, logger *slog.Logger) error {
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

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

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

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
		case <-ctx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
