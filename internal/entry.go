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

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/enhance"
	"github.com/starford/raido/internal/layout"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/site"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/viz"
	"github.com/starford/raido/internal/watch"
)

// newLogger initializes the structured JSON logger and installs it as the
// process default.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildEnhancer wires storage, manifest source, and the optional layout
// database into an enhancer. The returned close func releases the database.
func buildEnhancer(cfg *Config, logger *slog.Logger) (*enhance.Enhancer, *site.Source, func(), error) {
	store, err := storage.NewFS(cfg.Site.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	src, err := site.NewSource(cfg.Site.Manifest)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load manifest: %w", err)
	}

	var db *layout.DB
	closeDB := func() {}
	if cfg.Layout.Enabled() {
		db, err = layout.Open(cfg.Layout.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init layout db: %w", err)
		}
		closeDB = func() { db.Close() }
	}

	enh := enhance.New(store, src, db,
		enhance.WithSimConfig(cfg.Graph.Sim),
		enhance.WithMaxLabel(cfg.Graph.MaxLabel),
		enhance.WithLogger(logger),
	)
	return enh, src, closeDB, nil
}

// Run starts the navigation server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("site_dir", cfg.Site.Dir),
		slog.String("manifest", cfg.Site.Manifest),
		slog.String("layout_path", cfg.Layout.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	enh, src, closeDB, err := buildEnhancer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	// Initial enhancement pass over the whole site.
	if enhanced, failed, err := enh.EnhanceAll(); err != nil {
		logger.Warn("initial enhancement failed", slog.String("error", err.Error()))
	} else {
		logger.Info("initial enhancement done", slog.Int("enhanced", enhanced), slog.Int("failed", failed))
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Graph.FrameThrottle)
	defer broker.Close()

	// One live visualizer per requested page, streaming frames to SSE.
	reg := viz.NewRegistry(func(page string) (*viz.Visualizer, error) {
		np := enhance.NotePath(page)
		if !src.Current().HasNode(np) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, page)
		}
		return viz.New(page, enh.BuildState(np), cfg.Graph.FrameInterval, cfg.Graph.MaxLabel,
			func(page string, frame []byte) { broker.PublishFrame(page, frame) }), nil
	})
	defer reg.StopAll()

	// Build API router.
	apiRouter := api.NewRouter(api.NewHandler(enh, reg), cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the manifest: a regeneration invalidates every live layout.
	g.Go(func() error {
		return watch.Watch(gCtx, cfg.Site.Manifest, logger, func() {
			if err := src.Reload(); err != nil {
				logger.Warn("manifest reload failed", slog.String("error", err.Error()))
				return
			}
			reg.StopAll()
			if enhanced, failed, err := enh.EnhanceAll(); err != nil {
				logger.Warn("re-enhancement failed", slog.String("error", err.Error()))
			} else {
				logger.Info("site re-enhanced", slog.Int("enhanced", enhanced), slog.Int("failed", failed))
			}
			broker.PublishSiteUpdated(cfg.Site.Manifest)
		})
	})

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunEnhance performs a one-shot enhancement pass over the site and exits.
func RunEnhance(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	enh, _, closeDB, err := buildEnhancer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	enhanced, failed, err := enh.EnhanceAll()
	if err != nil {
		return err
	}
	logger.Info("enhancement done", slog.Int("enhanced", enhanced), slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d page(s) failed", failed)
	}
	return nil
}

// RunMCP starts the MCP server on stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// MCP speaks JSON-RPC on stdout, so logs must go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	enh, _, closeDB, err := buildEnhancer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(enh).ServeStdio()
}
