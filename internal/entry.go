// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/clusterscope/internal/api"
	"github.com/starford/clusterscope/internal/dataset"
	"github.com/starford/clusterscope/internal/index"
	"github.com/starford/clusterscope/internal/mcpserver"
	"github.com/starford/clusterscope/internal/sse"
)

// runtime holds the components shared by the HTTP and MCP entry points.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	holder *dataset.Holder
	db     *index.DB
	svc    *api.Service
}

// bootstrap loads the dataset and opens the mirror. A dataset that cannot
// be loaded is fatal.
func bootstrap(opts []Option, logOut io.Writer) (*runtime, error) {
	app := newApplication(opts)
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.EffectiveLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("dataset_path", cfg.Dataset.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("live_reload", cfg.LiveReload()),
		slog.String("log_level", cfg.App.EffectiveLogLevel().String()))

	tbl, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	holder := dataset.NewHolder(tbl)
	snap := holder.Current()
	logger.Info("Dataset loaded",
		slog.Int("records", snap.Stats.Records),
		slog.Int("clusters", snap.Stats.Clusters),
		slog.Int("categories", snap.Stats.Categories),
		slog.Bool("date_filter", snap.Options.DateFilterEnabled))

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if err := index.Sync(db, tbl, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("sync index: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		holder: holder,
		db:     db,
		svc:    api.NewService(holder, db),
	}, nil
}

// onReload mirrors a swapped dataset and notifies open dashboards.
func (rt *runtime) onReload(broker *sse.Broker) dataset.ReloadCallback {
	return func(s *dataset.Snapshot) {
		if err := index.Sync(rt.db, s.Table, rt.logger); err != nil {
			rt.logger.Warn("mirror sync after reload failed", slog.String("error", err.Error()))
		}
		broker.PublishReload(sse.ReloadInfo{Records: s.Stats.Records, Checksum: s.Table.Checksum()})
	}
}

// Run starts the dashboard HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := bootstrap(opts, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	cfg, logger := rt.cfg, rt.logger

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.Throttle)
	defer broker.Close()

	var sseHandler http.Handler
	if cfg.LiveReload() {
		sseHandler = broker
	}
	apiRouter := api.NewRouter(rt.svc, sseHandler)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
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

	// Dashboard page and API routes.
	r.Get("/", api.NewHandler(rt.svc).Page(cfg.LiveReload()))
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the dataset file in live reload mode.
	if cfg.LiveReload() {
		g.Go(func() error {
			if err := dataset.Watch(gCtx, rt.holder, cfg.Dataset.Path, logger, rt.onReload(broker)); err != nil {
				logger.Warn("dataset watcher stopped", slog.String("error", err.Error()))
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
		defer signal.Stop(quit)

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := bootstrap(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(rt.svc).ServeStdio()
}
