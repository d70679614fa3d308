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
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/starford/flightpath/internal/api"
	"github.com/starford/flightpath/internal/feed"
	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/mcpserver"
	"github.com/starford/flightpath/internal/metrics"
	"github.com/starford/flightpath/internal/sse"
)

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.newLogger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("feed_path", cfg.Feed.Path),
		slog.Int("layover_minutes", cfg.Search.LayoverMinutes),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker; record mutations feed it through the service event hook.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	app.svcOpts = append(app.svcOpts, flightservice.WithEventFunc(broker.PublishChange))

	rt, err := openRuntime(ctx, app, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(rt, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Feed.Path != "" && cfg.Feed.Watch {
		g.Go(func() error {
			err := feed.Watch(gCtx, cfg.Feed.Path, rt.Store, rt.Engine, logger, broker.PublishFeedReloaded)
			if err != nil {
				logger.Error("feed watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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

		// Returning an error cancels gCtx, which stops the feed watcher.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// newHTTPHandler assembles the root router: health, metrics, the public
// API under /api and record mutations under /admin, wrapped in CORS.
func newHTTPHandler(rt *Runtime, broker *sse.Broker) http.Handler {
	cfg := rt.Config

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
		snap := rt.Engine.Snapshot()
		status := http.StatusOK
		state := "ok"
		if snap.Generation == 0 {
			status, state = http.StatusServiceUnavailable, "graph not built"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"status":%q,"generation":%d,"airports":%d,"edges":%d}`,
			state, snap.Generation, snap.Airports, snap.Edges)
	})

	r.Handle("/metrics", metrics.Handler())

	r.Mount("/api", api.NewRouter(rt.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))
	r.Mount("/admin", api.NewAdminRouter(rt.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token))

	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

// RunMCP serves the MCP tools over stdio until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	logger := app.newLogger()
	slog.SetDefault(logger)

	rt, err := openRuntime(ctx, app, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return mcpserver.New(rt.Service, app.version).ServeStdio()
}
