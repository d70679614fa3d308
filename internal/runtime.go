package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/flightpath/internal/feed"
	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/routing"
	"github.com/starford/flightpath/internal/seed"
	"github.com/starford/flightpath/internal/store"
)

// Runtime holds the wired store, engine and service shared by every
// command.
type Runtime struct {
	Config  *Config
	Logger  *slog.Logger
	Store   *store.DB
	Engine  *routing.Engine
	Service *flightservice.Service
}

// Open opens the record store, loads the initial data set and builds the
// route graph. The caller must Close the runtime.
func Open(ctx context.Context, opts ...Option) (*Runtime, error) {
	app := newApplication(opts)
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return openRuntime(ctx, app, app.newLogger())
}

func openRuntime(ctx context.Context, app *application, logger *slog.Logger) (*Runtime, error) {
	cfg := app.config

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	eng := routing.NewEngine(db,
		routing.WithDefaultLayover(cfg.Search.LayoverMinutes),
		routing.WithSearchTimeout(cfg.Search.Timeout),
		routing.WithLogger(logger),
	)

	svcOpts := []flightservice.Option{
		flightservice.WithLogger(logger),
		flightservice.WithRouteLimits(cfg.Search.DefaultK, cfg.Search.MaxK),
	}
	if cfg.Feed.WriteBack {
		svcOpts = append(svcOpts, flightservice.WithWriteBack(cfg.Feed.Path))
	}
	svcOpts = append(svcOpts, app.svcOpts...)

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   db,
		Engine:  eng,
		Service: flightservice.New(db, eng, svcOpts...),
	}

	if err := rt.loadInitial(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return rt, nil
}

// loadInitial imports the feed file when one exists, seeds an empty store
// when enabled, and always leaves a freshly built graph behind.
func (rt *Runtime) loadInitial(ctx context.Context) error {
	cfg := rt.Config

	if cfg.Feed.Path != "" {
		_, err := os.Stat(cfg.Feed.Path)
		switch {
		case err == nil:
			if _, err := feed.Sync(ctx, cfg.Feed.Path, rt.Store, rt.Engine, rt.Logger); err != nil {
				return fmt.Errorf("import feed: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			rt.Logger.Info("feed file not found, starting from store", slog.String("path", cfg.Feed.Path))
		default:
			return fmt.Errorf("stat feed: %w", err)
		}
	}

	if cfg.Seed.Enabled {
		stats, err := rt.Store.Stats(ctx)
		if err != nil {
			return err
		}
		if stats.TotalFlights == 0 && stats.TotalAirports == 0 {
			if err := rt.Reseed(ctx, cfg.Seed.Seed); err != nil {
				return err
			}
		}
	}

	return rt.Engine.Rebuild(ctx)
}

// Reseed replaces every record with the generated demo network and, when a
// feed path is configured, writes it out.
func (rt *Runtime) Reseed(ctx context.Context, seedValue uint64) error {
	data := seed.Generate(seedValue)
	err := rt.Engine.Mutate(ctx, func(ctx context.Context) error {
		if err := rt.Store.ReplaceAll(ctx, data); err != nil {
			return err
		}
		if rt.Config.Feed.Path != "" {
			return feed.Export(ctx, rt.Config.Feed.Path, rt.Store)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	rt.Logger.Info("store seeded",
		slog.Uint64("seed", seedValue),
		slog.Int("airports", len(data.Airports)),
		slog.Int("flights", len(data.Flights)))
	return nil
}

// Close releases the record store.
func (rt *Runtime) Close() error {
	return rt.Store.Close()
}
