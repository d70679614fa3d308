package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/flightpath/internal/metrics"
	"github.com/starford/flightpath/internal/models"
)

// Feed supplies the current flight records.
type Feed interface {
	AllFlights(ctx context.Context) ([]models.Flight, error)
}

// Snapshot describes the graph currently served by an Engine.
type Snapshot struct {
	Generation uint64    `json:"generation"`
	Airports   int       `json:"airports"`
	Edges      int       `json:"edges"`
	BuiltAt    time.Time `json:"built_at"`
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDefaultLayover sets the layover applied to every search. Negative
// values are clamped to zero.
func WithDefaultLayover(minutes int) EngineOption {
	return func(e *Engine) {
		e.layover = max(minutes, 0)
	}
}

// WithSearchTimeout bounds each search. Zero disables the bound.
func WithSearchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine owns the flight graph and serialises rebuilds against searches.
//
// Writers (Rebuild, Mutate) hold the write lock for the whole
// load-and-build cycle, so a search never observes a half-built graph or a
// graph older than a mutation that has already returned. Searches share the
// read lock and run concurrently.
type Engine struct {
	mu         sync.RWMutex
	feed       Feed
	graph      *Graph
	generation uint64
	builtAt    time.Time

	layover int
	timeout time.Duration
	logger  *slog.Logger
}

// NewEngine creates an engine over feed. The graph is empty until Rebuild
// or Mutate is called.
func NewEngine(feed Feed, opts ...EngineOption) *Engine {
	e := &Engine{
		feed:    feed,
		graph:   Build(nil),
		layover: DefaultLayoverMinutes,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rebuild reloads every flight from the feed and replaces the graph.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuildLocked(ctx)
}

// Mutate runs fn under the write lock and then rebuilds the graph. The
// rebuild happens even when fn fails, since fn may have changed the feed
// before failing. Any change to the flight feed must go through Mutate.
func (e *Engine) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fnErr := fn(ctx)
	return errors.Join(fnErr, e.rebuildLocked(ctx))
}

func (e *Engine) rebuildLocked(ctx context.Context) error {
	flights, err := e.feed.AllFlights(ctx)
	if err != nil {
		return fmt.Errorf("routing: load flights: %w", err)
	}
	g := Build(flights)
	e.graph = g
	e.generation++
	e.builtAt = time.Now()

	metrics.ObserveRebuild(g.AirportCount(), g.EdgeCount())
	e.logger.Debug("routing: graph rebuilt",
		slog.Uint64("generation", e.generation),
		slog.Int("airports", g.AirportCount()),
		slog.Int("edges", g.EdgeCount()))
	return nil
}

// Snapshot returns counts for the current graph.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Generation: e.generation,
		Airports:   e.graph.AirportCount(),
		Edges:      e.graph.EdgeCount(),
		BuiltAt:    e.builtAt,
	}
}

// FindRoutes runs the k-itinerary search on the current graph.
func (e *Engine) FindRoutes(ctx context.Context, source, destination, date string, k int) ([]Itinerary, error) {
	ctx, cancel := e.searchContext(ctx)
	defer cancel()

	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	routes, stats, err := e.graph.FindRoutes(ctx, source, destination, date, k, WithLayover(e.layover))
	took := time.Since(start)

	outcome := metrics.OutcomeFound
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(routes) == 0:
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveSearch(metrics.KindRoutes, outcome, took)
	metrics.ObserveEdgeVisits(stats.EdgeVisits)

	e.logger.Debug("routing: routes search",
		slog.String("from", source),
		slog.String("to", destination),
		slog.String("date", date),
		slog.Int("k", k),
		slog.Int("results", len(routes)),
		slog.Int("edge_visits", stats.EdgeVisits),
		slog.Duration("took", took))

	if err != nil {
		return nil, fmt.Errorf("routing: find routes: %w", err)
	}
	return routes, nil
}

// FindCheapest runs the Bellman-Ford price solver on the current graph.
func (e *Engine) FindCheapest(ctx context.Context, source, destination string) (*Itinerary, error) {
	ctx, cancel := e.searchContext(ctx)
	defer cancel()

	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	it, err := e.graph.FindCheapest(ctx, source, destination, WithLayover(e.layover))
	took := time.Since(start)

	outcome := metrics.OutcomeFound
	switch {
	case errors.Is(err, ErrNoRoute):
		outcome = metrics.OutcomeEmpty
	case errors.Is(err, ErrNegativeCycle):
		outcome = metrics.OutcomeNegativeCycle
		e.logger.Warn("routing: negative price cycle",
			slog.String("from", source), slog.String("to", destination))
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.ObserveSearch(metrics.KindCheapest, outcome, took)

	if err != nil {
		if errors.Is(err, ErrNoRoute) || errors.Is(err, ErrNegativeCycle) {
			return nil, err
		}
		return nil, fmt.Errorf("routing: find cheapest: %w", err)
	}
	return it, nil
}

func (e *Engine) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}
