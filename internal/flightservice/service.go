// Package flightservice coordinates the record store and the routing engine.
//
// Every record mutation runs inside routing.Engine.Mutate, so the graph is
// rebuilt before the mutation returns and the next search always sees it.
package flightservice

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/flightpath/internal/feed"
	"github.com/starford/flightpath/internal/routing"
	"github.com/starford/flightpath/internal/store"
)

// Default limits for the k-itinerary search.
const (
	DefaultK = 5
	MaxK     = 50
)

// Change kinds passed to an EventFunc.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Entities passed to an EventFunc.
const (
	EntityAirport = "airport"
	EntityFlight  = "flight"
)

// EventFunc is called after a record mutation has been committed and the
// graph rebuilt. key is the airport code or flight id.
type EventFunc func(kind, entity, key string)

// Option configures a Service.
type Option func(*Service)

// WithWriteBack exports the store to path after every successful mutation.
func WithWriteBack(path string) Option {
	return func(s *Service) {
		s.writeBack = path
	}
}

// WithRouteLimits sets the default and maximum k for route searches.
func WithRouteLimits(defaultK, maxK int) Option {
	return func(s *Service) {
		if defaultK > 0 {
			s.defaultK = defaultK
		}
		if maxK > 0 {
			s.maxK = maxK
		}
	}
}

// WithEventFunc registers a change listener.
func WithEventFunc(fn EventFunc) Option {
	return func(s *Service) {
		s.onEvent = fn
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service exposes record and route operations to the transports.
type Service struct {
	records store.Records
	engine  *routing.Engine

	writeBack string
	defaultK  int
	maxK      int
	onEvent   EventFunc
	logger    *slog.Logger
}

// New creates a Service over records and engine.
func New(records store.Records, engine *routing.Engine, opts ...Option) *Service {
	s := &Service{
		records:  records,
		engine:   engine,
		defaultK: DefaultK,
		maxK:     MaxK,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultK > s.maxK {
		s.defaultK = s.maxK
	}
	return s
}

// mutate runs fn through the engine and, on success, writes the feed back
// and notifies listeners. The store is the record of truth: a failed
// write-back is logged and does not fail a committed change.
func (s *Service) mutate(ctx context.Context, kind, entity, key string, fn func(ctx context.Context) error) error {
	err := s.engine.Mutate(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		if s.writeBack != "" {
			if err := feed.Export(ctx, s.writeBack, s.records); err != nil {
				s.logger.Error("feed write-back failed",
					slog.String("path", s.writeBack),
					slog.String("error", err.Error()))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("record changed",
		slog.String("kind", kind),
		slog.String("entity", entity),
		slog.String("key", key))
	if s.onEvent != nil {
		s.onEvent(kind, entity, key)
	}
	return nil
}

// normalizeCode upper-cases and trims an airport code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// newFlightID returns an id for a flight created without one.
func newFlightID() string {
	return "FL-" + strings.ToUpper(uuid.NewString()[:8])
}
