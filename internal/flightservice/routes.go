package flightservice

import (
	"context"

	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/routing"
)

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	models.Stats
	Graph routing.Snapshot `json:"graph"`
}

// Stats returns record counters and the state of the served graph.
func (s *Service) Stats(ctx context.Context) (*AdminStats, error) {
	st, err := s.records.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{Stats: st, Graph: s.engine.Snapshot()}, nil
}

// ClampK resolves a requested itinerary count against the configured limits.
func (s *Service) ClampK(k int) int {
	if k <= 0 {
		return s.defaultK
	}
	if k > s.maxK {
		return s.maxK
	}
	return k
}

// FindRoutes returns up to k itineraries from one airport to another on
// date, fastest first. A non-positive k uses the default.
func (s *Service) FindRoutes(ctx context.Context, from, to, date string, k int) ([]routing.Itinerary, error) {
	from, to = normalizeCode(from), normalizeCode(to)
	if err := validateQuery(from, to, date, true); err != nil {
		return nil, err
	}
	return s.engine.FindRoutes(ctx, from, to, date, s.ClampK(k))
}

// FindCheapest returns the lowest-price itinerary between two airports,
// ignoring dates and connection times. It fails with routing.ErrNoRoute or
// routing.ErrNegativeCycle.
func (s *Service) FindCheapest(ctx context.Context, from, to string) (*routing.Itinerary, error) {
	from, to = normalizeCode(from), normalizeCode(to)
	if err := validateQuery(from, to, "", false); err != nil {
		return nil, err
	}
	return s.engine.FindCheapest(ctx, from, to)
}
