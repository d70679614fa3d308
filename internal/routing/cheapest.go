package routing

import (
	"context"
	"math"
)

// FindCheapest returns the lowest-price path from source to destination using
// Bellman-Ford relaxation over every edge, weight = price. Dates and
// connection times are ignored.
//
// Returns ErrNoRoute when either airport is unknown, source == destination, or
// the destination is unreachable, and ErrNegativeCycle when a reachable cycle
// still relaxes after |V|-1 passes.
func (g *Graph) FindCheapest(ctx context.Context, source, destination string, opts ...SearchOption) (*Itinerary, error) {
	if source == destination || !g.HasAirport(source) || !g.HasAirport(destination) {
		return nil, ErrNoRoute
	}
	cfg := applySearchOptions(opts)

	codes := g.Airports()
	index := make(map[string]int, len(codes))
	for i, c := range codes {
		index[c] = i
	}
	n := len(codes)
	src, dst := index[source], index[destination]

	const unreached = math.MaxInt64
	dist := make([]int64, n)
	pred := make([]int, n) // index into g.all of the edge that last improved the node
	for i := range dist {
		dist[i] = unreached
		pred[i] = -1
	}
	dist[src] = 0

	relax := func() bool {
		changed := false
		for i := range g.all {
			e := &g.all[i]
			u, v := index[e.From], index[e.To]
			if dist[u] == unreached {
				continue
			}
			if d := dist[u] + int64(e.Price); d < dist[v] {
				dist[v] = d
				pred[v] = i
				changed = true
			}
		}
		return changed
	}

	for pass := 0; pass < n-1; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !relax() {
			break
		}
	}

	for i := range g.all {
		e := &g.all[i]
		u, v := index[e.From], index[e.To]
		if dist[u] != unreached && dist[u]+int64(e.Price) < dist[v] {
			return nil, ErrNegativeCycle
		}
	}

	if dist[dst] == unreached {
		return nil, ErrNoRoute
	}

	var path []Edge
	for v := dst; v != src; {
		i := pred[v]
		if i < 0 || len(path) >= n {
			return nil, ErrNoRoute
		}
		path = append(path, g.all[i])
		v = index[g.all[i].From]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	it := newItinerary(source, path, elapsedMinutes(path, cfg.layover))
	return &it, nil
}
