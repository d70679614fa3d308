package routing

import (
	"container/heap"
	"context"
)

// cancelCheckEvery is how many frontier pops happen between context checks.
const cancelCheckEvery = 256

// SearchStats counts the work done by one FindRoutes call.
type SearchStats struct {
	Pops       int // frontier entries removed
	Expansions int // airports expanded (bounded by k per airport)
	EdgeVisits int // outgoing edges examined during expansion
	Pushes     int // path states added to the frontier
}

// pathNode is one leg in the search arena. Partial paths share prefixes
// through parent indices instead of copying their segment lists.
type pathNode struct {
	edge   *Edge
	parent int // -1 terminates the chain
}

// pathState is a frontier entry: a partial route ending at airport.
type pathState struct {
	minutes int
	seq     int // push order, breaks ties between equal costs
	node    int // last leg in the arena, -1 for the empty start path
	airport string
}

type frontier []pathState

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].minutes != f[j].minutes {
		return f[i].minutes < f[j].minutes
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(pathState)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// FindRoutes returns up to k itineraries from source to destination using
// only flights on date, ordered by total elapsed minutes (ties in discovery
// order).
//
// A connection is allowed only if it departs no earlier than the previous leg
// arrives (compared as "HH:MM" strings) and it does not revisit any airport on
// the path, the source included. Every leg after the first costs the layover
// on top of its own duration. Each airport is expanded at most k times.
//
// Unknown airports, source == destination and k <= 0 all yield an empty
// result without error. The only error is ctx.Err() on cancellation.
func (g *Graph) FindRoutes(ctx context.Context, source, destination, date string, k int, opts ...SearchOption) ([]Itinerary, SearchStats, error) {
	var stats SearchStats
	results := []Itinerary{}
	if k <= 0 || source == destination || !g.HasAirport(source) || !g.HasAirport(destination) {
		return results, stats, nil
	}
	cfg := applySearchOptions(opts)

	var (
		arena    []pathNode
		expanded = make(map[string]int)
		pq       = frontier{{airport: source, node: -1}}
		seq      int
	)

	// onPath reports whether code is the destination of any leg in the chain ending at node.
	onPath := func(node int, code string) bool {
		for n := node; n >= 0; n = arena[n].parent {
			if arena[n].edge.To == code {
				return true
			}
		}
		return false
	}

	for pq.Len() > 0 && len(results) < k {
		if stats.Pops%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		cur := heap.Pop(&pq).(pathState)
		stats.Pops++

		if cur.airport == destination {
			results = append(results, materialize(arena, cur, source))
			continue
		}
		if expanded[cur.airport] >= k {
			continue
		}
		expanded[cur.airport]++
		stats.Expansions++

		var last *Edge
		if cur.node >= 0 {
			last = arena[cur.node].edge
		}

		edges := g.adj[cur.airport]
		for i := range edges {
			e := &edges[i]
			stats.EdgeVisits++

			if e.Date != date {
				continue
			}
			if e.To == source || onPath(cur.node, e.To) {
				continue
			}
			if last != nil && e.Departure < last.Arrival {
				continue
			}

			layover := 0
			if last != nil {
				layover = cfg.layover
			}
			arena = append(arena, pathNode{edge: e, parent: cur.node})
			seq++
			heap.Push(&pq, pathState{
				minutes: cur.minutes + e.Minutes + layover,
				seq:     seq,
				node:    len(arena) - 1,
				airport: e.To,
			})
			stats.Pushes++
		}
	}
	return results, stats, nil
}

// materialize walks the parent chain of st and formats the legs in travel order.
func materialize(arena []pathNode, st pathState, source string) Itinerary {
	var edges []Edge
	for n := st.node; n >= 0; n = arena[n].parent {
		edges = append(edges, *arena[n].edge)
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return newItinerary(source, edges, st.minutes)
}
