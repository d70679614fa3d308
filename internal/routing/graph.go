// Package routing builds a directed multigraph from flight records and
// answers itinerary queries over it.
//
// Two solvers share the same graph:
//
//   - FindRoutes: a best-first search ordered by elapsed minutes that returns
//     up to k itineraries on a single date, enforcing chronological
//     connections, a minimum layover and no airport revisits.
//   - FindCheapest: Bellman-Ford over prices, ignoring dates and times.
//
// A Graph is immutable once built. Engine owns the current graph and swaps
// it under a write lock whenever the underlying flight set changes.
package routing

import (
	"errors"
	"sort"

	"github.com/starford/flightpath/internal/models"
)

// Sentinel errors returned by the solvers.
var (
	// ErrNoRoute means no path connects the two airports (or either is unknown).
	ErrNoRoute = errors.New("routing: no route found")

	// ErrNegativeCycle means prices can still be relaxed after |V|-1 passes.
	ErrNegativeCycle = errors.New("routing: negative price cycle detected")
)

// Edge is one flight as seen by the solvers.
type Edge struct {
	From      string
	To        string
	Date      string
	Departure string
	Arrival   string
	Minutes   int
	Price     int
	Airline   string
	FlightID  string
}

// Graph is an adjacency structure keyed by origin airport code.
type Graph struct {
	adj      map[string][]Edge
	all      []Edge // every edge in feed order
	airports map[string]struct{}
}

// Build creates a graph with one edge per flight record. Parallel flights are
// all kept. Durations that fail to parse fall back to DefaultDurationMinutes.
func Build(flights []models.Flight) *Graph {
	g := &Graph{
		adj:      make(map[string][]Edge),
		all:      make([]Edge, 0, len(flights)),
		airports: make(map[string]struct{}),
	}
	for _, f := range flights {
		e := Edge{
			From:      f.FromCode,
			To:        f.ToCode,
			Date:      f.Date,
			Departure: f.Departure,
			Arrival:   f.Arrival,
			Minutes:   DurationMinutes(f.Duration),
			Price:     f.Price,
			Airline:   f.Airline,
			FlightID:  f.ID,
		}
		g.adj[e.From] = append(g.adj[e.From], e)
		g.all = append(g.all, e)
		g.airports[e.From] = struct{}{}
		g.airports[e.To] = struct{}{}
	}
	return g
}

// Edges returns the outgoing edges of code. A missing airport has none.
// The returned slice must not be modified.
func (g *Graph) Edges(code string) []Edge {
	return g.adj[code]
}

// HasAirport reports whether code is the origin or destination of any edge.
func (g *Graph) HasAirport(code string) bool {
	_, ok := g.airports[code]
	return ok
}

// Airports returns every airport code in the graph, sorted.
func (g *Graph) Airports() []string {
	out := make([]string, 0, len(g.airports))
	for code := range g.airports {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.all)
}

// AirportCount returns the number of distinct airports.
func (g *Graph) AirportCount() int {
	return len(g.airports)
}
