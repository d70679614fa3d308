// Package metrics exposes Prometheus instruments for searches and graph rebuilds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search kinds.
const (
	KindRoutes   = "routes"
	KindCheapest = "cheapest"
)

// Search outcomes.
const (
	OutcomeFound         = "found"
	OutcomeEmpty         = "empty"
	OutcomeNegativeCycle = "negative_cycle"
	OutcomeError         = "error"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightpath_searches_total",
		Help: "The total number of route searches by kind and outcome",
	}, []string{"kind", "outcome"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flightpath_search_duration_seconds",
		Help:    "Time spent inside the route solvers",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"kind"})

	searchEdgeVisits = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightpath_search_edge_visits",
		Help:    "Edges examined by a single k-itinerary search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	graphRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightpath_graph_rebuilds_total",
		Help: "The total number of flight graph rebuilds",
	})

	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flightpath_graph_edges",
		Help: "Edges in the current flight graph",
	})

	graphAirports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flightpath_graph_airports",
		Help: "Airports in the current flight graph",
	})
)

// ObserveSearch records one solver call.
func ObserveSearch(kind, outcome string, took time.Duration) {
	searchesTotal.WithLabelValues(kind, outcome).Inc()
	searchDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveEdgeVisits records the edge-visit count of a k-itinerary search.
func ObserveEdgeVisits(n int) {
	searchEdgeVisits.Observe(float64(n))
}

// ObserveRebuild records a completed graph rebuild.
func ObserveRebuild(airports, edges int) {
	graphRebuilds.Inc()
	graphAirports.Set(float64(airports))
	graphEdges.Set(float64(edges))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
