package routing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/seed"
)

const day = "2025-12-01"

func TestFindRoutes_DirectFlight(t *testing.T) {
	g := Build([]models.Flight{fl("FL1", "DEL", "BOM", day, "14:30", "16:45", "2h 15m", 4500)})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BOM", day, 5)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, 0, r.Stops)
	assert.Equal(t, 4500, r.TotalPrice)
	assert.Equal(t, 135, r.TotalTime)
	assert.Equal(t, "2h 15m", r.DurationFmt)
	require.Len(t, r.Segments, 1)
	assert.Equal(t, Segment{
		Airline:  "TestAir",
		FlightID: "FL1",
		From:     "DEL",
		To:       "BOM",
		Dep:      "14:30",
		Arr:      "16:45",
		Price:    4500,
		Date:     day,
	}, r.Segments[0])
}

func TestFindRoutes_RejectsDepartureBeforeArrival(t *testing.T) {
	g := Build([]models.Flight{
		fl("A", "DEL", "BOM", day, "08:00", "10:00", "2h 00m", 4000),
		fl("B", "BOM", "BLR", day, "09:00", "10:30", "1h 30m", 3000),
	})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BLR", day, 5)
	require.NoError(t, err)
	assert.Empty(t, routes)

	// A later connection makes the itinerary feasible.
	g = Build([]models.Flight{
		fl("A", "DEL", "BOM", day, "08:00", "10:00", "2h 00m", 4000),
		fl("B", "BOM", "BLR", day, "09:00", "10:30", "1h 30m", 3000),
		fl("C", "BOM", "BLR", day, "10:00", "11:30", "1h 30m", 3500),
	})
	routes, _, err = g.FindRoutes(context.Background(), "DEL", "BLR", day, 5)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"A", "C"}, flightIDs(routes[0]))
	assert.Equal(t, 120+90+DefaultLayoverMinutes, routes[0].TotalTime)
	assert.Equal(t, 7500, routes[0].TotalPrice)
	assert.Equal(t, 1, routes[0].Stops)
}

func TestFindRoutes_UnknownAirports(t *testing.T) {
	g := Build([]models.Flight{fl("A", "DEL", "BOM", day, "08:00", "10:00", "2h 00m", 4000)})

	routes, stats, err := g.FindRoutes(context.Background(), "XXX", "BOM", day, 5)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
	assert.Zero(t, stats.EdgeVisits)

	routes, _, err = g.FindRoutes(context.Background(), "DEL", "YYY", day, 5)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestFindRoutes_ZeroKDoesNoWork(t *testing.T) {
	g := Build(seed.Generate(3).Flights)

	routes, stats, err := g.FindRoutes(context.Background(), "DEL", "BLR", "2025-12-11", 0)
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Zero(t, stats.EdgeVisits)
	assert.Zero(t, stats.Pops)
	assert.Zero(t, stats.Pushes)

	_, stats, err = g.FindRoutes(context.Background(), "DEL", "BLR", "2025-12-11", -3)
	require.NoError(t, err)
	assert.Zero(t, stats.EdgeVisits)
}

func TestFindRoutes_SameSourceAndDestination(t *testing.T) {
	g := Build([]models.Flight{
		fl("A", "DEL", "BOM", day, "08:00", "10:00", "2h 00m", 4000),
		fl("B", "BOM", "DEL", day, "12:00", "14:00", "2h 00m", 4000),
	})
	routes, _, err := g.FindRoutes(context.Background(), "DEL", "DEL", day, 3)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestFindRoutes_DateFilter(t *testing.T) {
	g := Build([]models.Flight{
		fl("A", "DEL", "BOM", "2025-12-01", "08:00", "10:00", "2h 00m", 4000),
		fl("B", "DEL", "BOM", "2025-12-02", "08:00", "10:00", "2h 00m", 4100),
		fl("C", "BOM", "BLR", "2025-12-02", "12:00", "13:00", "1h 00m", 2000),
	})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BLR", "2025-12-01", 5)
	require.NoError(t, err)
	assert.Empty(t, routes, "no multi-day itineraries")

	routes, _, err = g.FindRoutes(context.Background(), "DEL", "BLR", "2025-12-02", 5)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"B", "C"}, flightIDs(routes[0]))
}

func TestFindRoutes_RankedByElapsedTime(t *testing.T) {
	g := Build([]models.Flight{
		fl("DIRECT", "DEL", "BLR", day, "06:00", "10:00", "4h 00m", 5000),
		fl("LEG1", "DEL", "BOM", day, "06:00", "07:00", "1h 00m", 2000),
		fl("LEG2", "BOM", "BLR", day, "08:00", "09:00", "1h 00m", 2000),
	})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BLR", day, 5)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, []string{"LEG1", "LEG2"}, flightIDs(routes[0]))
	assert.Equal(t, 180, routes[0].TotalTime)
	assert.Equal(t, []string{"DIRECT"}, flightIDs(routes[1]))
	assert.Equal(t, 240, routes[1].TotalTime)
}

func TestFindRoutes_TiesKeepDiscoveryOrder(t *testing.T) {
	g := Build([]models.Flight{
		fl("FIRST", "DEL", "BOM", day, "06:00", "08:00", "2h 00m", 5000),
		fl("SECOND", "DEL", "BOM", day, "07:00", "09:00", "2h 00m", 3000),
		fl("THIRD", "DEL", "BOM", day, "08:00", "10:00", "2h 00m", 4000),
	})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BOM", day, 3)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, "FIRST", routes[0].Segments[0].FlightID)
	assert.Equal(t, "SECOND", routes[1].Segments[0].FlightID)
	assert.Equal(t, "THIRD", routes[2].Segments[0].FlightID)
}

func TestFindRoutes_LimitsToK(t *testing.T) {
	var flights []models.Flight
	for i := 0; i < 10; i++ {
		flights = append(flights, fl(fmt.Sprintf("F%d", i), "DEL", "BOM", day, "08:00", "10:00", fmt.Sprintf("%dh 00m", 1+i%3), 4000))
	}
	g := Build(flights)

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BOM", day, 4)
	require.NoError(t, err)
	assert.Len(t, routes, 4)
	assertSortedByTime(t, routes)
}

func TestFindRoutes_NoRevisits(t *testing.T) {
	g := Build([]models.Flight{
		fl("A", "DEL", "BOM", day, "06:00", "07:00", "1h 00m", 1000),
		fl("BACK", "BOM", "DEL", day, "08:00", "09:00", "1h 00m", 1000),
		fl("B", "BOM", "HYD", day, "08:00", "09:00", "1h 00m", 1000),
		fl("LOOP", "HYD", "BOM", day, "10:00", "11:00", "1h 00m", 1000),
		fl("C", "HYD", "BLR", day, "10:00", "11:00", "1h 00m", 1000),
		fl("D", "BOM", "BLR", day, "12:00", "13:00", "1h 00m", 1000),
	})

	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BLR", day, 10)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	for _, r := range routes {
		assertNoRevisit(t, "DEL", r)
	}
	assert.Equal(t, []string{"A", "D"}, flightIDs(routes[0]))
	assert.Equal(t, 180, routes[0].TotalTime)
	assert.Equal(t, []string{"A", "B", "C"}, flightIDs(routes[1]))
	assert.Equal(t, 300, routes[1].TotalTime)
}

func TestFindRoutes_CustomLayover(t *testing.T) {
	g := Build([]models.Flight{
		fl("A", "DEL", "BOM", day, "06:00", "07:00", "1h 00m", 1000),
		fl("B", "BOM", "BLR", day, "08:00", "09:00", "1h 00m", 1000),
	})
	routes, _, err := g.FindRoutes(context.Background(), "DEL", "BLR", day, 1, WithLayover(0))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 120, routes[0].TotalTime)

	routes, _, err = g.FindRoutes(context.Background(), "DEL", "BLR", day, 1, WithLayover(90))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 210, routes[0].TotalTime)

	assert.Panics(t, func() { WithLayover(-1) })
}

func TestFindRoutes_Cancelled(t *testing.T) {
	g := Build(seed.Generate(5).Flights)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	routes, _, err := g.FindRoutes(ctx, "DEL", "BLR", "2025-12-11", 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, routes)
}

// TestFindRoutes_Invariants checks every ordering, chronology, date, price
// and revisit invariant across many pairs of the demo network.
func TestFindRoutes_Invariants(t *testing.T) {
	db := seed.Generate(11)
	g := Build(db.Flights)
	codes := g.Airports()
	dates := []string{"2025-12-11", "2025-12-12", "2025-12-13"}
	const k = 5

	found := 0
	for _, date := range dates {
		for _, src := range codes[:20] {
			for _, dst := range codes[:20] {
				routes, stats, err := g.FindRoutes(context.Background(), src, dst, date, k)
				require.NoError(t, err)
				require.LessOrEqual(t, len(routes), k)
				require.LessOrEqual(t, stats.Expansions, k*g.AirportCount())
				assertSortedByTime(t, routes)

				for _, r := range routes {
					found++
					require.NotEmpty(t, r.Segments)
					assert.Equal(t, len(r.Segments)-1, r.Stops)
					assert.Equal(t, src, r.Segments[0].From)
					assert.Equal(t, dst, r.Segments[len(r.Segments)-1].To)
					assertNoRevisit(t, src, r)

					sum := 0
					for i, s := range r.Segments {
						sum += s.Price
						assert.Equal(t, date, s.Date)
						if i > 0 {
							assert.GreaterOrEqual(t, s.Dep, r.Segments[i-1].Arr, "connection departs before arrival")
							assert.Equal(t, r.Segments[i-1].To, s.From)
						}
					}
					assert.Equal(t, sum, r.TotalPrice)
				}
			}
		}
	}
	assert.Positive(t, found, "demo network should yield some itineraries")
}

func flightIDs(it Itinerary) []string {
	ids := make([]string, len(it.Segments))
	for i, s := range it.Segments {
		ids[i] = s.FlightID
	}
	return ids
}

func assertSortedByTime(t *testing.T, routes []Itinerary) {
	t.Helper()
	for i := 1; i < len(routes); i++ {
		assert.LessOrEqual(t, routes[i-1].TotalTime, routes[i].TotalTime, "routes not sorted by total_time")
	}
}

func assertNoRevisit(t *testing.T, source string, it Itinerary) {
	t.Helper()
	seen := map[string]bool{source: true}
	for _, s := range it.Segments {
		assert.False(t, seen[s.To], "airport %s visited twice", s.To)
		seen[s.To] = true
	}
}
