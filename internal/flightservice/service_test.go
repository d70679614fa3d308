package flightservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/starford/flightpath/internal/apperr"
	"github.com/starford/flightpath/internal/feed"
	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/routing"
	"github.com/starford/flightpath/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, entity, key string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+entity+":"+key)
	r.mu.Unlock()
}

func newTestService(t *testing.T, opts ...Option) (*Service, *recorder) {
	t.Helper()
	db := testutil.SeededDB(t, testutil.Network())
	eng := routing.NewEngine(db, routing.WithLogger(testutil.Logger()))
	if err := eng.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	opts = append([]Option{WithLogger(testutil.Logger()), WithEventFunc(rec.record)}, opts...)
	return New(db, eng, opts...), rec
}

func TestFindRoutes(t *testing.T) {
	svc, _ := newTestService(t)
	routes, err := svc.FindRoutes(context.Background(), "del", "BLR", "2025-12-10", 0)
	if err != nil {
		t.Fatalf("FindRoutes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	if routes[0].TotalTime != 180 || routes[0].Stops != 0 {
		t.Errorf("fastest = %+v", routes[0])
	}
	if routes[1].TotalTime != 270 || routes[1].Stops != 1 {
		t.Errorf("second = %+v", routes[1])
	}
}

func TestFindRoutesValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cases := []struct{ from, to, date string }{
		{"", "BLR", "2025-12-10"},
		{"DEL", "", "2025-12-10"},
		{"DEL", "BLR", ""},
		{"DEL", "BLR", "10/12/2025"},
	}
	for _, c := range cases {
		if _, err := svc.FindRoutes(ctx, c.from, c.to, c.date, 3); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("FindRoutes(%q, %q, %q) err = %v, want ErrInvalid", c.from, c.to, c.date, err)
		}
	}

	// Unknown airports are not a validation error.
	routes, err := svc.FindRoutes(ctx, "ZZZ", "BLR", "2025-12-10", 3)
	if err != nil || len(routes) != 0 {
		t.Errorf("unknown airport = %v, %v", routes, err)
	}
}

func TestClampK(t *testing.T) {
	svc, _ := newTestService(t, WithRouteLimits(3, 10))
	for in, want := range map[int]int{0: 3, -1: 3, 4: 4, 10: 10, 11: 10} {
		if got := svc.ClampK(in); got != want {
			t.Errorf("ClampK(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFindCheapest(t *testing.T) {
	svc, _ := newTestService(t)
	it, err := svc.FindCheapest(context.Background(), "DEL", "BLR")
	if err != nil {
		t.Fatalf("FindCheapest: %v", err)
	}
	if it.TotalPrice != 6500 {
		t.Errorf("price = %d, want 6500", it.TotalPrice)
	}
	if it.Segments[0].FlightID != "FL4" || it.Segments[1].FlightID != "FL2" {
		t.Errorf("segments = %+v", it.Segments)
	}

	if _, err := svc.FindCheapest(context.Background(), "BLR", "DEL"); !errors.Is(err, routing.ErrNoRoute) {
		t.Errorf("reverse err = %v, want ErrNoRoute", err)
	}
}

func TestAddFlightVisibleToNextSearch(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	f, err := svc.AddFlight(ctx, models.Flight{
		Airline: "Akasa", FromCode: "blr", ToCode: "DEL", Date: "2025-12-10",
		Departure: "12:00", Arrival: "14:45", Duration: "2h 45m", Price: 5000,
	})
	if err != nil {
		t.Fatalf("AddFlight: %v", err)
	}
	if !strings.HasPrefix(f.ID, "FL-") || f.FromCode != "BLR" {
		t.Errorf("stored flight = %+v", f)
	}

	routes, err := svc.FindRoutes(ctx, "BLR", "DEL", "2025-12-10", 5)
	if err != nil || len(routes) != 1 {
		t.Fatalf("routes after add = %v, %v", routes, err)
	}
	if len(rec.events) != 1 || rec.events[0] != "created:flight:"+f.ID {
		t.Errorf("events = %v", rec.events)
	}
}

func TestAddFlightValidation(t *testing.T) {
	svc, rec := newTestService(t)
	bad := []models.Flight{
		{FromCode: "X", ToCode: "DEL", Date: "2025-12-10", Departure: "12:00", Arrival: "13:00"},
		{FromCode: "BLR", ToCode: "DEL", Date: "2025-13-40", Departure: "12:00", Arrival: "13:00"},
		{FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10", Departure: "noon", Arrival: "13:00"},
		{FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10", Departure: "12:00", Arrival: "13:00", Price: -1},
		{FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10", Departure: "12:00", Arrival: "13:00", Duration: "soon"},
	}
	for i, f := range bad {
		if _, err := svc.AddFlight(context.Background(), f); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("case %d: err = %v, want ErrInvalid", i, err)
		}
	}
	if len(rec.events) != 0 {
		t.Errorf("rejected input must not emit events: %v", rec.events)
	}
}

func TestUpdateFlightMerges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	price := 100
	f, err := svc.UpdateFlight(ctx, "FL2", FlightPatch{Price: &price})
	if err != nil {
		t.Fatalf("UpdateFlight: %v", err)
	}
	if f.Price != 100 || f.Airline != "Vistara" || f.Departure != "09:30" {
		t.Errorf("merged flight = %+v", f)
	}

	it, _ := svc.FindCheapest(ctx, "DEL", "BLR")
	if it.TotalPrice != 3600 {
		t.Errorf("cheapest after update = %d, want 3600", it.TotalPrice)
	}

	if _, err := svc.UpdateFlight(ctx, "missing", FlightPatch{Price: &price}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing err = %v", err)
	}
	bad := "25:00"
	if _, err := svc.UpdateFlight(ctx, "FL2", FlightPatch{Departure: &bad}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("invalid patch err = %v", err)
	}
}

func TestDeleteFlightRemovesRoute(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteFlight(ctx, "FL3"); err != nil {
		t.Fatalf("DeleteFlight: %v", err)
	}
	routes, _ := svc.FindRoutes(ctx, "DEL", "BLR", "2025-12-10", 5)
	if len(routes) != 1 || routes[0].Stops != 1 {
		t.Errorf("routes after delete = %+v", routes)
	}
	if err := svc.DeleteFlight(ctx, "FL3"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("double delete err = %v", err)
	}
	if len(rec.events) != 1 {
		t.Errorf("events = %v", rec.events)
	}
}

func TestAirportLifecycle(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddAirport(ctx, models.Airport{Code: "maa", City: "Chennai"}); err != nil {
		t.Fatalf("AddAirport: %v", err)
	}
	if _, err := svc.AddAirport(ctx, models.Airport{Code: "MAA"}); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := svc.AddAirport(ctx, models.Airport{Code: "TOOLONG"}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("long code err = %v", err)
	}

	name := "Chennai International"
	a, err := svc.UpdateAirport(ctx, "MAA", AirportPatch{Name: &name})
	if err != nil || a.Name != name || a.City != "Chennai" {
		t.Fatalf("UpdateAirport = %+v, %v", a, err)
	}

	// Deleting an airport keeps its flights searchable.
	if err := svc.DeleteAirport(ctx, "BOM"); err != nil {
		t.Fatalf("DeleteAirport: %v", err)
	}
	routes, _ := svc.FindRoutes(ctx, "DEL", "BLR", "2025-12-10", 5)
	if len(routes) != 2 {
		t.Errorf("routes after airport delete = %d, want 2", len(routes))
	}

	want := []string{"created:airport:MAA", "updated:airport:MAA", "deleted:airport:BOM"}
	if strings.Join(rec.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestListAndQueries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	page, err := svc.ListFlights(ctx, 2, 3, "")
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 4 || page.TotalPages != 2 || len(page.Flights) != 1 {
		t.Errorf("page = %+v", page)
	}

	direct, _ := svc.DirectFlights(ctx, "del", "bom")
	if len(direct) != 2 {
		t.Errorf("direct = %d, want 2", len(direct))
	}
	on, _ := svc.FlightsOn(ctx, "2025-12-11")
	if len(on) != 1 || on[0].ID != "FL4" {
		t.Errorf("on date = %+v", on)
	}
	if _, err := svc.FlightsOn(ctx, ""); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty date err = %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalFlights != 4 || stats.Graph.Edges != 4 || stats.Graph.Airports != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWriteBackFailureKeepsGraphInSync(t *testing.T) {
	// A regular file where the feed directory should be makes every export fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	svc, rec := newTestService(t, WithWriteBack(filepath.Join(blocker, "feed.json")))
	ctx := context.Background()

	f, err := svc.AddFlight(ctx, models.Flight{
		ID: "NEW", Airline: "Akasa", FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10",
		Departure: "12:00", Arrival: "14:45", Duration: "2h 45m", Price: 5000,
	})
	if err != nil {
		t.Fatalf("AddFlight should succeed once stored: %v", err)
	}
	if _, err := svc.GetFlight(ctx, f.ID); err != nil {
		t.Fatalf("GetFlight: %v", err)
	}

	routes, err := svc.FindRoutes(ctx, "BLR", "DEL", "2025-12-10", 5)
	if err != nil || len(routes) != 1 || routes[0].Segments[0].FlightID != "NEW" {
		t.Fatalf("routes after add = %v, %v", routes, err)
	}
	if len(rec.events) != 1 || rec.events[0] != "created:flight:NEW" {
		t.Errorf("events = %v", rec.events)
	}
}

func TestWriteBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	svc, _ := newTestService(t, WithWriteBack(path))

	if err := svc.DeleteFlight(context.Background(), "FL1"); err != nil {
		t.Fatal(err)
	}
	db, _, err := feed.Read(path)
	if err != nil {
		t.Fatalf("read written feed: %v", err)
	}
	if len(db.Flights) != 3 || len(db.Airports) != 3 {
		t.Errorf("written feed = %d flights, %d airports", len(db.Flights), len(db.Airports))
	}
}
