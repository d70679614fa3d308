package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/routing"
	"github.com/starford/flightpath/internal/testutil"
)

// testEnv sets up a seeded SQLite DB, engine, service and both routers.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()
	return testEnvWith(t, authToken, testutil.Network())
}

func testEnvWith(t *testing.T, authToken string, data models.Database) http.Handler {
	t.Helper()
	db := testutil.SeededDB(t, data)
	eng := routing.NewEngine(db, routing.WithLogger(testutil.Logger()))
	if err := eng.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc := flightservice.New(db, eng, flightservice.WithLogger(testutil.Logger()))

	enabled := authToken != ""
	r := chi.NewRouter()
	r.Mount("/api", NewRouter(svc, enabled, authToken, nil))
	r.Mount("/admin", NewAdminRouter(svc, enabled, authToken))
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestListAirports(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodGet, "/api/airports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	airports := decode[[]models.Airport](t, w)
	if len(airports) != 3 || airports[0].Code != "DEL" {
		t.Errorf("airports = %+v", airports)
	}
	if !strings.Contains(w.Body.String(), `"long":77.1`) {
		t.Errorf("longitude should serialise as \"long\": %s", w.Body.String())
	}
}

func TestListFlightsPaged(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodGet, "/api/flights?page=1&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	page := decode[FlightPage](t, w)
	if page.Total != 4 || page.TotalPages != 2 || len(page.Flights) != 2 {
		t.Errorf("page = %+v", page)
	}
	if !strings.Contains(w.Body.String(), `"totalPages":2`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDirectAndDateSearch(t *testing.T) {
	h := testEnv(t, "")

	w := do(t, h, http.MethodGet, "/api/search?from=DEL&to=BOM", nil)
	if got := decode[FlightsResponse](t, w); len(got.Flights) != 2 {
		t.Errorf("direct = %+v", got)
	}
	w = do(t, h, http.MethodGet, "/api/search?from=DEL", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing to: status = %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/search_date?date=2025-12-10", nil)
	if got := decode[FlightsResponse](t, w); len(got.Flights) != 3 {
		t.Errorf("date = %+v", got)
	}
	w = do(t, h, http.MethodGet, "/api/search_date", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing date: status = %d", w.Code)
	}
}

func TestFindRoutes(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodGet, "/api/routes?from=DEL&to=BLR&date=2025-12-10&k=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[RoutesResponse](t, w)
	if resp.Count != 2 || len(resp.Routes) != 2 {
		t.Fatalf("routes = %+v", resp)
	}
	first := resp.Routes[0]
	if first.TotalTime != 180 || first.DurationFmt != "3h 0m" || first.Stops != 0 {
		t.Errorf("first = %+v", first)
	}
	for _, field := range []string{`"total_time"`, `"duration_fmt"`, `"segments"`, `"total_price"`, `"flight_id"`, `"dep"`, `"arr"`} {
		if !strings.Contains(w.Body.String(), field) {
			t.Errorf("body missing %s", field)
		}
	}
}

func TestFindRoutesBadInput(t *testing.T) {
	h := testEnv(t, "")
	for _, target := range []string{
		"/api/routes?from=DEL&to=BLR",
		"/api/routes?from=DEL&to=BLR&date=tomorrow",
		"/api/routes?from=DEL&to=BLR&date=2025-12-10&k=0",
		"/api/routes?from=DEL&to=BLR&date=2025-12-10&k=abc",
	} {
		if w := do(t, h, http.MethodGet, target, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, w.Code)
		}
	}

	w := do(t, h, http.MethodGet, "/api/routes?from=XXX&to=BLR&date=2025-12-10", nil)
	if w.Code != http.StatusOK || decode[RoutesResponse](t, w).Count != 0 {
		t.Errorf("unknown airport: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestFindCheapest(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodGet, "/api/routes/cheapest?from=DEL&to=BLR", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if it := decode[Itinerary](t, w); it.TotalPrice != 6500 {
		t.Errorf("price = %d", it.TotalPrice)
	}

	w = do(t, h, http.MethodGet, "/api/routes/cheapest?from=BLR&to=DEL", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("no route: status = %d", w.Code)
	}
}

func TestFindCheapestNegativeCycle(t *testing.T) {
	data := models.Database{Flights: []models.Flight{
		{ID: "A", FromCode: "AAA", ToCode: "BBB", Date: "2025-12-10", Departure: "08:00", Arrival: "09:00", Duration: "1h 00m", Price: 100},
		{ID: "B", FromCode: "BBB", ToCode: "CCC", Date: "2025-12-10", Departure: "10:00", Arrival: "11:00", Duration: "1h 00m", Price: -500},
		{ID: "C", FromCode: "CCC", ToCode: "BBB", Date: "2025-12-10", Departure: "12:00", Arrival: "13:00", Duration: "1h 00m", Price: 200},
	}}
	h := testEnvWith(t, "", data)
	w := do(t, h, http.MethodGet, "/api/routes/cheapest?from=AAA&to=CCC", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminFlightLifecycle(t *testing.T) {
	h := testEnv(t, "")

	w := do(t, h, http.MethodPost, "/admin/flight/add", models.Flight{
		ID: "FL9", Airline: "Akasa", FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10",
		Departure: "12:00", Arrival: "14:45", Duration: "2h 45m", Price: 5000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", w.Code, w.Body.String())
	}

	// New flight is visible to the very next search.
	w = do(t, h, http.MethodGet, "/api/routes?from=BLR&to=DEL&date=2025-12-10", nil)
	if decode[RoutesResponse](t, w).Count != 1 {
		t.Errorf("routes after add = %s", w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/admin/flight/add", models.Flight{
		ID: "FL9", FromCode: "BLR", ToCode: "DEL", Date: "2025-12-10", Departure: "12:00", Arrival: "14:45",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/admin/flight/update?id=FL9", `{"price": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	if f := decode[models.Flight](t, w); f.Price != 100 || f.Airline != "Akasa" {
		t.Errorf("updated = %+v", f)
	}

	w = do(t, h, http.MethodPost, "/admin/flight/delete", DeleteFlightRequest{ID: "FL9"})
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/admin/flight/delete", DeleteFlightRequest{ID: "FL9"})
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestAdminValidation(t *testing.T) {
	h := testEnv(t, "")

	w := do(t, h, http.MethodPost, "/admin/flight/add", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/admin/flight/add", models.Flight{FromCode: "BLR", ToCode: "DEL", Date: "yesterday"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid flight status = %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/admin/airport/update", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing code status = %d", w.Code)
	}
}

func TestAdminAirportLifecycle(t *testing.T) {
	h := testEnv(t, "")

	w := do(t, h, http.MethodPost, "/admin/airport/add", models.Airport{Code: "MAA", City: "Chennai"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", w.Code, w.Body.String())
	}
	w = do(t, h, http.MethodPost, "/admin/airport/update?code=MAA", `{"name": "Chennai International"}`)
	if a := decode[models.Airport](t, w); a.Name != "Chennai International" || a.City != "Chennai" {
		t.Errorf("updated = %+v", a)
	}
	w = do(t, h, http.MethodPost, "/admin/airport/update?code=XXX", `{"name": "x"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/admin/airport/delete", DeleteAirportRequest{Code: "MAA"})
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
}

func TestAuthToken(t *testing.T) {
	h := testEnv(t, "s3cret")

	// Public reads stay open.
	if w := do(t, h, http.MethodGet, "/api/airports", nil); w.Code != http.StatusOK {
		t.Errorf("public read status = %d", w.Code)
	}

	if w := do(t, h, http.MethodGet, "/api/admin/stats", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("stats without token status = %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/admin/flight/delete", DeleteFlightRequest{ID: "FL1"},
		"Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d", w.Code)
	}

	w := do(t, h, http.MethodGet, "/api/admin/stats", nil, "Authorization", "Bearer s3cret")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	stats := decode[flightservice.AdminStats](t, w)
	if stats.TotalFlights != 4 || stats.PopularRoute != "DEL → BOM" || stats.Graph.Generation != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
