package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/flightpath/internal/flightservice"
)

// NewRouter creates the public API router, mounted at /api.
// sseHandler, if non-nil, is mounted at GET /events. The stats endpoint sits
// behind the same auth as the admin router.
func NewRouter(svc *flightservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/airports", h.ListAirports)
	r.Get("/flights", h.ListFlights)
	r.Get("/search", h.DirectFlights)
	r.Get("/search_date", h.FlightsOnDate)
	r.Get("/routes", h.FindRoutes)
	r.Get("/routes/cheapest", h.FindCheapest)

	r.With(AuthMiddleware(authEnabled, token)).Get("/admin/stats", h.Stats)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewAdminRouter creates the record mutation router, mounted at /admin.
// Every route requires auth when authEnabled is set.
func NewAdminRouter(svc *flightservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/airport/add", h.AddAirport)
	r.Post("/airport/update", h.UpdateAirport)
	r.Post("/airport/delete", h.DeleteAirport)

	r.Post("/flight/add", h.AddFlight)
	r.Post("/flight/update", h.UpdateFlight)
	r.Post("/flight/delete", h.DeleteFlight)

	return r
}
