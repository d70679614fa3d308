package api

import (
	"net/http"
	"strconv"

	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *flightservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *flightservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListAirports handles GET /api/airports.
//
//	@Summary	List all airports
//	@Tags		airports
//	@Produce	json
//	@Success	200	{array}	models.Airport
//	@Router		/airports [get]
func (h *Handler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.svc.ListAirports(r.Context())
	if err != nil {
		writeError(w, "list airports", err)
		return
	}
	writeJSON(w, http.StatusOK, airports)
}

// ListFlights handles GET /api/flights.
//
//	@Summary	List flights with pagination and optional search
//	@Tags		flights
//	@Produce	json
//	@Param		page	query		int		false	"Page number, from 1"
//	@Param		limit	query		int		false	"Page size"
//	@Param		search	query		string	false	"Match id, airline or airport code"
//	@Success	200		{object}	FlightPage
//	@Router		/flights [get]
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	out, err := h.svc.ListFlights(r.Context(), page, limit, q.Get("search"))
	if err != nil {
		writeError(w, "list flights", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DirectFlights handles GET /api/search.
//
//	@Summary	Direct flights between two airports
//	@Tags		flights
//	@Produce	json
//	@Param		from	query		string	true	"Origin code"
//	@Param		to		query		string	true	"Destination code"
//	@Success	200		{object}	FlightsResponse
//	@Failure	400		{object}	errResponse
//	@Router		/search [get]
func (h *Handler) DirectFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'from' and 'to' are required"))
		return
	}
	flights, err := h.svc.DirectFlights(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, "direct search", err)
		return
	}
	writeJSON(w, http.StatusOK, FlightsResponse{Flights: flights})
}

// FlightsOnDate handles GET /api/search_date.
//
//	@Summary	Flights operating on a date
//	@Tags		flights
//	@Produce	json
//	@Param		date	query		string	true	"YYYY-MM-DD"
//	@Success	200		{object}	FlightsResponse
//	@Failure	400		{object}	errResponse
//	@Router		/search_date [get]
func (h *Handler) FlightsOnDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'date' is required"))
		return
	}
	flights, err := h.svc.FlightsOn(r.Context(), date)
	if err != nil {
		writeError(w, "date search", err)
		return
	}
	writeJSON(w, http.StatusOK, FlightsResponse{Flights: flights})
}

// FindRoutes handles GET /api/routes.
//
//	@Summary	Up to k fastest itineraries on a date
//	@Tags		routes
//	@Produce	json
//	@Param		from	query		string	true	"Origin code"
//	@Param		to		query		string	true	"Destination code"
//	@Param		date	query		string	true	"YYYY-MM-DD"
//	@Param		k		query		int		false	"Number of itineraries"
//	@Success	200		{object}	RoutesResponse
//	@Failure	400		{object}	errResponse
//	@Router		/routes [get]
func (h *Handler) FindRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	k := 0
	if raw := q.Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody("k must be a positive integer"))
			return
		}
		k = n
	}

	routes, err := h.svc.FindRoutes(r.Context(), q.Get("from"), q.Get("to"), q.Get("date"), k)
	if err != nil {
		writeError(w, "find routes", err)
		return
	}
	writeJSON(w, http.StatusOK, RoutesResponse{Routes: routes, Count: len(routes)})
}

// FindCheapest handles GET /api/routes/cheapest.
//
//	@Summary	Lowest-price itinerary, ignoring dates and connection times
//	@Tags		routes
//	@Produce	json
//	@Param		from	query		string	true	"Origin code"
//	@Param		to		query		string	true	"Destination code"
//	@Success	200		{object}	Itinerary
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Failure	422		{object}	errResponse
//	@Router		/routes/cheapest [get]
func (h *Handler) FindCheapest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	it, err := h.svc.FindCheapest(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, "find cheapest", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// Stats handles GET /api/admin/stats.
//
//	@Summary	Dataset and graph counters
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	flightservice.AdminStats
//	@Security	BearerAuth
//	@Router		/admin/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// AddAirport handles POST /admin/airport/add.
func (h *Handler) AddAirport(w http.ResponseWriter, r *http.Request) {
	var req models.Airport
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.AddAirport(r.Context(), req)
	if err != nil {
		writeError(w, "add airport", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAirport handles POST /admin/airport/update?code=.
func (h *Handler) UpdateAirport(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'code' is required"))
		return
	}
	var patch flightservice.AirportPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	a, err := h.svc.UpdateAirport(r.Context(), code, patch)
	if err != nil {
		writeError(w, "update airport", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAirport handles POST /admin/airport/delete.
func (h *Handler) DeleteAirport(w http.ResponseWriter, r *http.Request) {
	var req DeleteAirportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("code is required"))
		return
	}
	if err := h.svc.DeleteAirport(r.Context(), req.Code); err != nil {
		writeError(w, "delete airport", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "airport deleted"})
}

// AddFlight handles POST /admin/flight/add.
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var req models.Flight
	if !decodeBody(w, r, &req) {
		return
	}
	f, err := h.svc.AddFlight(r.Context(), req)
	if err != nil {
		writeError(w, "add flight", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// UpdateFlight handles POST /admin/flight/update?id=.
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'id' is required"))
		return
	}
	var patch flightservice.FlightPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	f, err := h.svc.UpdateFlight(r.Context(), id, patch)
	if err != nil {
		writeError(w, "update flight", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFlight handles POST /admin/flight/delete.
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	var req DeleteFlightRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	if err := h.svc.DeleteFlight(r.Context(), req.ID); err != nil {
		writeError(w, "delete flight", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "flight deleted"})
}
