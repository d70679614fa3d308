package flightservice

import (
	"context"

	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/store"
)

// AirportPatch carries the fields of an airport update; nil fields keep
// their stored value.
type AirportPatch struct {
	ID   *int     `json:"id,omitempty"`
	Code *string  `json:"code,omitempty"`
	Name *string  `json:"name,omitempty"`
	City *string  `json:"city,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"long,omitempty"`
}

func (p AirportPatch) apply(a models.Airport) models.Airport {
	if p.ID != nil {
		a.ID = *p.ID
	}
	if p.Code != nil {
		a.Code = normalizeCode(*p.Code)
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Lat != nil {
		a.Lat = *p.Lat
	}
	if p.Lng != nil {
		a.Lng = *p.Lng
	}
	return a
}

// FlightPatch carries the fields of a flight update; nil fields keep their
// stored value.
type FlightPatch struct {
	ID        *string `json:"id,omitempty"`
	Airline   *string `json:"airline,omitempty"`
	FromCode  *string `json:"from_code,omitempty"`
	ToCode    *string `json:"to_code,omitempty"`
	Date      *string `json:"date,omitempty"`
	Departure *string `json:"departure,omitempty"`
	Arrival   *string `json:"arrival,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	Price     *int    `json:"price,omitempty"`
}

func (p FlightPatch) apply(f models.Flight) models.Flight {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.ID, p.ID)
	set(&f.Airline, p.Airline)
	set(&f.FromCode, p.FromCode)
	set(&f.ToCode, p.ToCode)
	set(&f.Date, p.Date)
	set(&f.Departure, p.Departure)
	set(&f.Arrival, p.Arrival)
	set(&f.Duration, p.Duration)
	if p.Price != nil {
		f.Price = *p.Price
	}
	f.FromCode = normalizeCode(f.FromCode)
	f.ToCode = normalizeCode(f.ToCode)
	return f
}

// ListAirports returns every airport.
func (s *Service) ListAirports(ctx context.Context) ([]models.Airport, error) {
	return s.records.ListAirports(ctx)
}

// AddAirport validates and stores a new airport.
func (s *Service) AddAirport(ctx context.Context, a models.Airport) (*models.Airport, error) {
	a.Code = normalizeCode(a.Code)
	if err := validateAirport(a); err != nil {
		return nil, err
	}
	err := s.mutate(ctx, ChangeCreated, EntityAirport, a.Code, func(ctx context.Context) error {
		return s.records.AddAirport(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAirport merges patch into the airport stored under code.
func (s *Service) UpdateAirport(ctx context.Context, code string, patch AirportPatch) (*models.Airport, error) {
	code = normalizeCode(code)
	var out models.Airport
	err := s.mutate(ctx, ChangeUpdated, EntityAirport, code, func(ctx context.Context) error {
		cur, err := s.records.GetAirport(ctx, code)
		if err != nil {
			return err
		}
		out = patch.apply(*cur)
		if err := validateAirport(out); err != nil {
			return err
		}
		return s.records.UpdateAirport(ctx, code, out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAirport removes the airport stored under code. Flights that use the
// code stay in the feed.
func (s *Service) DeleteAirport(ctx context.Context, code string) error {
	code = normalizeCode(code)
	return s.mutate(ctx, ChangeDeleted, EntityAirport, code, func(ctx context.Context) error {
		return s.records.DeleteAirport(ctx, code)
	})
}

// FlightPage is one page of the flight listing.
type FlightPage struct {
	Flights    []models.Flight `json:"flights"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

// ListFlights returns one page of flights matching search.
func (s *Service) ListFlights(ctx context.Context, page, limit int, search string) (*FlightPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = store.DefaultPageSize
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}
	flights, total, err := s.records.ListFlights(ctx, page, limit, search)
	if err != nil {
		return nil, err
	}
	return &FlightPage{
		Flights:    flights,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetFlight returns the flight with id.
func (s *Service) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	return s.records.GetFlight(ctx, id)
}

// AddFlight validates and appends a flight. A missing id is generated.
func (s *Service) AddFlight(ctx context.Context, f models.Flight) (*models.Flight, error) {
	if f.ID == "" {
		f.ID = newFlightID()
	}
	f = FlightPatch{}.apply(f)
	if err := validateFlight(f); err != nil {
		return nil, err
	}
	err := s.mutate(ctx, ChangeCreated, EntityFlight, f.ID, func(ctx context.Context) error {
		return s.records.AddFlight(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFlight merges patch into the flight stored under id.
func (s *Service) UpdateFlight(ctx context.Context, id string, patch FlightPatch) (*models.Flight, error) {
	var out models.Flight
	err := s.mutate(ctx, ChangeUpdated, EntityFlight, id, func(ctx context.Context) error {
		cur, err := s.records.GetFlight(ctx, id)
		if err != nil {
			return err
		}
		out = patch.apply(*cur)
		if err := validateFlight(out); err != nil {
			return err
		}
		return s.records.UpdateFlight(ctx, id, out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFlight removes the flight with id.
func (s *Service) DeleteFlight(ctx context.Context, id string) error {
	return s.mutate(ctx, ChangeDeleted, EntityFlight, id, func(ctx context.Context) error {
		return s.records.DeleteFlight(ctx, id)
	})
}

// DirectFlights returns the non-stop flights between two airports.
func (s *Service) DirectFlights(ctx context.Context, from, to string) ([]models.Flight, error) {
	from, to = normalizeCode(from), normalizeCode(to)
	if err := validateQuery(from, to, "", false); err != nil {
		return nil, err
	}
	return s.records.FlightsBetween(ctx, from, to)
}

// FlightsOn returns every flight on date.
func (s *Service) FlightsOn(ctx context.Context, date string) ([]models.Flight, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.records.FlightsOn(ctx, date)
}
