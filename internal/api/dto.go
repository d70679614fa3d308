package api

import (
	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/routing"
)

// Itinerary is one route in a search response (aliased from the engine).
type Itinerary = routing.Itinerary

// FlightPage is the paginated flight listing (aliased from the service).
type FlightPage = flightservice.FlightPage

// RoutesResponse wraps a k-itinerary search result.
type RoutesResponse struct {
	Routes []Itinerary `json:"routes" validate:"required"`
	Count  int         `json:"count" example:"3" validate:"required"`
}

// FlightsResponse wraps an unpaginated flight list.
type FlightsResponse struct {
	Flights []models.Flight `json:"flights" validate:"required"`
}

// DeleteAirportRequest is the body of POST /admin/airport/delete.
type DeleteAirportRequest struct {
	Code string `json:"code" example:"DEL" validate:"required"`
}

// DeleteFlightRequest is the body of POST /admin/flight/delete.
type DeleteFlightRequest struct {
	ID string `json:"id" example:"FL1000" validate:"required"`
}

// MessageResponse acknowledges an admin mutation.
type MessageResponse struct {
	Message string `json:"message" example:"flight deleted" validate:"required"`
}
