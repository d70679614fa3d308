// Package models defines the domain types for Flightpath.
package models

// Airport is a node of the flight network, keyed by its short code.
type Airport struct {
	ID   int     `json:"id" yaml:"id"`
	Code string  `json:"code" yaml:"code"`
	Name string  `json:"name" yaml:"name"`
	City string  `json:"city" yaml:"city"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lng  float64 `json:"long" yaml:"long"` // "long" in the on-disk database
}

// Flight is one scheduled flight on a single calendar date.
type Flight struct {
	ID        string `json:"id" yaml:"id"`
	Airline   string `json:"airline" yaml:"airline"`
	FromCode  string `json:"from_code" yaml:"from_code"`
	ToCode    string `json:"to_code" yaml:"to_code"`
	Date      string `json:"date" yaml:"date"`           // YYYY-MM-DD
	Departure string `json:"departure" yaml:"departure"` // HH:MM
	Arrival   string `json:"arrival" yaml:"arrival"`     // HH:MM
	Duration  string `json:"duration" yaml:"duration"`   // e.g. "2h 15m"
	Price     int    `json:"price" yaml:"price"`
}

// Database is the document stored in the flight database file.
type Database struct {
	Airports []Airport `json:"airports" yaml:"airports"`
	Flights  []Flight  `json:"flights" yaml:"flights"`
}

// Stats summarises the record store for the admin dashboard.
type Stats struct {
	TotalFlights      int    `json:"total_flights"`
	TotalAirports     int    `json:"total_airports"`
	Airlines          int    `json:"airlines"`
	CheapestPrice     int    `json:"cheapest_price"`
	ExpensivePrice    int    `json:"expensive_price"`
	PopularRoute      string `json:"popular_route"`
	PopularRouteCount int    `json:"popular_route_count"`
}
