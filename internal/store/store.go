package store

import (
	"context"

	"github.com/starford/flightpath/internal/models"
)

// Records defines the record-store operations used by the service layer.
// Consumers should depend on this interface rather than the concrete *DB.
type Records interface {
	ListAirports(ctx context.Context) ([]models.Airport, error)
	GetAirport(ctx context.Context, code string) (*models.Airport, error)
	AddAirport(ctx context.Context, a models.Airport) error
	UpdateAirport(ctx context.Context, code string, a models.Airport) error
	DeleteAirport(ctx context.Context, code string) error

	AllFlights(ctx context.Context) ([]models.Flight, error)
	ListFlights(ctx context.Context, page, limit int, search string) ([]models.Flight, int, error)
	GetFlight(ctx context.Context, id string) (*models.Flight, error)
	AddFlight(ctx context.Context, f models.Flight) error
	UpdateFlight(ctx context.Context, id string, f models.Flight) error
	DeleteFlight(ctx context.Context, id string) error
	FlightsBetween(ctx context.Context, from, to string) ([]models.Flight, error)
	FlightsOn(ctx context.Context, date string) ([]models.Flight, error)

	ReplaceAll(ctx context.Context, data models.Database) error
	Snapshot(ctx context.Context) (models.Database, error)
	Stats(ctx context.Context) (models.Stats, error)

	FeedChecksum(ctx context.Context, path string) (string, error)
	SetFeedChecksum(ctx context.Context, path, sum string) error

	Close() error
}

// Verify *DB satisfies Records at compile time.
var _ Records = (*DB)(nil)
