// Package testutil provides shared test helpers for setting up record stores
// and feed files.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/flightpath/internal/feed"
	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "flightpath-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeededDB returns a TestDB pre-loaded with data.
func SeededDB(t *testing.T, data models.Database) *store.DB {
	t.Helper()
	db := TestDB(t)
	if err := db.ReplaceAll(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestFeed writes data to a feed file named name inside a temp directory and
// returns its path.
func TestFeed(t *testing.T, name string, data models.Database) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := feed.WriteAtomic(path, data); err != nil {
		t.Fatal(err)
	}
	return path
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Network is a small fixture: DEL→BOM→BLR on 2025-12-10 plus a direct
// DEL→BLR, and a later DEL→BOM on the next day.
func Network() models.Database {
	return models.Database{
		Airports: []models.Airport{
			{ID: 1, Code: "DEL", Name: "Indira Gandhi International", City: "Delhi", Lat: 28.56, Lng: 77.1},
			{ID: 2, Code: "BOM", Name: "Chhatrapati Shivaji Maharaj", City: "Mumbai", Lat: 19.09, Lng: 72.87},
			{ID: 3, Code: "BLR", Name: "Kempegowda International", City: "Bengaluru", Lat: 13.2, Lng: 77.71},
		},
		Flights: []models.Flight{
			{ID: "FL1", Airline: "IndiGo", FromCode: "DEL", ToCode: "BOM", Date: "2025-12-10", Departure: "06:00", Arrival: "08:00", Duration: "2h 00m", Price: 4000},
			{ID: "FL2", Airline: "Vistara", FromCode: "BOM", ToCode: "BLR", Date: "2025-12-10", Departure: "09:30", Arrival: "11:00", Duration: "1h 30m", Price: 3000},
			{ID: "FL3", Airline: "Air India", FromCode: "DEL", ToCode: "BLR", Date: "2025-12-10", Departure: "07:00", Arrival: "10:00", Duration: "3h 00m", Price: 9000},
			{ID: "FL4", Airline: "IndiGo", FromCode: "DEL", ToCode: "BOM", Date: "2025-12-11", Departure: "06:00", Arrival: "08:00", Duration: "2h 00m", Price: 3500},
		},
	}
}
