package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/flightpath/internal/models"
)

// ReplaceAll swaps the whole dataset for data within a single transaction.
// Flight order in data becomes the feed order.
func (db *DB) ReplaceAll(ctx context.Context, data models.Database) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM flights`); err != nil {
		return fmt.Errorf("store: clear flights: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM airports`); err != nil {
		return fmt.Errorf("store: clear airports: %w", err)
	}

	aStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO airports (id, code, name, city, lat, lng) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: prepare airport insert: %w", err)
	}
	defer aStmt.Close()
	for _, a := range data.Airports {
		if _, err := aStmt.ExecContext(ctx, a.ID, a.Code, a.Name, a.City, a.Lat, a.Lng); err != nil {
			return fmt.Errorf("store: insert airport %s: %w", a.Code, err)
		}
	}

	fStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flights (`+flightColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: prepare flight insert: %w", err)
	}
	defer fStmt.Close()
	for _, f := range data.Flights {
		if _, err := fStmt.ExecContext(ctx, f.ID, f.Airline, f.FromCode, f.ToCode, f.Date,
			f.Departure, f.Arrival, f.Duration, f.Price); err != nil {
			return fmt.Errorf("store: insert flight %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// Snapshot returns the full dataset in feed order.
func (db *DB) Snapshot(ctx context.Context) (models.Database, error) {
	airports, err := db.ListAirports(ctx)
	if err != nil {
		return models.Database{}, err
	}
	flights, err := db.AllFlights(ctx)
	if err != nil {
		return models.Database{}, err
	}
	return models.Database{Airports: airports, Flights: flights}, nil
}

// Stats aggregates dataset-wide counters for the admin dashboard.
func (db *DB) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM flights),
			(SELECT COUNT(*) FROM airports),
			(SELECT COUNT(DISTINCT airline) FROM flights),
			COALESCE((SELECT MIN(price) FROM flights), 0),
			COALESCE((SELECT MAX(price) FROM flights), 0)
	`).Scan(&s.TotalFlights, &s.TotalAirports, &s.Airlines, &s.CheapestPrice, &s.ExpensivePrice)
	if err != nil {
		return s, fmt.Errorf("store: stats: %w", err)
	}

	var from, to string
	err = db.conn.QueryRowContext(ctx, `
		SELECT from_code, to_code, COUNT(*) AS n
		FROM flights
		GROUP BY from_code, to_code
		ORDER BY n DESC, MIN(seq) ASC
		LIMIT 1
	`).Scan(&from, &to, &s.PopularRouteCount)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.PopularRoute = "N/A"
	case err != nil:
		return s, fmt.Errorf("store: popular route: %w", err)
	default:
		s.PopularRoute = from + " → " + to
	}
	return s, nil
}

// FeedChecksum returns the checksum recorded for the feed at path, or "" if
// it has never been imported.
func (db *DB) FeedChecksum(ctx context.Context, path string) (string, error) {
	var sum string
	err := db.conn.QueryRowContext(ctx, `SELECT checksum FROM feed_state WHERE path = ?`, path).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: feed checksum: %w", err)
	}
	return sum, nil
}

// SetFeedChecksum records sum as the last imported checksum for path.
func (db *DB) SetFeedChecksum(ctx context.Context, path, sum string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO feed_state (path, checksum, imported_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			imported_at = excluded.imported_at
	`, path, sum)
	if err != nil {
		return fmt.Errorf("store: set feed checksum: %w", err)
	}
	return nil
}
