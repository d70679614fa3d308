package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/flightpath/internal/apperr"
	"github.com/starford/flightpath/internal/models"
)

const (
	flightColumns = `id, airline, from_code, to_code, date, departure, arrival, duration, price`

	// DefaultPageSize is used when ListFlights gets a non-positive limit.
	DefaultPageSize = 10
	// MaxPageSize caps a single ListFlights page.
	MaxPageSize = 2000
)

// likeEscaper makes user text match literally inside a LIKE ... ESCAPE '\' pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type scanner interface {
	Scan(dest ...any) error
}

func scanFlight(s scanner) (models.Flight, error) {
	var f models.Flight
	err := s.Scan(&f.ID, &f.Airline, &f.FromCode, &f.ToCode, &f.Date, &f.Departure, &f.Arrival, &f.Duration, &f.Price)
	return f, err
}

func (db *DB) queryFlights(ctx context.Context, query string, args ...any) ([]models.Flight, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AllFlights returns every flight in insertion order. This is the feed the
// routing engine builds its graph from.
func (db *DB) AllFlights(ctx context.Context) ([]models.Flight, error) {
	out, err := db.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: all flights: %w", err)
	}
	return out, nil
}

// ListFlights returns one page of flights (page starts at 1) and the total
// number of matches. search, when non-empty, matches id, airline or either
// airport code.
func (db *DB) ListFlights(ctx context.Context, page, limit int, search string) ([]models.Flight, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	where := ``
	var args []any
	if search != "" {
		like := "%" + likeEscaper.Replace(search) + "%"
		where = ` WHERE id LIKE ? ESCAPE '\' OR airline LIKE ? ESCAPE '\' OR from_code LIKE ? ESCAPE '\' OR to_code LIKE ? ESCAPE '\'`
		args = append(args, like, like, like, like)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count flights: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	out, err := db.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights`+where+` ORDER BY seq LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list flights: %w", err)
	}
	return out, total, nil
}

// GetFlight returns the flight with id or apperr.ErrNotFound.
func (db *DB) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	f, err := scanFlight(db.conn.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get flight %s: %w", id, err)
	}
	return &f, nil
}

// AddFlight appends a flight. A duplicate id yields apperr.ErrAlreadyExists.
func (db *DB) AddFlight(ctx context.Context, f models.Flight) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO flights (`+flightColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Airline, f.FromCode, f.ToCode, f.Date, f.Departure, f.Arrival, f.Duration, f.Price)
	if isConstraint(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: add flight %s: %w", f.ID, err)
	}
	return nil
}

// UpdateFlight replaces the flight stored under id, keeping its position in
// the feed. f.ID may differ from id to rename it.
func (db *DB) UpdateFlight(ctx context.Context, id string, f models.Flight) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE flights
		SET id = ?, airline = ?, from_code = ?, to_code = ?, date = ?,
		    departure = ?, arrival = ?, duration = ?, price = ?
		WHERE id = ?
	`, f.ID, f.Airline, f.FromCode, f.ToCode, f.Date, f.Departure, f.Arrival, f.Duration, f.Price, id)
	if isConstraint(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: update flight %s: %w", id, err)
	}
	return expectOneRow(res)
}

// DeleteFlight removes the flight with id.
func (db *DB) DeleteFlight(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete flight %s: %w", id, err)
	}
	return expectOneRow(res)
}

// FlightsBetween returns the direct flights from one airport to another.
func (db *DB) FlightsBetween(ctx context.Context, from, to string) ([]models.Flight, error) {
	out, err := db.queryFlights(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE from_code = ? AND to_code = ? ORDER BY seq`, from, to)
	if err != nil {
		return nil, fmt.Errorf("store: flights between: %w", err)
	}
	return out, nil
}

// FlightsOn returns every flight operating on date.
func (db *DB) FlightsOn(ctx context.Context, date string) ([]models.Flight, error) {
	out, err := db.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE date = ? ORDER BY seq`, date)
	if err != nil {
		return nil, fmt.Errorf("store: flights on: %w", err)
	}
	return out, nil
}
