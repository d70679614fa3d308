package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/flightpath/internal/apperr"
	"github.com/starford/flightpath/internal/models"
)

const airportColumns = `id, code, name, city, lat, lng`

// ListAirports returns every airport in insertion order.
func (db *DB) ListAirports(ctx context.Context) ([]models.Airport, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list airports: %w", err)
	}
	defer rows.Close()

	out := []models.Airport{}
	for rows.Next() {
		var a models.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Lat, &a.Lng); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAirport returns the airport with code or apperr.ErrNotFound.
func (db *DB) GetAirport(ctx context.Context, code string) (*models.Airport, error) {
	var a models.Airport
	err := db.conn.QueryRowContext(ctx, `SELECT `+airportColumns+` FROM airports WHERE code = ?`, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Lat, &a.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get airport %s: %w", code, err)
	}
	return &a, nil
}

// AddAirport inserts a new airport. A duplicate code yields apperr.ErrAlreadyExists.
func (db *DB) AddAirport(ctx context.Context, a models.Airport) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO airports (id, code, name, city, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Code, a.Name, a.City, a.Lat, a.Lng)
	if isConstraint(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: add airport %s: %w", a.Code, err)
	}
	return nil
}

// UpdateAirport replaces the airport stored under code; a.Code may differ
// from code to rename it.
func (db *DB) UpdateAirport(ctx context.Context, code string, a models.Airport) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE airports
		SET id = ?, code = ?, name = ?, city = ?, lat = ?, lng = ?
		WHERE code = ?
	`, a.ID, a.Code, a.Name, a.City, a.Lat, a.Lng, code)
	if isConstraint(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: update airport %s: %w", code, err)
	}
	return expectOneRow(res)
}

// DeleteAirport removes the airport with code. Flights that reference it are
// left untouched; they are linked by code only.
func (db *DB) DeleteAirport(ctx context.Context, code string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM airports WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("store: delete airport %s: %w", code, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
