// Package store provides the SQLite-backed airport and flight record store.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS airports (
	code TEXT PRIMARY KEY,
	id   INTEGER NOT NULL DEFAULT 0,
	name TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	lat  REAL NOT NULL DEFAULT 0,
	lng  REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS flights (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	airline   TEXT NOT NULL DEFAULT '',
	from_code TEXT NOT NULL,
	to_code   TEXT NOT NULL,
	date      TEXT NOT NULL,
	departure TEXT NOT NULL DEFAULT '',
	arrival   TEXT NOT NULL DEFAULT '',
	duration  TEXT NOT NULL DEFAULT '',
	price     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_flights_route ON flights(from_code, to_code);
CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(date);

CREATE TABLE IF NOT EXISTS feed_state (
	path        TEXT PRIMARY KEY,
	checksum    TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with record-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// isConstraint reports whether err is a SQLite unique/primary key violation.
func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
