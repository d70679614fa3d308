// Package feed reads, writes and watches the on-disk flight database file.
package feed

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/flightpath/internal/models"
)

// isYAML reports whether path should be treated as YAML rather than JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Decode parses data as the document format implied by path's extension.
func Decode(path string, data []byte) (models.Database, error) {
	var db models.Database
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, &db)
	} else {
		err = json.Unmarshal(data, &db)
	}
	if err != nil {
		return models.Database{}, fmt.Errorf("feed: decode %s: %w", filepath.Base(path), err)
	}
	if db.Airports == nil {
		db.Airports = []models.Airport{}
	}
	if db.Flights == nil {
		db.Flights = []models.Flight{}
	}
	return db, nil
}

// Encode renders db in the format implied by path's extension.
func Encode(path string, db models.Database) ([]byte, error) {
	if isYAML(path) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(db); err != nil {
			return nil, fmt.Errorf("feed: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed: encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// Read loads the database file at path and returns it with the hex SHA-256
// checksum of its raw bytes.
func Read(path string) (models.Database, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Database{}, "", fmt.Errorf("feed: read %s: %w", path, err)
	}
	db, err := Decode(path, data)
	if err != nil {
		return models.Database{}, "", err
	}
	return db, Checksum(data), nil
}

// WriteAtomic encodes db and writes it to path: tmp file → fsync → rename.
// It returns the checksum of the written bytes.
func WriteAtomic(path string, db models.Database) (string, error) {
	content, err := Encode(path, db)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("feed: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".flightpath-tmp-*")
	if err != nil {
		return "", fmt.Errorf("feed: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return "", fmt.Errorf("feed: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("feed: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("feed: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("feed: rename: %w", err)
	}
	success = true
	return Checksum(content), nil
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
