package feed

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/starford/flightpath/internal/models"
)

// Store is the subset of the record store the feed needs.
type Store interface {
	ReplaceAll(ctx context.Context, data models.Database) error
	Snapshot(ctx context.Context) (models.Database, error)
	FeedChecksum(ctx context.Context, path string) (string, error)
	SetFeedChecksum(ctx context.Context, path, sum string) error
}

// Mutator runs a record mutation and rebuilds the route graph before
// returning. *routing.Engine implements it.
type Mutator interface {
	Mutate(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sync imports the file at path into the store when its checksum differs
// from the last recorded import. The replacement runs through m so the
// route graph is rebuilt in the same critical section. It reports whether
// anything was imported.
func Sync(ctx context.Context, path string, st Store, m Mutator, logger *slog.Logger) (bool, error) {
	db, sum, err := Read(path)
	if err != nil {
		return false, err
	}

	key := stateKey(path)
	prev, err := st.FeedChecksum(ctx, key)
	if err != nil {
		return false, err
	}
	if prev == sum {
		logger.Debug("feed: unchanged", slog.String("path", path))
		return false, nil
	}

	err = m.Mutate(ctx, func(ctx context.Context) error {
		if err := st.ReplaceAll(ctx, db); err != nil {
			return err
		}
		return st.SetFeedChecksum(ctx, key, sum)
	})
	if err != nil {
		return false, err
	}

	logger.Info("feed: imported",
		slog.String("path", path),
		slog.Int("airports", len(db.Airports)),
		slog.Int("flights", len(db.Flights)))
	return true, nil
}

// Export writes the current store contents to path and records the
// checksum so a running watcher does not import the file straight back.
func Export(ctx context.Context, path string, st Store) error {
	db, err := st.Snapshot(ctx)
	if err != nil {
		return err
	}
	sum, err := WriteAtomic(path, db)
	if err != nil {
		return err
	}
	return st.SetFeedChecksum(ctx, stateKey(path), sum)
}

// stateKey is the feed_state key for path, so relative and absolute
// spellings of the same file share one checksum row.
func stateKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
