package feed

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval coalesces bursts of write events (editors often write a
// file in several steps) into a single re-import.
const DebounceInterval = 200 * time.Millisecond

// EventCallback is called after a watcher-driven import changed the store.
type EventCallback func(path string)

// Watch starts an fsnotify watcher on the directory holding path and
// re-runs Sync whenever the file is created, written or renamed into place.
// It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself because an
// atomic rename replaces the inode and would silently end a file watch.
func Watch(ctx context.Context, path string, st Store, m Mutator, logger *slog.Logger, cb EventCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(DebounceInterval)
			timerCh = timer.C
		} else {
			timer.Reset(DebounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			changed, err := Sync(ctx, abs, st, m, logger)
			if err != nil {
				logger.Warn("watcher: import failed", slog.String("path", abs), slog.String("error", err.Error()))
				continue
			}
			if changed && cb != nil {
				cb(abs)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logger.Debug("watcher: feed changed", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
