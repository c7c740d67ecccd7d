// Package watch notifies when the source table changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// Default timings.
const (
	DefaultDebounce    = 300 * time.Millisecond
	DefaultMinInterval = 2 * time.Second
)

// Watcher watches a single file for content changes.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the target are seen.
// Bursts of events are collapsed into one callback after a quiet period,
// and callbacks are never closer together than the minimum interval.
type Watcher struct {
	debounce    time.Duration
	minInterval time.Duration
}

// NewWatcher creates a watcher. Non-positive durations use the defaults.
func NewWatcher(debounce, minInterval time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Watcher{debounce: debounce, minInterval: minInterval}
}

// Watch blocks until ctx is cancelled, calling onChange after the file at
// path is written, created, or replaced. Returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Debug("watch: watching %s", abs)

	limiter := rate.NewLimiter(rate.Every(w.minInterval), 1)

	// Stopped until the first relevant event arrives
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch: stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}
			logger.Debug("watch: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-timer.C:
			if err := limiter.Wait(ctx); err != nil {
				// Context cancelled while throttled
				return nil
			}
			onChange()
		}
	}
}

// relevant reports whether event changes the content at target.
func relevant(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
