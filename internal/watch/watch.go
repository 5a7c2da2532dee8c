// Package watch triggers presentation regeneration whenever a data
// file changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write
// before firing. Spreadsheet editors save in bursts; the debounce
// collapses each burst into one regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watcher fires a callback when one file settles after changes.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New creates a watcher for the given file. The file must exist. The
// parent directory is watched rather than the file itself, because
// editors commonly replace the file wholesale on save.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch target: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks, invoking fn once per settled burst of changes to the
// watched file. fn runs on the watcher's goroutine; a slow fn delays
// detection of further changes. Run returns when ctx is cancelled or
// the underlying watcher closes.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer = nil
			fire = nil
			fn()

		case <-w.fsw.Errors:
			// Keep watching.
		}
	}
}

// relevant reports whether the event is a content change of the
// watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Close shuts the watcher down. A blocked Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
