// Package watch observes source trees for changes matching glob patterns.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce batches rapid bursts of filesystem events into one
// notification.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes under a root directory that match any of a set of
// doublestar glob patterns, expressed relative to the root.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration

	fw *fsnotify.Watcher
}

// New creates a watcher for the given root and patterns. A zero debounce
// falls back to DefaultDebounce.
func New(root string, patterns []string, debounce time.Duration) (*Watcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w := &Watcher{root: root, patterns: patterns, debounce: debounce, fw: fw}
	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Matches reports whether path (absolute or root-relative) matches any
// configured pattern.
func (w *Watcher) Matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, p := range w.patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, invoking onChange with the batch of
// matching paths collected during each debounce window. New directories are
// picked up as they appear.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	logger := zerolog.Ctx(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						logger.Warn().Err(err).Str("dir", ev.Name).Msg("failed to watch new directory")
					}
				}
			}
			if !w.Matches(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil
			onChange(paths)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("filesystem watcher error")
		}
	}
}

// addRecursive registers dir and every directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
