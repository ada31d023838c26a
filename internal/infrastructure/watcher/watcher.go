// Package watcher reports settled file changes under a directory tree.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ersonp/record-tracker/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 300 * time.Millisecond

const tick = 50 * time.Millisecond

// Handler is called once per settled file change.
type Handler func(ctx context.Context, path string)

// Filter reports whether a changed file should be handled.
type Filter func(path string) bool

// Watcher debounces fsnotify events and hands settled paths to a Handler.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	filter   Filter
	handle   Handler
	log      logging.Logger
	pending  map[string]time.Time
}

// New creates a watcher for root and every directory below it.
func New(root string, debounce time.Duration, filter Filter, handle Handler, log logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Nop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:       fs,
		root:     root,
		debounce: debounce,
		filter:   filter,
		handle:   handle,
		log:      log,
		pending:  make(map[string]time.Time),
	}
	if err := w.addRecursive(root); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is cancelled. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "watch error", "error", err)

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(w.pending, event.Name)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn(ctx, "watching new directory failed", "path", event.Name, "error", err)
			}
		}
		return
	}

	if w.filter != nil && !w.filter(event.Name) {
		return
	}
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, changed := range w.pending {
		if now.Sub(changed) < w.debounce {
			continue
		}
		delete(w.pending, path)
		w.handle(ctx, path)
	}
}

// addRecursive adds dir and its subdirectories, skipping hidden ones.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
