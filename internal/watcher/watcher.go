// Package watcher reloads shortcut files into a registry when they
// change on disk. It watches the containing directory rather than the
// file itself, so editors that replace files via rename keep working.
package watcher

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/hotkey/internal/loader"
	"github.com/dshills/hotkey/internal/shortcut"
)

// DefaultDebounce coalesces bursts of write events from editors that
// save in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps a registry in sync with a shortcut file on disk.
type Watcher struct {
	mu sync.Mutex

	registry *shortcut.Registry
	path     string
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	debounce time.Duration
	timer    *time.Timer

	onReload func()
	onError  func(error)

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long to wait after the last write before
// reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for reload activity.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnReload registers a callback invoked after every successful reload.
func OnReload(fn func()) Option {
	return func(w *Watcher) { w.onReload = fn }
}

// OnError registers a callback invoked when a reload fails.
func OnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New creates a watcher that reloads path into reg on change. The file
// is loaded once immediately; a missing file is not an error and will
// be picked up when created.
func New(reg *shortcut.Registry, path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		registry: reg,
		path:     abs,
		fsw:      fsw,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if err := w.reload(); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reload loads the file into the registry immediately, outside the
// change-driven cycle.
func (w *Watcher) Reload() error {
	return w.reload()
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("shortcut file watch error", "path", w.path, "error", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !samePath(ev.Name, w.path) {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	// Single-slot debounce. Every new event pushes the reload back.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.debounceExpired)
}

func (w *Watcher) debounceExpired() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	if err := w.reload(); err != nil {
		w.logger.Error("shortcut file reload failed", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onReload != nil {
		w.onReload()
	}
}

// reload reads the file into the registry. Registration is soft, so a
// reload updates definitions in place without disturbing ids the file
// no longer mentions.
func (w *Watcher) reload() error {
	if err := loader.LoadInto(w.registry, w.path); err != nil {
		return err
	}
	w.logger.Info("shortcut file loaded", "path", w.path, "shortcuts", w.registry.Len())
	return nil
}

func samePath(a, b string) bool {
	aa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	if aa == b {
		return true
	}
	// Symlinked temp dirs (macOS /var vs /private/var) resolve unequal.
	ra, err1 := filepath.EvalSymlinks(aa)
	rb, err2 := filepath.EvalSymlinks(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return ra == rb
}
