package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// DefaultDebounce is the quiet period used when WatchConfig leaves it unset.
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Debounce     time.Duration
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Watcher reports changes to the documents a Scanner would include.
type Watcher struct {
	scanner *Scanner
	config  WatchConfig

	mu     sync.RWMutex
	active bool
}

// NewWatcher creates a watcher over the vault of scanner.
func NewWatcher(scanner *Scanner, config WatchConfig) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = scanner.config.Logger
	}
	return &Watcher{scanner: scanner, config: config}
}

// Active reports whether the event loop is running.
func (w *Watcher) Active() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// Watch starts watching the vault recursively. Changes are debounced and
// delivered as batches; the channel is closed once ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan core.ChangeBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.recursiveAdd(watcher, w.scanner.Root()); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan core.ChangeBatch, 1)
	deb := newDebouncer(w.config.Debounce)
	w.setActive(true)

	// The event loop is the only sender on out, so it also closes it.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer w.setActive(false)
		defer watcher.Close()
		defer deb.stop()

		return w.run(ctx, watcher, deb, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.handleError(fmt.Errorf("watcher failed: %w", err))
	}))

	return out, nil
}

func (w *Watcher) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.scanner.Root() && w.scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, deb *debouncer, out chan<- core.ChangeBatch) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-deb.Ready():
			batch := deb.drain()
			if len(batch) == 0 {
				continue
			}
			select {
			case out <- batch:
			case <-ctx.Done():
				return nil
			}

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if c, ok := w.change(watcher, event); ok {
				deb.add(c)
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}

// change maps a filesystem event to a document change. Events for excluded
// or non-Markdown paths are dropped. New directories are watched as well.
func (w *Watcher) change(watcher *fsnotify.Watcher, event fsnotify.Event) (core.Change, bool) {
	w.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	rel, err := w.scanner.rel(event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "../") {
		return core.Change{}, false
	}
	dirs := strings.Split(rel, "/")
	for _, dir := range dirs[:len(dirs)-1] {
		if w.scanner.SkipDir(dir) {
			return core.Change{}, false
		}
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.scanner.SkipDir(info.Name()) {
				if err := w.recursiveAdd(watcher, event.Name); err != nil {
					w.handleError(err)
				}
			}
			return core.Change{}, false
		}
	}

	if strings.HasPrefix(filepath.Base(event.Name), TempFilePrefix) || !w.scanner.Included(rel) {
		return core.Change{}, false
	}

	var t core.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		t = core.ChangeCreate
	case event.Has(fsnotify.Write):
		t = core.ChangeModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.ChangeDelete
	default:
		return core.Change{}, false
	}
	return core.Change{Type: t, Path: rel, Timestamp: time.Now().Unix()}, true
}

func (w *Watcher) handleError(err error) {
	w.config.Logger.Error("fsnotify error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}
