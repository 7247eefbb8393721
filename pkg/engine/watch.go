package engine

import (
	"context"
	"fmt"

	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/adapters/lifecycle"
	"github.com/aretw0/vaultdeck/pkg/core"
)

// RunFunc receives the outcome of every cycle started by Watch.
type RunFunc func(*core.Report, error)

// Watch runs one cycle, then another one after every debounced batch of
// document changes, until ctx is done. Failed cycles are handed to onRun and
// do not stop watching. Files rewritten by a cycle trigger one more cycle,
// which finds their hashes cached and does nothing.
func (e *Engine) Watch(ctx context.Context, onRun RunFunc) error {
	if onRun == nil {
		onRun = func(*core.Report, error) {}
	}

	watcher := fs.NewWatcher(e.config.Scanner, fs.WatchConfig{
		Debounce: e.config.Debounce,
		Logger:   e.config.Logger,
		ErrorHandler: func(err error) {
			e.config.Logger.Error("watch error", "error", err)
		},
	})
	batches, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	source := lifecycle.NewSource(batches)
	if err := source.Start(ctx); err != nil {
		return fmt.Errorf("failed to start change source: %w", err)
	}

	e.setWatching(true)
	defer e.setWatching(false)
	e.config.Logger.Info("watching vault", "root", e.config.Scanner.Root())

	onRun(e.Run(ctx))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-source.Events():
			if !ok {
				return nil
			}
			e.config.Logger.Info("vault changed", "changes", ev)
			if ctx.Err() != nil {
				return nil
			}
			onRun(e.Run(ctx))
		}
	}
}

func (e *Engine) setWatching(watching bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watching = watching
}
