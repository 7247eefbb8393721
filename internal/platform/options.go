package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// options holds the wiring overrides applied by New.
type options struct {
	store    core.Store
	logger   *slog.Logger
	dryRun   bool
	debounce time.Duration
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom remote store (e.g. a fake in tests).
// If provided, the AnkiConnect client is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithDryRun stops every cycle after reconciliation: nothing is sent to the
// store and no document is rewritten.
func WithDryRun(enabled bool) Option {
	return func(o *options) {
		o.dryRun = enabled
	}
}

// WithDebounce sets the quiet period used in watch mode.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}
