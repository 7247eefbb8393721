package vaultdeck

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/vaultdeck/internal/platform"
	"github.com/aretw0/vaultdeck/pkg/core"
	"github.com/aretw0/vaultdeck/pkg/engine"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Config is the parsed configuration file.
type Config = platform.Config

// Report carries the counters and diagnostics of one sync run.
type Report = core.Report

// Engine runs sync cycles between a vault and the remote store.
type Engine = engine.Engine

// RunFunc receives the outcome of every cycle started in watch mode.
type RunFunc = engine.RunFunc

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore replaces the AnkiConnect client with a custom store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithDryRun reports what a cycle would do without doing it.
func WithDryRun(enabled bool) Option {
	return platform.WithDryRun(enabled)
}

// WithDebounce sets the quiet period used in watch mode.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	return platform.Load(path)
}

// FindConfig looks upwards from dir for a configuration file.
func FindConfig(dir string) (string, error) {
	return platform.FindConfig(dir)
}

// --- Factory ---

// New creates an engine from a loaded configuration.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	return platform.New(cfg, opts...)
}

// --- Operations ---

// Sync runs one cycle using the configuration file at configPath.
func Sync(ctx context.Context, configPath string, opts ...Option) (*Report, error) {
	return platform.Sync(ctx, configPath, opts...)
}

// Watch keeps the remote store in sync with the vault until ctx is done.
func Watch(ctx context.Context, configPath string, onRun RunFunc, opts ...Option) error {
	return platform.Watch(ctx, configPath, onRun, opts...)
}

// ClearCache forgets every processed document so the next cycle scans the
// whole vault again. It returns the cache file location.
func ClearCache(configPath string) (string, error) {
	return platform.ClearCache(configPath)
}
