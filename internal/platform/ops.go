package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/core"
	"github.com/aretw0/vaultdeck/pkg/engine"
)

// Sync loads the configuration at configPath and runs one cycle.
func Sync(ctx context.Context, configPath string, opts ...Option) (*core.Report, error) {
	eng, err := open(configPath, opts...)
	if err != nil {
		return nil, err
	}
	return eng.Run(ctx)
}

// Watch loads the configuration at configPath and keeps the store in sync
// until ctx is done.
func Watch(ctx context.Context, configPath string, onRun engine.RunFunc, opts ...Option) error {
	eng, err := open(configPath, opts...)
	if err != nil {
		return err
	}
	return eng.Watch(ctx, onRun)
}

// ClearCache empties the hash cache of the configured vault, so the next
// cycle processes every document. It returns the cache location.
func ClearCache(configPath string) (string, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return "", err
	}
	cache := fs.NewHashCache(cfg.CachePath())
	if err := cache.Clear(); err != nil {
		return "", fmt.Errorf("failed to clear hash cache: %w", err)
	}
	return cache.Path, nil
}

func open(configPath string, opts ...Option) (*engine.Engine, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}
