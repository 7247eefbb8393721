package platform

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/vaultdeck/pkg/adapters/anki"
	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/engine"
	"github.com/aretw0/vaultdeck/pkg/notes"
)

// New wires an engine from a loaded configuration.
//
//	cfg, err := platform.Load("config.yaml")
//	eng, err := platform.New(cfg, platform.WithLogger(slog.Default()))
func New(cfg *Config, opts ...Option) (*engine.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	templates, err := cfg.Templates()
	if err != nil {
		return nil, err
	}

	scanner := fs.NewScanner(fs.Config{
		Root:            cfg.Vault.DirPath,
		ExcludeDirs:     cfg.Vault.ExcludeDirsFromScan,
		ExcludeDotted:   cfg.Vault.ExcludeDottedDirsFromScan == nil || *cfg.Vault.ExcludeDottedDirsFromScan,
		ExcludePatterns: cfg.Vault.FilePatternsToExclude,
		DefaultGroup:    cfg.Globals.Anki.DeckName,
		Workers:         cfg.Workers,
		Logger:          o.logger.With("component", "scanner"),
	})

	extractor := notes.NewExtractor(templates, notes.Options{
		VaultName: filepath.Base(cfg.Vault.DirPath),
		Tags:      cfg.Globals.Anki.Tags,
	})

	store := o.store
	if store == nil {
		store = anki.NewStore(anki.NewClient(anki.Config{
			URL:               cfg.Globals.Anki.URL,
			APIKey:            cfg.Globals.Anki.APIKey,
			Timeout:           cfg.Globals.Anki.Timeout,
			RequestsPerSecond: cfg.Globals.Anki.RequestsPerSecond,
			Logger:            o.logger.With("component", "anki"),
		}))
	}

	return engine.New(engine.Config{
		Scanner:          scanner,
		Extractor:        extractor,
		Store:            store,
		Cache:            fs.NewHashCache(cfg.CachePath()),
		MediaDir:         cfg.Vault.MediasDirPath,
		Query:            cfg.Globals.Anki.Query,
		FineGrainedMedia: cfg.Globals.Anki.FineGrainedImageSearch,
		Workers:          cfg.Workers,
		DryRun:           o.dryRun,
		Debounce:         o.debounce,
		Logger:           o.logger,
	})
}
