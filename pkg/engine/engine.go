// Package engine drives a synchronization cycle between a vault and the
// remote flashcard store.
//
// One cycle loads the hash cache, scans the vault, extracts records from the
// documents that changed since the last successful cycle, reconciles them
// against the store, applies the remote effects in batches, writes new
// identifiers back into the documents and finally persists the hashes of
// every document. Any remote failure aborts the cycle before the cache is
// written, so the next cycle redoes the work.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/core"
	"github.com/aretw0/vaultdeck/pkg/notes"
	"github.com/aretw0/vaultdeck/pkg/reconcile"
)

// DefaultQuery selects every record of the store.
const DefaultQuery = "deck:*"

// Config wires the collaborators of an Engine.
type Config struct {
	Scanner   *fs.Scanner
	Extractor *notes.Extractor
	Store     core.Store
	Cache     *fs.HashCache

	// MediaDir holds the files referenced by records. Defaults to the vault root.
	MediaDir string
	// Query selects the remote records considered to exist.
	Query string
	// FineGrainedMedia compares media content, not only file names.
	FineGrainedMedia bool
	// Workers bounds parallel extraction. Defaults to runtime.NumCPU().
	Workers int
	// DryRun stops every cycle after reconciliation.
	DryRun bool
	// Debounce is the quiet period of Watch.
	Debounce time.Duration

	Logger *slog.Logger
}

// Engine runs synchronization cycles. Cycles never overlap.
type Engine struct {
	config Config

	runMu sync.Mutex // serializes cycles

	mu         sync.RWMutex
	running    bool
	watching   bool
	runs       int
	lastReport *core.Report
	lastErr    error
}

// New creates an engine.
func New(config Config) (*Engine, error) {
	if config.Scanner == nil || config.Extractor == nil || config.Store == nil || config.Cache == nil {
		return nil, errors.New("engine: scanner, extractor, store and cache are required")
	}
	if config.MediaDir == "" {
		config.MediaDir = config.Scanner.Root()
	}
	if config.Query == "" {
		config.Query = DefaultQuery
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{config: config}, nil
}

// Run performs one cycle. The report is returned even when the cycle fails,
// carrying what happened up to the failure.
func (e *Engine) Run(ctx context.Context) (*core.Report, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.setRunning(true)
	report := core.NewReport()
	report.DryRun = e.config.DryRun
	log := e.config.Logger.With("run_id", report.RunID)

	err := e.run(ctx, log, report)
	report.Finish()
	e.finish(report, err)

	if err != nil {
		log.Error("sync failed", "error", err, "duration", report.Duration())
		return report, err
	}
	log.Info("sync finished",
		"scanned", report.Scanned,
		"changed", report.Changed,
		"added", report.Added,
		"updated", report.Updated,
		"deleted", report.Deleted,
		"media", report.MediaUploaded,
		"duplicates", len(report.Duplicates),
		"warnings", len(report.Warnings),
		"dry_run", report.DryRun,
		"duration", report.Duration(),
	)
	return report, nil
}

func (e *Engine) run(ctx context.Context, log *slog.Logger, report *core.Report) error {
	cache := e.config.Cache
	store := e.config.Store

	if err := cache.Load(); err != nil {
		report.Warn("hash cache ignored: %v", err)
		log.Warn("hash cache ignored, every document is treated as changed", "error", err)
	}

	docs, err := e.config.Scanner.Scan(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to scan vault: %w", err)
	}
	report.Scanned = len(docs)

	var changed []*core.Document
	for _, d := range docs {
		if !cache.Contains(d.OriginalHash) {
			changed = append(changed, d)
		}
	}
	report.Changed = len(changed)
	if len(changed) == 0 {
		log.Info("no document changed since the last sync")
		return nil
	}
	log.Debug("documents changed", "count", len(changed))

	records, err := e.extract(ctx, changed, report)
	if err != nil {
		return err
	}
	report.Extracted = len(records)

	remote, err := store.RecordIDs(ctx, e.config.Query)
	if err != nil {
		return fmt.Errorf("failed to list remote records: %w", err)
	}
	names, err := store.MediaNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remote media: %w", err)
	}

	plan := reconcile.Classify(records, remote)
	report.Groups = len(plan.Groups)

	live := make([]*core.Record, 0, len(plan.Add)+len(plan.Update))
	live = append(live, plan.Add...)
	live = append(live, plan.Update...)
	items := reconcile.CollectMedia(live, fs.LoadMedia(e.config.MediaDir))

	index := reconcile.NewMediaIndex(names)
	if e.config.FineGrainedMedia {
		index.FineGrained = true
		if refs := reconcile.Referenced(items, index); len(refs) > 0 {
			index.Contents, err = store.MediaContents(ctx, refs)
			if err != nil {
				return fmt.Errorf("failed to retrieve remote media: %w", err)
			}
		}
	}
	upload, warnings := reconcile.ClassifyMedia(items, index)
	for _, w := range warnings {
		report.Warn("%s", w)
	}

	log.Debug("plan ready",
		"add", len(plan.Add),
		"update", len(plan.Update),
		"delete", len(plan.Delete),
		"groups", len(plan.Groups),
		"media", len(upload),
	)

	if e.config.DryRun {
		report.Added = len(plan.Add)
		report.Updated = len(plan.Update)
		report.Deleted = len(plan.Delete)
		report.MediaUploaded = len(upload)
		return nil
	}

	if len(plan.Groups) > 0 {
		if err := store.CreateGroups(ctx, plan.Groups); err != nil {
			return fmt.Errorf("failed to create groups: %w", err)
		}
	}

	if len(plan.Delete) > 0 {
		if err := store.DeleteRecords(ctx, reconcile.IDs(plan.Delete)); err != nil {
			return fmt.Errorf("failed to delete records: %w", err)
		}
		reconcile.MarkDeleted(plan.Delete)
		report.Deleted = len(plan.Delete)
	}

	if len(plan.Add) > 0 {
		ids, err := store.AddRecords(ctx, reconcile.Payloads(plan.Add))
		if err != nil {
			return fmt.Errorf("failed to add records: %w", err)
		}
		if report.Added, err = reconcile.Added(plan.Add, ids, report); err != nil {
			return err
		}
		for _, d := range report.Duplicates {
			log.Warn("duplicate record not added", "path", d.Path, "front", d.Front)
		}
	}

	for _, d := range changed {
		if len(d.Pending) == 0 && !d.Erase {
			continue
		}
		written, err := fs.Rewrite(d)
		if errors.Is(err, fs.ErrEditConflict) {
			report.Warn("%v", err)
			log.Warn("document edit skipped", "path", d.RelPath, "error", err)
		} else if err != nil {
			return err
		}
		if written {
			log.Debug("document rewritten", "path", d.RelPath, "identifiers", len(d.Pending), "erase", d.Erase)
		}
	}

	if len(plan.Update) > 0 {
		if err := store.UpdateRecords(ctx, reconcile.Payloads(plan.Update)); err != nil {
			return fmt.Errorf("failed to update records: %w", err)
		}
		if err := store.ChangeGroups(ctx, reconcile.GroupChanges(plan.Update)); err != nil {
			return fmt.Errorf("failed to move records: %w", err)
		}
		report.Updated = len(plan.Update)
	}

	if len(upload) > 0 {
		payload, err := reconcile.Uploads(upload)
		if err != nil {
			return err
		}
		if err := store.StoreMedia(ctx, payload); err != nil {
			return fmt.Errorf("failed to store media: %w", err)
		}
		report.MediaUploaded = len(upload)
	}

	hashes := make([]string, len(docs))
	for i, d := range docs {
		hashes[i] = d.CurrentHash
	}
	if err := cache.Save(hashes); err != nil {
		return fmt.Errorf("failed to save hash cache: %w", err)
	}
	return nil
}

// extract runs the extractor over docs in parallel and merges the records
// and warnings in document order.
func (e *Engine) extract(ctx context.Context, docs []*core.Document, report *core.Report) ([]*core.Record, error) {
	perDoc := make([][]*core.Record, len(docs))
	perDocWarnings := make([][]string, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i, d := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perDoc[i], perDocWarnings[i] = e.config.Extractor.Extract(d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []*core.Record
	for i, rs := range perDoc {
		records = append(records, rs...)
		for _, w := range perDocWarnings[i] {
			report.Warn("%s", w)
		}
	}
	return records, nil
}

func (e *Engine) setRunning(running bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = running
}

func (e *Engine) finish(report *core.Report, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.runs++
	e.lastReport = report
	e.lastErr = err
}
