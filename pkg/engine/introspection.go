package engine

import (
	"time"

	"github.com/aretw0/introspection"
)

// State exposes the engine's internal state for observability.
type State struct {
	Running  bool  `json:"running"`
	Watching bool  `json:"watching"`
	DryRun   bool  `json:"dry_run"`
	Runs     int   `json:"runs"`
	Scanner  any   `json:"scanner"`
	LastRun  *Last `json:"last_run,omitempty"`
}

// Last summarizes the most recent cycle.
type Last struct {
	RunID      string        `json:"run_id"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Changed    int           `json:"changed"`
	Added      int           `json:"added"`
	Updated    int           `json:"updated"`
	Deleted    int           `json:"deleted"`
	Duplicates int           `json:"duplicates"`
	Warnings   int           `json:"warnings"`
	Error      string        `json:"error,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := State{
		Running:  e.running,
		Watching: e.watching,
		DryRun:   e.config.DryRun,
		Runs:     e.runs,
		Scanner:  e.config.Scanner.State(),
	}
	if r := e.lastReport; r != nil {
		s.LastRun = &Last{
			RunID:      r.RunID,
			FinishedAt: r.FinishedAt,
			Duration:   r.Duration(),
			Changed:    r.Changed,
			Added:      r.Added,
			Updated:    r.Updated,
			Deleted:    r.Deleted,
			Duplicates: len(r.Duplicates),
			Warnings:   len(r.Warnings),
		}
		if e.lastErr != nil {
			s.LastRun.Error = e.lastErr.Error()
		}
	}
	return s
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
