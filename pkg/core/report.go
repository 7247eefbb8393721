package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Duplicate describes a record the remote store refused to add.
type Duplicate struct {
	Path  string
	Front string
}

// Report carries the counters and diagnostics of one sync run.
// It is created per run and handed back to the caller.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	Scanned   int
	Changed   int
	Extracted int

	Added         int
	Updated       int
	Deleted       int
	Groups        int
	MediaUploaded int

	Duplicates []Duplicate
	Warnings   []string

	mu sync.Mutex
}

// NewReport starts a report for a new run.
func NewReport() *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Warn records a non-fatal diagnostic. Safe for concurrent use.
func (r *Report) Warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AddDuplicate records a record rejected as a duplicate.
func (r *Report) AddDuplicate(rec *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := Duplicate{Front: rec.Front()}
	if rec.Doc != nil {
		d.Path = rec.Doc.RelPath
	}
	r.Duplicates = append(r.Duplicates, d)
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Duration is the wall time of the run, zero until Finish is called.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
