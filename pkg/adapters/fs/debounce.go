package fs

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// debouncer coalesces bursts of changes. Every add restarts the quiet
// period; when it elapses Ready fires and drain returns the pending changes
// as one batch, keeping the latest change per path. The debouncer never
// delivers batches itself, so the consumer owns the output channel.
type debouncer struct {
	delay time.Duration
	ready chan struct{}

	mu      sync.Mutex
	pending map[string]core.Change
	timer   *time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		ready:   make(chan struct{}, 1),
		pending: make(map[string]core.Change),
	}
}

// Ready signals that the quiet period elapsed. A signal may find nothing to
// drain when a later add was drained together with it.
func (d *debouncer) Ready() <-chan struct{} {
	return d.ready
}

func (d *debouncer) add(c core.Change) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[c.Path] = c

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.signal)
}

func (d *debouncer) signal() {
	select {
	case d.ready <- struct{}{}:
	default:
	}
}

func (d *debouncer) drain() core.ChangeBatch {
	d.mu.Lock()
	defer d.mu.Unlock()

	batch := make(core.ChangeBatch, 0, len(d.pending))
	for _, c := range d.pending {
		batch = append(batch, c)
	}
	clear(d.pending)
	slices.SortFunc(batch, func(a, b core.Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	return batch
}

// stop discards pending changes and ignores later ones.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	clear(d.pending)
}
