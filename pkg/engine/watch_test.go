package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vaultdeck/pkg/core"
	"github.com/aretw0/vaultdeck/pkg/engine"
)

func TestWatch_RerunsOnChange(t *testing.T) {
	store := newFakeStore()
	f := newFixture(t, store, map[string]string{"a.md": "Q: First?\nA: One\n"},
		func(c *engine.Config) { c.Debounce = 50 * time.Millisecond })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *core.Report, 16)
	done := make(chan error, 1)
	go func() {
		done <- f.engine.Watch(ctx, func(r *core.Report, err error) {
			assert.NoError(t, err)
			reports <- r
		})
	}()

	next := func() *core.Report {
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for a sync run")
			return nil
		}
	}

	first := next()
	assert.Equal(t, 1, first.Added)

	f.write(t, "b.md", "Q: Second?\nA: Two\n")
	added := 0
	for added == 0 {
		added = next().Added
	}
	assert.Equal(t, 1, added)
	assert.Contains(t, f.read(t, "b.md"), "<!--ID: 1001-->")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
