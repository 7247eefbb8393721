package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vaultdeck/pkg/core"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	d.add(core.Change{Type: core.ChangeCreate, Path: "b.md"})
	d.add(core.Change{Type: core.ChangeModify, Path: "a.md"})
	d.add(core.Change{Type: core.ChangeModify, Path: "b.md"})

	select {
	case <-d.Ready():
	case <-time.After(time.Second):
		t.Fatal("debouncer never became ready")
	}
	assert.Equal(t, core.ChangeBatch{
		{Type: core.ChangeModify, Path: "a.md"},
		{Type: core.ChangeModify, Path: "b.md"},
	}, d.drain())
	assert.Empty(t, d.drain())
}

func TestDebouncer_StopDiscardsPending(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	d.add(core.Change{Path: "a.md"})
	d.stop()
	d.add(core.Change{Path: "b.md"})

	select {
	case <-d.Ready():
		t.Fatal("stopped debouncer became ready")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Empty(t, d.drain())
}

func TestWatcher(t *testing.T) {
	root := writeVault(t, map[string]string{
		"a.md":              "a",
		".obsidian/ws.json": "{}",
	})
	s := NewScanner(Config{Root: root, ExcludeDotted: true})
	w := NewWatcher(s, WatchConfig{Debounce: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)
	assert.Eventually(t, w.Active, time.Second, 10*time.Millisecond)

	// Ignored: excluded directory and non-Markdown file.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".obsidian", "x.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "image.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("changed"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("new"), 0644))

	var seen []string
	deadline := time.After(3 * time.Second)
	for len(dedupStrings(seen)) < 2 {
		select {
		case batch := <-changes:
			for _, c := range batch {
				seen = append(seen, c.Path)
			}
		case <-deadline:
			t.Fatalf("timeout waiting for changes, got %v", seen)
		}
	}
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, dedupStrings(seen))

	cancel()
	assert.Eventually(t, func() bool { return !w.Active() }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_ClosesWithUndeliveredBatch(t *testing.T) {
	root := writeVault(t, map[string]string{"a.md": "a"})
	s := NewScanner(Config{Root: root})
	w := NewWatcher(s, WatchConfig{Debounce: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)
	assert.Eventually(t, w.Active, time.Second, 10*time.Millisecond)

	// Fill the buffer and leave a second batch pending in the event loop.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("one"), 0644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("two"), 0644))
	time.Sleep(200 * time.Millisecond)

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				assert.False(t, w.Active())
				return
			}
		case <-deadline:
			t.Fatal("changes channel was not closed")
		}
	}
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
