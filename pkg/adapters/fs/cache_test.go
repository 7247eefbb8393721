package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCachePath(t *testing.T) {
	got := CachePath("/tmp/cache", "notes")
	want := filepath.Join("/tmp/cache", ".notes_file_hashes.json")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestHashCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		c := NewHashCache(filepath.Join(t.TempDir(), ".v_file_hashes.json"))

		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty cache, got %d", c.Len())
		}
	})

	t.Run("Loads Valid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".v_file_hashes.json")
		os.WriteFile(path, []byte(`["aaa", "bbb"]`), 0644)

		c := NewHashCache(path)
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !c.Contains("aaa") || !c.Contains("bbb") {
			t.Error("expected both hashes to be loaded")
		}
		if c.Contains("ccc") {
			t.Error("unexpected hash ccc")
		}
	})

	t.Run("Resets on Corrupted JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".v_file_hashes.json")
		os.WriteFile(path, []byte(`{ "broken": `), 0644)

		c := NewHashCache(path)
		err := c.Load()
		if !errors.Is(err, ErrCorruptCache) {
			t.Fatalf("expected ErrCorruptCache, got %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty cache after corruption, got %d", c.Len())
		}
	})
}

func TestHashCache_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	path := CachePath(dir, "v")
	c := NewHashCache(path)

	if err := c.Save([]string{"bbb", "aaa", "bbb"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if string(data) != `["aaa","bbb"]` {
		t.Errorf("unexpected cache content %s", data)
	}

	reloaded := NewHashCache(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("expected 2 hashes, got %d", reloaded.Len())
	}

	// Save replaces, it does not merge.
	if err := c.Save([]string{"ccc"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if c.Contains("aaa") || !c.Contains("ccc") {
		t.Error("expected cache to be replaced wholesale")
	}
}

func TestHashCache_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".v_file_hashes.json")
	c := NewHashCache(path)
	if err := c.Save([]string{"aaa"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("expected empty list on disk, got %s", data)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}
