package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ErrCorruptCache is returned by HashCache.Load when the file exists but
// cannot be decoded. The cache is left empty.
var ErrCorruptCache = errors.New("corrupt hash cache")

// CachePath returns the location of the hash cache of a vault.
func CachePath(dir, vaultName string) string {
	return filepath.Join(dir, "."+vaultName+"_file_hashes.json")
}

// HashCache is the persisted set of content hashes seen at the end of the
// last successful run. On disk it is a JSON list of hex strings.
type HashCache struct {
	Path string

	mu     sync.RWMutex
	hashes map[string]struct{}
}

// NewHashCache creates an empty cache stored at path.
func NewHashCache(path string) *HashCache {
	return &HashCache{
		Path:   path,
		hashes: make(map[string]struct{}),
	}
}

// Load reads the cache from disk. A missing file is an empty cache. Any other
// failure also leaves the cache empty and is returned so callers can warn
// about it; it must never stop a run.
func (c *HashCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hashes = make(map[string]struct{})

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read hash cache: %w", err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCorruptCache, c.Path, err)
	}
	for _, h := range list {
		c.hashes[h] = struct{}{}
	}
	return nil
}

// Contains reports whether hash was recorded by the last run.
func (c *HashCache) Contains(hash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.hashes[hash]
	return ok
}

// Len returns the number of cached hashes.
func (c *HashCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hashes)
}

// Save replaces the whole cache with hashes and writes it atomically.
func (c *HashCache) Save(hashes []string) error {
	set := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	list := make([]string, 0, len(set))
	for h := range set {
		list = append(list, h)
	}
	slices.Sort(list)

	data, err := json.Marshal(list)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := writeFileAtomic(c.Path, data, defaultFileMode); err != nil {
		return err
	}

	c.mu.Lock()
	c.hashes = set
	c.mu.Unlock()
	return nil
}

// Clear resets the cache, forcing the next run to process every document.
func (c *HashCache) Clear() error {
	return c.Save(nil)
}
