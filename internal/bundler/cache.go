package bundler

import (
	"sort"
	"sync"
)

// Cache maps entry paths to bundle text.
type Cache interface {
	Get(entryPath string) (string, bool)
	Set(entryPath, text string)
	Len() int
}

// MemoryCache is an unbounded in-process Cache. Entries never expire; keys are
// the fixed set of registered entry paths. Concurrent writers of the same key
// race with last-writer-wins, which is safe because builds are deterministic.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(entryPath string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[entryPath]
	return text, ok
}

func (c *MemoryCache) Set(entryPath, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryPath] = text
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached entry paths in sorted order.
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
