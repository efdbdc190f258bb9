package cache

import (
	"os"
	"sync"
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// MemoryCache is a process-local cache backend with no persistence,
// grounded on the teacher's internal/index/store.go MemoryStore. It
// backs unit tests and any caller that explicitly asked for an
// in-memory cache (empty PipelineConfig.CachePath).
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]api.CacheEntry
	scanStates map[string]ScanState
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]api.CacheEntry),
		scanStates: make(map[string]ScanState),
	}
}

func (c *MemoryCache) Get(path string, currentSize int64, currentModified time.Time) (*api.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[path]
	if !ok || !entry.IsFreshFor(currentSize, currentModified) {
		return nil, nil
	}
	cp := entry
	return &cp, nil
}

func (c *MemoryCache) Set(entry api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Path] = entry
	return nil
}

func (c *MemoryCache) SetBatch(entries []api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		c.entries[e.Path] = e
	}
	return nil
}

func (c *MemoryCache) Remove(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]api.CacheEntry)
	c.scanStates = make(map[string]ScanState)
	return nil
}

func (c *MemoryCache) Stats() (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var stats Stats
	for _, e := range c.entries {
		stats.TotalEntries++
		stats.TotalSizeBytes += int64(len(e.Hash))
		if stats.Oldest.IsZero() || e.CachedAt.Before(stats.Oldest) {
			stats.Oldest = e.CachedAt
		}
		if e.CachedAt.After(stats.Newest) {
			stats.Newest = e.CachedAt
		}
	}
	return stats, nil
}

func (c *MemoryCache) PruneOrphans() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pruned := 0
	for path := range c.entries {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(c.entries, path)
			pruned++
		}
	}
	return pruned, nil
}

func (c *MemoryCache) GetScanState(directory string) (ScanState, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.scanStates[directory]
	return st, ok, nil
}

func (c *MemoryCache) SetScanState(state ScanState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanStates[state.Directory] = state
	return nil
}

func (c *MemoryCache) Close() error { return nil }
