package symmetry

import (
	"sync"
	"time"
)

// cacheEntry represents a cached provider dataset.
type cacheEntry struct {
	expiry  time.Time
	dataset *Dataset
}

// datasetCache provides thread-safe memoization of provider answers, keyed
// by reduced-structure content hash and tolerance. Batch runs frequently
// classify near-duplicate inputs, and a symmetry query is the most expensive
// step of the pipeline.
type datasetCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newDatasetCache creates a new cache with the specified TTL.
func newDatasetCache(ttl time.Duration) *datasetCache {
	if ttl == 0 {
		ttl = time.Hour
	}

	cache := &datasetCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// get retrieves a dataset from the cache if it exists and hasn't expired.
func (c *datasetCache) get(key string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiry) {
		return nil, false
	}

	return entry.dataset, true
}

// set stores a dataset in the cache.
func (c *datasetCache) set(key string, dataset *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		dataset: dataset,
		expiry:  time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *datasetCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *datasetCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *datasetCache) Close() {
	close(c.stopCh)
}
