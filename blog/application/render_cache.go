package application

import (
	"sync"
	"time"
)

type cacheEntry struct {
	result  *RenderResult
	modTime time.Time
}

// RenderCache memoizes render pipeline output per post slug, invalidated
// only by a source modification-time mismatch. Entries are never evicted;
// the post corpus is small and bounded. An instance is injected into the
// post service rather than living as package state, so tests get a fresh
// cache per run.
//
// The map is guarded by a RWMutex: requests are served concurrently and two
// renders of the same stale post would otherwise race on the write. Both
// would store the same result, but the lock keeps the map itself safe.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewRenderCache() *RenderCache {
	return &RenderCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached result for slug if one exists with exactly the
// given source modification time.
func (c *RenderCache) Get(slug string, modTime time.Time) (*RenderResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[slug]
	if !ok || !entry.modTime.Equal(modTime) {
		return nil, false
	}
	return entry.result, true
}

// Put stores a render result for slug, overwriting any stale entry.
func (c *RenderCache) Put(slug string, modTime time.Time, result *RenderResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[slug] = cacheEntry{result: result, modTime: modTime}
}

// Len reports the number of cached posts.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
