package video

import (
	"sync"
	"time"
)

// pageCache holds first pages per category key.
// Thread-safe for concurrent catalog calls.
type pageCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns a cached page, or nil if absent or expired.
func (c *pageCache) Get(key string) *Page {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return nil
	}
	return entry.page
}

// Put stores a page under key.
func (c *pageCache) Put(key string, page *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		page:    page,
		expires: time.Now().Add(c.ttl),
	}
}

// Clear removes all cached pages.
func (c *pageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
