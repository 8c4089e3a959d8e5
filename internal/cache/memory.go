package cache

import "sync"

// MemoryCache is an in-memory implementation of ResponseCache.
// It uses a map for storage and provides thread-safe operations via RWMutex.
//
// The cache lives only for the duration of the process. Concurrent Puts to
// the same URL are not coalesced; the last writer wins.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache creates a new in-memory cache instance.
// The cache is initialized empty and ready for use.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]string),
	}
}

// Get retrieves the response cached for url.
func (c *MemoryCache) Get(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.data[url]
	return value, exists
}

// Put stores the response for url, overwriting any previous entry.
func (c *MemoryCache) Put(url string, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[url] = text
}

// Clear removes all entries from the cache.
// This method is primarily useful for testing.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]string)
}

// Size returns the number of entries in the cache.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}
