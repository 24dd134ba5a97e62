package fskit

import "sync"

// ListingCache caches directory listings per path for drivers whose
// backends make enumeration expensive. It is deliberately minimal: the
// contract only requires explicit invalidation after writes, not general
// metadata caching.
//
// Safe for concurrent use.
type ListingCache struct {
	mu       sync.RWMutex
	listings map[string][]Entry
}

// NewListingCache returns an empty listing cache.
func NewListingCache() *ListingCache {
	return &ListingCache{
		listings: make(map[string][]Entry),
	}
}

// Get returns the cached listing for path and whether one exists.
func (c *ListingCache) Get(path string) ([]Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.listings[path]
	return entries, ok
}

// Set stores the listing for path.
func (c *ListingCache) Set(path string, entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[path] = entries
}

// Invalidate drops the cached listing for path.
func (c *ListingCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listings, path)
}

// Clear drops every cached listing.
func (c *ListingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = make(map[string][]Entry)
}

// Len returns the number of cached listings.
func (c *ListingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}
