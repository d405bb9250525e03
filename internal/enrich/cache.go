package enrich

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a small bounded memo map for enrichment results. Values are a
// pure function of the key, so last-writer-wins under concurrent writers is
// fine. When full, inserting sweeps expired entries; if the sweep frees
// nothing the insert is dropped rather than growing without bound.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	items   map[string]cacheEntry[V]
	maxSize int
	ttl     time.Duration
}

// NewTTLCache builds a cache holding at most maxSize live entries.
func NewTTLCache[V any](maxSize int, ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		items:   make(map[string]cacheEntry[V]),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns the cached value for key when present and unexpired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key for the cache TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= c.maxSize {
		for k, e := range c.items {
			if now.After(e.expiresAt) {
				delete(c.items, k)
			}
		}
		if len(c.items) >= c.maxSize {
			return
		}
	}
	c.items[key] = cacheEntry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
