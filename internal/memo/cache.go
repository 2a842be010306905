package memo

import (
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an append-only, string-keyed store for resolved values.
// Entries never expire and there is no background janitor.
type Cache struct {
	store *gocache.Cache

	// Statistics (using atomic operations for thread safety)
	stats struct {
		hits   int64
		misses int64
	}
}

// Statistics tracks cache performance metrics.
type Statistics struct {
	Hits    int64
	Misses  int64
	Entries int
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a value by key and records a hit or miss.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		atomic.AddInt64(&c.stats.hits, 1)
		return v, true
	}

	atomic.AddInt64(&c.stats.misses, 1)
	return nil, false
}

// Store records v under key unless a value is already present, and returns
// whichever value the cache now holds.
func (c *Cache) Store(key string, v any) any {
	if err := c.store.Add(key, v, gocache.NoExpiration); err != nil {
		if existing, ok := c.store.Get(key); ok {
			return existing
		}
	}
	return v
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Statistics returns cache statistics (thread-safe).
func (c *Cache) Statistics() Statistics {
	return Statistics{
		Hits:    atomic.LoadInt64(&c.stats.hits),
		Misses:  atomic.LoadInt64(&c.stats.misses),
		Entries: c.store.ItemCount(),
	}
}
