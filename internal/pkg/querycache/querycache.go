// Package querycache is the process-local read-through cache for store
// queries. Entries are projections of store state, never authoritative, and
// expire after a fixed TTL. Any write that could make a cached read stale
// must invalidate by key or prefix.
package querycache

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultTTL      = 15 * time.Minute
	DefaultCapacity = 512
)

type entry struct {
	value      interface{}
	insertedAt time.Time
}

// Cache is a TTL cache over a bounded LRU store. Safe for concurrent use.
type Cache struct {
	store *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache. A nil now func defaults to time.Now; non-positive
// ttl/capacity fall back to the defaults.
func New(ttl time.Duration, capacity int, now func() time.Time) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	store, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, ttl: ttl, now: now}, nil
}

// Get returns the cached value if it is still fresh. Stale entries are
// dropped lazily on lookup.
func (c *Cache) Get(key string) (interface{}, bool) {
	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.store.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value with the current insertion timestamp.
func (c *Cache) Set(key string, value interface{}) {
	c.store.Add(key, entry{value: value, insertedAt: c.now()})
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key string) {
	c.store.Remove(key)
}

// InvalidateByPrefix removes every key that starts with prefix, including
// an exact match of the prefix itself.
func (c *Cache) InvalidateByPrefix(prefix string) {
	for _, key := range c.store.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.store.Remove(key)
		}
	}
}

// Len returns the number of entries currently held, fresh or stale.
func (c *Cache) Len() int { return c.store.Len() }
