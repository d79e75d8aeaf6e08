// Package storegate combines the query cache and the store-call limiter
// into the single gate every service reads and writes through. All store
// traffic pays the limiter toll; reads that get rejected can still be
// served from a fresh cache entry.
package storegate

import (
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/querycache"
	"github.com/penlight/core/internal/pkg/throttle"
)

// ErrRateLimited is returned when the limiter rejects a call and no cached
// value can stand in.
var ErrRateLimited = apperr.New(apperr.KindRateLimited, "too many requests, please try again in a few minutes")

type Gate struct {
	cache   *querycache.Cache
	limiter *throttle.Limiter
}

func New(cache *querycache.Cache, limiter *throttle.Limiter) *Gate {
	return &Gate{cache: cache, limiter: limiter}
}

// Cached runs fetch under the limiter and memoizes the result under key.
// When the limiter rejects, a still-fresh cache entry is returned instead;
// with no entry the caller gets ErrRateLimited. Fetch errors are returned
// as-is and nothing is cached.
func (g *Gate) Cached(key string, fetch func() (interface{}, error)) (interface{}, error) {
	if !g.limiter.TryAcquire() {
		if v, ok := g.cache.Get(key); ok {
			return v, nil
		}
		return nil, ErrRateLimited
	}

	if v, ok := g.cache.Get(key); ok {
		return v, nil
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}
	g.cache.Set(key, v)
	return v, nil
}

// Acquire charges the limiter for a write. Writes have no cached fallback.
func (g *Gate) Acquire() error {
	if !g.limiter.TryAcquire() {
		return ErrRateLimited
	}
	return nil
}

// Invalidate drops a single cache entry.
func (g *Gate) Invalidate(key string) { g.cache.Invalidate(key) }

// InvalidateByPrefix drops every cache entry whose key starts with prefix.
func (g *Gate) InvalidateByPrefix(prefix string) { g.cache.InvalidateByPrefix(prefix) }
