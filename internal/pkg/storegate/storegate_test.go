package storegate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/querycache"
	"github.com/penlight/core/internal/pkg/throttle"
)

func newGate(t *testing.T, limit int) *Gate {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache, err := querycache.New(15*time.Minute, 64, clock)
	require.NoError(t, err)
	return New(cache, throttle.New(limit, 5*time.Minute, clock))
}

func TestCachedFetchesOnceThenServesFromCache(t *testing.T) {
	g := newGate(t, 10)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return "payload", nil
	}

	for i := 0; i < 3; i++ {
		v, err := g.Cached("articles:page:1", fetch)
		require.NoError(t, err)
		require.Equal(t, "payload", v)
	}
	require.Equal(t, 1, calls, "fresh cache entries must short-circuit the store")
}

func TestCachedFallbackWhenRateLimited(t *testing.T) {
	g := newGate(t, 1)

	v, err := g.Cached("k", func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	require.Equal(t, 42, v)

	// Limiter is exhausted; with no matching entry the read fails.
	_, err = g.Cached("other", func() (interface{}, error) { return nil, nil })
	require.True(t, apperr.IsKind(err, apperr.KindRateLimited))

	// The cached key still answers.
	v, err = g.Cached("k", func() (interface{}, error) {
		t.Fatal("fetch must not run while rate limited")
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestCachedDoesNotCacheFetchErrors(t *testing.T) {
	g := newGate(t, 10)

	boom := errors.New("store down")
	_, err := g.Cached("k", func() (interface{}, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	calls := 0
	v, err := g.Cached("k", func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 1, calls, "a failed fetch must not leave a cache entry behind")
}

func TestAcquire(t *testing.T) {
	g := newGate(t, 2)

	require.NoError(t, g.Acquire())
	require.NoError(t, g.Acquire())
	err := g.Acquire()
	require.True(t, apperr.IsKind(err, apperr.KindRateLimited), "writes past the limit are rejected outright")
}
