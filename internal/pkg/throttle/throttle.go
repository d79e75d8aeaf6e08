// Package throttle is the process-wide sliding-window limiter on store
// traffic. It is a single shared counter, not per-user: the goal is to cap
// the total volume of backend calls a running instance may issue, as a
// guard against runaway loops, not as a security control.
package throttle

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 100
	DefaultWindow = 5 * time.Minute
)

// Limiter counts accepted calls within a sliding window. Safe for
// concurrent use.
type Limiter struct {
	mu     sync.Mutex
	stamps []time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// New creates a limiter. A nil now func defaults to time.Now; non-positive
// limit/window fall back to the defaults.
func New(limit int, window time.Duration, now func() time.Time) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{limit: limit, window: window, now: now}
}

// TryAcquire reports whether the call is allowed. A rejected call is not
// recorded and is never queued or retried here; the caller falls back to
// cached data or abandons the attempt.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	drop := 0
	for drop < len(l.stamps) && l.stamps[drop].Before(cutoff) {
		drop++
	}
	if drop > 0 {
		l.stamps = l.stamps[drop:]
	}

	if len(l.stamps) >= l.limit {
		return false
	}
	l.stamps = append(l.stamps, now)
	return true
}

// Pending returns the number of calls currently counted in the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for _, ts := range l.stamps {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}
