package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start  time.Time
	length time.Duration
	count  int
}

func (w *window) expired(now time.Time) bool {
	return !now.Before(w.start.Add(w.length))
}

// MemoryRateLimiter is a fixed-window limiter whose counters live only as long
// as the process. Windows are reclaimed lazily on the next Allow for the key,
// or in bulk by Prune.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryRateLimiter creates a new MemoryRateLimiter
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return NewMemoryRateLimiterWithClock(time.Now)
}

func NewMemoryRateLimiterWithClock(now func() time.Time) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		now:     now,
	}
}

// Allow implements RateLimiter.Allow
func (l *MemoryRateLimiter) Allow(key string, limit Rate) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || w.expired(now) {
		w = &window{start: now, length: limit.Window}
		l.windows[key] = w
	}

	reset := w.start.Add(w.length)
	if w.count >= limit.Requests {
		return false, RateLimitInfo{
			Limit:      limit.Requests,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: retryAfterSeconds(reset.Sub(now)),
		}
	}

	w.count++
	return true, RateLimitInfo{
		Limit:     limit.Requests,
		Remaining: limit.Requests - w.count,
		Reset:     reset,
	}
}

// Reset implements RateLimiter.Reset
func (l *MemoryRateLimiter) Reset(key string) error {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
	return nil
}

// Prune drops every window that has already ended and returns how many were removed.
func (l *MemoryRateLimiter) Prune() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if w.expired(now) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked windows.
func (l *MemoryRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
