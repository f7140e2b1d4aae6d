package ratelimit

import (
	"math"
	"time"
)

// Rate defines the rate limit configuration
type Rate struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for the rate limit
	Window time.Duration
}

// RateLimitInfo contains information about the current rate limit status
type RateLimitInfo struct {
	// Limit is the total number of requests allowed
	Limit int
	// Remaining is the number of requests remaining
	Remaining int
	// Reset is when the current window ends
	Reset time.Time
	// RetryAfter is the whole number of seconds until the window resets. Zero when allowed.
	RetryAfter int
}

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Allow checks if a request is allowed and returns rate limit info
	Allow(key string, limit Rate) (bool, RateLimitInfo)
	// Reset resets the rate limit for a key
	Reset(key string) error
}

// Common rate limits
var (
	// RedemptionLimit bounds ticket redemption attempts per staff actor (10 req/min)
	RedemptionLimit = Rate{
		Requests: 10,
		Window:   time.Minute,
	}

	// TapLimit is for NFC tap landings per IP (30 req/min)
	TapLimit = Rate{
		Requests: 30,
		Window:   time.Minute,
	}

	// ClaimLimit is for review code and ticket claims per IP (10 req/min)
	ClaimLimit = Rate{
		Requests: 10,
		Window:   time.Minute,
	}

	// LoginLimit is for authentication endpoints (10 req/min)
	LoginLimit = Rate{
		Requests: 10,
		Window:   time.Minute,
	}

	// PublicAPILimit is the global per-IP ceiling (120 req/min)
	PublicAPILimit = Rate{
		Requests: 120,
		Window:   time.Minute,
	}
)

// retryAfterSeconds rounds up so a client never retries before the window ends.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
