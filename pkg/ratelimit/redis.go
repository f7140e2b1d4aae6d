package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRateLimiter implements RateLimiter using Redis as storage, so the
// window is shared by every instance pointing at the same Redis.
type RedisRateLimiter struct {
	redis *redis.Client
	// prefix for redis keys to avoid collisions
	keyPrefix string
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(redis *redis.Client, keyPrefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:     redis,
		keyPrefix: keyPrefix,
	}
}

// formatKey formats the rate limit key with prefix
func (l *RedisRateLimiter) formatKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, key)
}

// Allow implements RateLimiter.Allow as a fixed window: INCR the counter and
// start its expiry on the first hit of the window.
func (l *RedisRateLimiter) Allow(key string, limit Rate) (bool, RateLimitInfo) {
	ctx := context.Background()
	now := time.Now()
	windowKey := l.formatKey(key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.ExpireNX(ctx, windowKey, limit.Window)
		ttl = pipe.PTTL(ctx, windowKey)
		return nil
	})
	if err != nil {
		// On error, fail open to allow request but log error
		logrus.WithError(err).WithField("key", windowKey).Warn("rate limiter unavailable, allowing request")
		return true, RateLimitInfo{
			Limit:     limit.Requests,
			Remaining: 0,
			Reset:     now.Add(limit.Window),
		}
	}

	remainingWindow := ttl.Val()
	if remainingWindow <= 0 {
		remainingWindow = limit.Window
	}
	reset := now.Add(remainingWindow)

	count := int(incr.Val())
	if count > limit.Requests {
		return false, RateLimitInfo{
			Limit:      limit.Requests,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: retryAfterSeconds(remainingWindow),
		}
	}

	return true, RateLimitInfo{
		Limit:     limit.Requests,
		Remaining: limit.Requests - count,
		Reset:     reset,
	}
}

// Reset implements RateLimiter.Reset
func (l *RedisRateLimiter) Reset(key string) error {
	ctx := context.Background()
	return l.redis.Del(ctx, l.formatKey(key)).Err()
}
