package infrastructures

import (
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
)

const rateLimitKeyPrefix = "tapreview"

// NewMemoryRateLimiter returns the process-local limiter, or nil when Redis
// backs rate limiting.
func NewMemoryRateLimiter(config *AppConfig) *ratelimit.MemoryRateLimiter {
	if config.RateLimitBackend == RateLimitBackendRedis {
		return nil
	}
	return ratelimit.NewMemoryRateLimiter()
}

// NewRateLimiter picks the backend named by RATE_LIMIT_BACKEND.
func NewRateLimiter(config *AppConfig, client *redis.Client, memory *ratelimit.MemoryRateLimiter) ratelimit.RateLimiter {
	if config.RateLimitBackend == RateLimitBackendRedis && client != nil {
		return ratelimit.NewRedisRateLimiter(client, rateLimitKeyPrefix)
	}
	if memory == nil {
		memory = ratelimit.NewMemoryRateLimiter()
	}
	return memory
}
