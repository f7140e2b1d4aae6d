package infrastructures

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to Redis when it backs the rate limiter and
// returns nil otherwise.
func NewRedisClient(config *AppConfig) (*redis.Client, error) {
	if config.RateLimitBackend != RateLimitBackendRedis {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       0, // use default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logrus.WithField("address", config.RedisAddress).Info("redis connected")
	return client, nil
}
