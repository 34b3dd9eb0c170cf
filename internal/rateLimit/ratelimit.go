// Package rateLimit is a fixed window request limiter kept in Redis.
package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/flight-seat-reservations/internal/adapters/redis"
)

type RateLimiter struct {
	redis *redisadapter.Cache
}

// NewRateLimiter returns nil when redis is nil; a nil limiter allows
// everything.
func NewRateLimiter(redis *redisadapter.Cache) *RateLimiter {
	if redis == nil {
		return nil
	}
	return &RateLimiter{redis: redis}
}

// Allow counts one request against key for the current window. Redis
// failures fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	if rl == nil || rate <= 0 {
		return true
	}
	fullKey := "rl:" + key

	pipe := rl.redis.Client().TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, period)

	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	return incr.Val() <= int64(rate)
}
