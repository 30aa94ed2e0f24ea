package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a caller may start cost more analyses.
type RateLimiter interface {
	Allow(ctx context.Context, key string, cost int) (bool, error)
}

// rateCounter is the subset of *redis.Client used for fixed window counting.
type rateCounter interface {
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	DecrBy(ctx context.Context, key string, decrement int64) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type redisRateLimiter struct {
	counter rateCounter
	limit   int64
	window  time.Duration
	prefix  string
	now     func() time.Time
}

// NewRedisRateLimiter allows limit calls per key in each fixed window.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
	return newRedisRateLimiter(client, limit, window)
}

func newRedisRateLimiter(counter rateCounter, limit int, window time.Duration) *redisRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &redisRateLimiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		prefix:  "ratelimit:analyze:",
		now:     time.Now,
	}
}

// Allow implements RateLimiter. A request costing more than what is left in the
// window is rejected and its cost given back. When Redis fails the call is allowed
// and the error is returned for logging.
func (r *redisRateLimiter) Allow(ctx context.Context, key string, cost int) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	if cost < 1 {
		cost = 1
	}

	slot := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, slot)

	count, err := r.counter.IncrBy(ctx, redisKey, int64(cost)).Result()
	if err != nil {
		return true, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == int64(cost) {
		if err := r.counter.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return true, fmt.Errorf("failed to set rate counter expiry: %w", err)
		}
	}

	if count > r.limit {
		if err := r.counter.DecrBy(ctx, redisKey, int64(cost)).Err(); err != nil {
			return false, fmt.Errorf("failed to refund rate counter: %w", err)
		}
		return false, nil
	}

	return true, nil
}

type noopRateLimiter struct{}

// NewNoopRateLimiter returns a limiter that always allows.
func NewNoopRateLimiter() RateLimiter {
	return noopRateLimiter{}
}

func (noopRateLimiter) Allow(ctx context.Context, key string, cost int) (bool, error) {
	return true, nil
}
