package redis

import (
	"context"
	"time"
)

// RateLimiter enforces a fixed-window request limit per identifier,
// shared across instances through Redis. The counter key lives for one
// window; the first increment of a window sets its expiry.
type RateLimiter struct {
	cache  *Cache
	limit  int
	window time.Duration
}

// NewRateLimiter creates a rate limiter allowing perWindow requests
// per identifier within TTLRateLimitWindow.
func NewRateLimiter(cache *Cache, perWindow int) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limit:  perWindow,
		window: TTLRateLimitWindow,
	}
}

// Allow reports whether the identifier may perform another request in
// the current window.
func (l *RateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	key := RateLimitKey(identifier, "http")

	count, err := l.cache.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := l.cache.Expire(ctx, key, l.window); err != nil {
			return false, err
		}
	}

	return count <= int64(l.limit), nil
}
