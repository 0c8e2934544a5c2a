package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitPrefix = "ratelimit:"
)

// RateLimiter is a fixed-window request counter keyed by client
type RateLimiter struct {
	client   *Client
	requests int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter allows up to requests per window for each key
func NewRateLimiter(client *Client, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:   client,
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow checks if a request should be allowed based on rate limits
// Returns (allowed, remaining, resetTime, error)
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := r.now()
	windowStart := now.Truncate(r.window)
	windowEnd := windowStart.Add(r.window)
	fullKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())

	pipe := r.client.rdb.Pipeline()

	// Increment counter
	incrCmd := pipe.Incr(ctx, fullKey)

	// Set expiry if key is new
	pipe.ExpireNX(ctx, fullKey, r.window)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	remaining := int(int64(r.requests) - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= int64(r.requests), remaining, windowEnd, nil
}

// Limit returns the number of requests allowed per window
func (r *RateLimiter) Limit() int {
	return r.requests
}
