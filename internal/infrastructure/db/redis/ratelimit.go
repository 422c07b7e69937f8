package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<client key>:<window start unix>
type RateLimiter struct {
	client redis.UniversalClient
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows max hits per client key in each window.
func NewRateLimiter(client redis.UniversalClient, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window, now: time.Now}
}

// Allow records one hit for key and reports whether it is within the limit,
// together with the hits left in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := l.key(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit: %w", err)
	}

	n := int(incr.Val())
	remaining := l.max - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= l.max, remaining, nil
}

// Limit is the number of hits allowed per window.
func (l *RateLimiter) Limit() int {
	return l.max
}

func (l *RateLimiter) key(client string) string {
	start := l.now().Truncate(l.window)
	return fmt.Sprintf("ratelimit:%s:%d", client, start.Unix())
}
