// Package ratelimit throttles credential endpoints with fixed-window counters
// kept in Redis. Each (scope, client) pair gets INCR on every hit and an
// EXPIRE on the first hit of a window.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps failures talking to Redis. Callers decide
// whether to fail open.
var ErrRedisUnavailable = errors.New("redis unavailable")

const keyPrefix = "neatly:rl:"

// Limiter allows at most limit hits per window for each key.
type Limiter struct {
	redis  redis.UniversalClient
	limit  int
	window time.Duration
}

// New creates a Limiter backed by the given Redis client.
func New(client redis.UniversalClient, limit int, window time.Duration) *Limiter {
	return &Limiter{redis: client, limit: limit, window: window}
}

// Allow records a hit for (scope, id) and reports whether it is within the
// budget. When it is not, the remaining time of the window is returned.
func (l *Limiter) Allow(ctx context.Context, scope, id string) (bool, time.Duration, error) {
	key := keyPrefix + scope + ":" + id

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Reset clears the counter of (scope, id).
func (l *Limiter) Reset(ctx context.Context, scope, id string) error {
	if err := l.redis.Del(ctx, keyPrefix+scope+":"+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping checks connectivity at startup.
func (l *Limiter) Ping(ctx context.Context) error {
	if err := l.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
