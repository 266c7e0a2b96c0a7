package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window counter shared across replicas.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per key in each window.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	if client == nil {
		panic("middleware: redis client cannot be nil")
	}
	if window <= 0 {
		window = time.Second
	}
	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "honeypot:ratelimit",
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("middleware: rate limit counter: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
