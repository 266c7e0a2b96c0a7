package bootstrap

import (
	"context"
	"crypto/tls"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	httpmiddleware "github.com/wolfman30/honeypot-agent/internal/http/middleware"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRateLimiter picks the shared Redis limiter when a client is available
// and falls back to the per-process token bucket otherwise. A non-positive
// rate disables limiting and returns nil.
func BuildRateLimiter(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) httpmiddleware.Limiter {
	if cfg == nil || cfg.RateLimitRPS <= 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	if redisClient != nil {
		limit := burst
		if rps := int(math.Ceil(cfg.RateLimitRPS)); rps > limit {
			limit = rps
		}
		logger.Info("rate limiting via redis", "limit_per_second", limit)
		return httpmiddleware.NewRedisRateLimiter(redisClient, limit, time.Second)
	}
	logger.Info("rate limiting in memory", "rps", cfg.RateLimitRPS, "burst", burst)
	return httpmiddleware.NewRateLimiter(ctx, cfg.RateLimitRPS, burst)
}
