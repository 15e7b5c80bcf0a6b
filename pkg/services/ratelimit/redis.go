package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// noExpiry is the PTTL reply for a key that exists without a TTL
const noExpiry = time.Duration(-1)

// Counter is the subset of the redis client the limiter needs
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter shares fixed-window counts between replicas. Redis failures
// let the request through.
type RedisLimiter struct {
	client Counter
	limit  int
	size   time.Duration
}

func NewRedisLimiter(client Counter, limit int, size time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, size: size}
}

func (l *RedisLimiter) Allow(ctx context.Context, id string) bool {
	logger := zerolog.Ctx(ctx)
	key := keyPrefix + id

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("rate limit counter unavailable, allowing request")
		return true
	}
	if count == 1 || l.missingExpiry(ctx, key) {
		if err := l.client.PExpire(ctx, key, l.size).Err(); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
		}
	}
	return count <= int64(l.limit)
}

// missingExpiry reports whether a counter outlived a failed PEXPIRE. A key
// without a TTL would never reset.
func (l *RedisLimiter) missingExpiry(ctx context.Context, key string) bool {
	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to read rate limit window expiry")
		return false
	}
	return ttl == noExpiry
}
