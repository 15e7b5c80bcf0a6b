// Package ratelimit counts requests per caller in fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLimit  = 60
	defaultWindow = time.Minute
	keyPrefix     = "beats:rl:"
)

// Limiter decides whether the caller identified by id may proceed
type Limiter interface {
	Allow(ctx context.Context, id string) bool
}

type Settings struct {
	Enabled   bool          `mapstructure:"enabled"`
	Limit     int           `mapstructure:"limit"`
	Window    time.Duration `mapstructure:"window"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

func (s Settings) withDefaults() Settings {
	if s.Limit < 1 {
		s.Limit = defaultLimit
	}
	if s.Window <= 0 {
		s.Window = defaultWindow
	}
	return s
}

// New builds the limiter described by settings. It returns nil when rate
// limiting is disabled. A redis address selects the shared redis counter,
// otherwise counts are kept in process memory.
func New(ctx context.Context, settings Settings) (Limiter, error) {
	if !settings.Enabled {
		return nil, nil
	}
	settings = settings.withDefaults()
	logger := zerolog.Ctx(ctx)

	if settings.RedisAddr == "" {
		logger.Info().
			Int("limit", settings.Limit).
			Dur("window", settings.Window).
			Msg("using in-memory rate limiter")
		return NewMemoryLimiter(settings.Limit, settings.Window, time.Now), nil
	}

	client := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", settings.RedisAddr, err)
	}
	logger.Info().
		Str("addr", settings.RedisAddr).
		Int("limit", settings.Limit).
		Dur("window", settings.Window).
		Msg("using redis rate limiter")
	return NewRedisLimiter(client, settings.Limit, settings.Window), nil
}
