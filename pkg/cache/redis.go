package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/scholarship-approval-api/pkg/config"
)

const pingTimeout = 3 * time.Second

// NewRedis connects the calendar cache. Callers treat an error as "run without cache".
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: "scholarship-approval-api",
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// Check adapts a Redis client to readiness checks.
type Check struct {
	Client *redis.Client
}

// PingContext reports whether Redis answers.
func (p Check) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
