// Package cache owns the Redis client behind the unread counters and
// the job broker.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config carries the client settings sourced from the environment.
type Config struct {
	Addr        string
	DialTimeout time.Duration
}

// New dials Redis and fails fast when the server is unreachable. The
// binaries treat that error as a degraded-mode signal rather than a
// fatal one.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
