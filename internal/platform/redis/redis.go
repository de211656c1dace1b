package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client carries the shared go-redis connection together with the
// user-cache TTL policy this service was configured with, so cache
// consumers take the TTL from one place.
type Client struct {
	*redis.Client
	UserTTL time.Duration
}

// Open connects to Redis and pings it before handing the client out.
func Open(ctx context.Context, addr, password string, db int, userTTL time.Duration) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is not configured")
	}

	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{Client: c, UserTTL: userTTL}, nil
}

// HealthCheck reports whether the connection is still alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
