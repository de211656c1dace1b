package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"miner-backend/internal/features/user/models"
)

// UserCache provides Redis-based caching of user profiles keyed by
// Telegram id. Mutating code paths must Invalidate after writing.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) key(telegramID int64) string {
	return fmt.Sprintf("user:tg:%d", telegramID)
}

func (c *UserCache) Set(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(u.TelegramID), b, c.ttl).Err()
}

// GetByTelegramID returns the cached user or (nil, nil) on a miss.
func (c *UserCache) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	v, err := c.client.Get(ctx, c.key(telegramID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) Invalidate(ctx context.Context, telegramID int64) error {
	return c.client.Del(ctx, c.key(telegramID)).Err()
}
