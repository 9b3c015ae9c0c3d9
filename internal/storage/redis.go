package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hive-food/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache holds menu listings, the hottest read in the system.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func menuKey(restaurantID int) string {
	return "menu:" + strconv.Itoa(restaurantID)
}

// GetMenu returns nil on a cache miss.
func (c *RedisCache) GetMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	payload, err := c.Client.Get(ctx, menuKey(restaurantID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.MenuItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCache) SetMenu(ctx context.Context, restaurantID int, items []domain.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuKey(restaurantID), payload, c.TTL).Err()
}

func (c *RedisCache) DropMenu(ctx context.Context, restaurantID int) error {
	return c.Client.Del(ctx, menuKey(restaurantID)).Err()
}
