package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"locker/contexts/enterprise-management/policy-service/domain/entities"
)

// Cache is the redis-backed policy-list cache. Expiry is handled by redis
// key TTL, so the now argument only matters for deriving it from expiresAt.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(enterpriseID string) string {
	return "locker:policies:" + enterpriseID
}

func (c *Cache) Get(ctx context.Context, enterpriseID string, _ time.Time) ([]entities.Policy, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(enterpriseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var policies []entities.Policy
	if err := json.Unmarshal(raw, &policies); err != nil {
		// Treat a corrupt entry as a miss; it will be rewritten.
		return nil, false, nil
	}
	return policies, true, nil
}

func (c *Cache) Set(ctx context.Context, enterpriseID string, policies []entities.Policy, expiresAt time.Time) error {
	raw, err := json.Marshal(policies)
	if err != nil {
		return err
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, cacheKey(enterpriseID), raw, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, enterpriseID string) error {
	return c.client.Del(ctx, cacheKey(enterpriseID)).Err()
}
