package leaderboard

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Evict(ctx context.Context, key string) error {
	// DEL of a missing key is already a no-op, which is exactly the
	// idempotency the coordinator needs.
	return c.rdb.Del(ctx, key).Err()
}

func (c *RedisCache) EvictAll(ctx context.Context) error {
	return c.rdb.FlushAll(ctx).Err()
}
