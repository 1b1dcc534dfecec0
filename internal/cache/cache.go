package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is an optional redis-backed JSON cache. A nil *Cache is valid and every
// method is a no-op on it, so callers never branch on whether redis is configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	ctx context.Context
}

func New(addr string, ttl time.Duration) *Cache {
	if addr == "" { return nil }
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr}), ttl: ttl, ctx: context.Background()}
}

func (c *Cache) Get(key string, value interface{}) bool {
	if c == nil { return false }
	str, err := c.rdb.Get(c.ctx, key).Result()
	if err != nil {
		// redis.Nil when the key does not exist
		return false
	}
	return json.Unmarshal([]byte(str), value) == nil
}

func (c *Cache) Set(key string, value interface{}) {
	if c == nil { return }
	b, err := json.Marshal(value)
	if err != nil { return }
	_ = c.rdb.Set(c.ctx, key, b, c.ttl).Err()
}

func (c *Cache) Delete(keys ...string) {
	if c == nil || len(keys) == 0 { return }
	_ = c.rdb.Del(c.ctx, keys...).Err()
}
