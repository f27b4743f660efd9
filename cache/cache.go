package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 面板聚合结果的 Redis 短 TTL 缓存。写操作负责失效对应的 key。
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

const (
	KeyVolume       = "dash:volume"
	KeyRecent       = "dash:recent"
	KeyDistribution = "dash:distribution"
)

func key(k string) string { return fmt.Sprintf("mr:%s", k) }

// GetJSON 命中时反序列化进 dest，miss 返回 false（redis.Nil 不算错误）
func (c *Cache) GetJSON(ctx context.Context, k string, dest interface{}) (bool, error) {
	b, err := c.rdb.Get(ctx, key(k)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, k string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(k), b, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	pipe := c.rdb.TxPipeline()
	for _, k := range keys {
		pipe.Del(ctx, key(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}
