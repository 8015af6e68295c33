package resolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"codestep_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache 动态解析结果缓存，key 为 "课程:标题"
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, path string)
	Clear(ctx context.Context) error
}

func cacheKey(courseID, title string) string {
	return courseID + ":" + title
}

// MemoryCache 进程内缓存
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]string)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.items[key]
	return path, ok
}

func (c *MemoryCache) Set(ctx context.Context, key, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = path
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]string)
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

const redisKeyPrefix = "codestep:path:"

// RedisCache 多实例部署时共享解析结果
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	path, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return path, true
}

// Set 写入失败只记录日志，下次解析会重新探测
func (c *RedisCache) Set(ctx context.Context, key, path string) {
	if err := c.client.Set(ctx, redisKeyPrefix+key, path, c.ttl).Err(); err != nil {
		logger.Log.Warn("Failed to cache resolved path",
			zap.String("key", key),
			zap.Error(err))
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
