package resolver

import (
	"context"
	"testing"
	"time"

	"codestep_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedisCacheSetFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "Python基础入门:003-第一个程序", "/Markdown/x.md")
	if _, ok := cache.Get(ctx, "Python基础入门:003-第一个程序"); ok {
		t.Fatalf("unreachable redis should miss")
	}

	entries := logs.FilterMessage("Failed to cache resolved path").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries: want=1 got=%d", len(entries))
	}
	if key := entries[0].ContextMap()["key"]; key != "Python基础入门:003-第一个程序" {
		t.Fatalf("logged key: got=%v", key)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	c.Set(ctx, "a:b", "/Markdown/a/b.md")
	if got, ok := c.Get(ctx, "a:b"); !ok || got != "/Markdown/a/b.md" {
		t.Fatalf("Get: want=%q got=%q ok=%v", "/Markdown/a/b.md", got, ok)
	}
	if err := c.Clear(ctx); err != nil || c.Len() != 0 {
		t.Fatalf("Clear: err=%v len=%d", err, c.Len())
	}
}
