package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"codestep_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// HotSearchStore 热门搜索词计数
type HotSearchStore interface {
	List(ctx context.Context) ([]model.HotSearch, error)
	Increment(ctx context.Context, query string) error
}

// DefaultHotSearches 初始热搜数据
func DefaultHotSearches() []model.HotSearch {
	return []model.HotSearch{
		{ID: "1", Query: "Python入门", Count: 1234, Trend: "up"},
		{ID: "2", Query: "JavaScript", Count: 987, Trend: "up"},
		{ID: "3", Query: "HTML基础", Count: 756, Trend: "stable"},
		{ID: "4", Query: "前端开发", Count: 645, Trend: "down"},
		{ID: "5", Query: "Vue教程", Count: 543, Trend: "up"},
		{ID: "6", Query: "React入门", Count: 432, Trend: "stable"},
		{ID: "7", Query: "数据结构", Count: 321, Trend: "up"},
		{ID: "8", Query: "算法学习", Count: 234, Trend: "stable"},
	}
}

func sortHotSearches(items []model.HotSearch) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
}

type MemoryHotSearchStore struct {
	mu    sync.RWMutex
	items []model.HotSearch
}

func NewMemoryHotSearchStore(seed []model.HotSearch) *MemoryHotSearchStore {
	items := make([]model.HotSearch, len(seed))
	copy(items, seed)
	return &MemoryHotSearchStore{items: items}
}

func (s *MemoryHotSearchStore) List(ctx context.Context) ([]model.HotSearch, error) {
	s.mu.RLock()
	items := make([]model.HotSearch, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	sortHotSearches(items)
	return items, nil
}

// Increment 只对已有热搜词计数，普通搜索词不会进入热搜
func (s *MemoryHotSearchStore) Increment(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Query == query {
			s.items[i].Count++
			return nil
		}
	}
	return nil
}

const (
	hotSearchCountKey = "codestep:hot:count"
	hotSearchMetaKey  = "codestep:hot:meta"
)

// RedisHotSearchStore 计数存放在有序集合中，ID 和趋势存放在哈希中
type RedisHotSearchStore struct {
	client *redis.Client
}

// NewRedisHotSearchStore 集合为空时写入初始数据
func NewRedisHotSearchStore(ctx context.Context, client *redis.Client, seed []model.HotSearch) (*RedisHotSearchStore, error) {
	s := &RedisHotSearchStore{client: client}
	n, err := client.ZCard(ctx, hotSearchCountKey).Result()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return s, nil
	}

	pipe := client.TxPipeline()
	for _, item := range seed {
		pipe.ZAdd(ctx, hotSearchCountKey, &redis.Z{Score: float64(item.Count), Member: item.Query})
		pipe.HSet(ctx, hotSearchMetaKey, item.Query, item.ID+"|"+item.Trend)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RedisHotSearchStore) List(ctx context.Context) ([]model.HotSearch, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, hotSearchCountKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	meta, err := s.client.HGetAll(ctx, hotSearchMetaKey).Result()
	if err != nil {
		return nil, err
	}

	items := make([]model.HotSearch, 0, len(entries))
	for i, e := range entries {
		query, _ := e.Member.(string)
		id, trend := strconv.Itoa(i+1), "stable"
		if m, ok := meta[query]; ok {
			if metaID, metaTrend, found := strings.Cut(m, "|"); found {
				id, trend = metaID, metaTrend
			}
		}
		items = append(items, model.HotSearch{ID: id, Query: query, Count: int64(e.Score), Trend: trend})
	}
	return items, nil
}

func (s *RedisHotSearchStore) Increment(ctx context.Context, query string) error {
	if err := s.client.ZScore(ctx, hotSearchCountKey, query).Err(); err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}
	return s.client.ZIncrBy(ctx, hotSearchCountKey, 1, query).Err()
}
