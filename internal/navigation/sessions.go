package navigation

import (
	"codestep_backend/pkg/logger"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultSessionTTL = 2 * time.Hour

type session struct {
	manager  *Manager
	lastUsed time.Time
}

// Sessions 按用户保存导航状态，长时间未使用的会被清理
type Sessions struct {
	mu       sync.Mutex
	routes   *RouteTable
	ttl      time.Duration
	sessions map[uint]*session
	now      func() time.Time
}

func NewSessions(routes *RouteTable, ttl time.Duration) *Sessions {
	if routes == nil {
		routes = DefaultRouteTable()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		routes:   routes,
		ttl:      ttl,
		sessions: make(map[uint]*session),
		now:      time.Now,
	}
}

func (s *Sessions) Routes() *RouteTable {
	return s.routes
}

// Get 返回用户的导航状态，没有时新建
func (s *Sessions) Get(userID uint) *Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{manager: NewManager(s.routes)}
		s.sessions[userID] = sess
	}
	sess.lastUsed = s.now()
	return sess.manager
}

// Drop 清空并删除用户的导航状态，仍持有旧 Manager 的请求看到的是空状态
func (s *Sessions) Drop(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.manager.Reset()
		delete(s.sessions, userID)
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep 删除超过 TTL 未使用的会话，返回删除数量
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run 定期清理过期会话，直到 ctx 结束
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Log.Debug("Navigation sessions expired", zap.Int("count", n))
			}
		}
	}
}
