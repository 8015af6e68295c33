package navigation

import (
	"codestep_backend/pkg/logger"
	"sync"

	"go.uber.org/zap"
)

const rootRoute = "/"

// Manager 一个用户的章节学习导航状态，路由器按调用传入
type Manager struct {
	mu            sync.Mutex
	routes        *RouteTable
	chapterRoutes []string
	catalogRoute  string
}

func NewManager(routes *RouteTable) *Manager {
	if routes == nil {
		routes = DefaultRouteTable()
	}
	return &Manager{routes: routes}
}

// State 当前导航状态的快照
type State struct {
	CatalogRoute  string   `json:"catalogRoute"`
	ChapterRoutes []string `json:"chapterRoutes"`
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	routes := make([]string, len(m.chapterRoutes))
	copy(routes, m.chapterRoutes)
	return State{CatalogRoute: m.catalogRoute, ChapterRoutes: routes}
}

func (m *Manager) SetCatalogRoute(route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogRoute = route
}

// EnterChapterStudy 记录当前路由，已记录过的不重复添加
func (m *Manager) EnterChapterStudy(r Router) {
	current := r.Current()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, route := range m.chapterRoutes {
		if route == current {
			return
		}
	}
	m.chapterRoutes = append(m.chapterRoutes, current)
	logger.Log.Debug("Chapter route recorded",
		zap.String("route", current),
		zap.Int("count", len(m.chapterRoutes)))
}

func (m *Manager) isChapterRouteLocked(path string) bool {
	for _, route := range m.chapterRoutes {
		if route == path {
			return true
		}
	}
	return m.routes.Intent(path) == IntentChapterStudy
}

func (m *Manager) IsChapterRoute(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isChapterRouteLocked(path)
}

// catalogTargetLocked 未设置目录路由时从当前路径推断，仍无法确定则回到根路径
func (m *Manager) catalogTargetLocked(current string) string {
	if m.catalogRoute != "" {
		return m.catalogRoute
	}
	if catalog, ok := m.routes.CatalogFor(current); ok {
		return catalog
	}
	return rootRoute
}

func (m *Manager) shouldCleanupLocked(current string) bool {
	return m.isChapterRouteLocked(current) && len(m.chapterRoutes) <= 1
}

// ShouldCleanupOnBack 章节内只记录了一个路由时，后退应直接回到目录
func (m *Manager) ShouldCleanupOnBack(r Router) bool {
	current := r.Current()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shouldCleanupLocked(current)
}

// SmartGoBack 章节内第一步后退回到目录，其余情况普通后退
func (m *Manager) SmartGoBack(r Router) {
	current := r.Current()

	m.mu.Lock()
	if !m.shouldCleanupLocked(current) {
		m.mu.Unlock()
		r.Back()
		return
	}
	target := m.catalogTargetLocked(current)
	m.chapterRoutes = nil
	m.mu.Unlock()

	logger.Log.Debug("Back to catalog", zap.String("from", current), zap.String("to", target))
	r.Replace(target)
}

// BackToCatalogWithCleanup 清空章节路由并替换到目录页
func (m *Manager) BackToCatalogWithCleanup(r Router) {
	current := r.Current()

	m.mu.Lock()
	target := m.catalogTargetLocked(current)
	m.chapterRoutes = nil
	m.mu.Unlock()

	r.Replace(target)
}

// CompleteChapterStudy 清空章节路由，改写当前历史记录为目录页后跳转，
// 之后前进后退都不会回到已完成的章节步骤
func (m *Manager) CompleteChapterStudy(r Router) {
	current := r.Current()

	m.mu.Lock()
	target := m.catalogTargetLocked(current)
	m.chapterRoutes = nil
	m.mu.Unlock()

	logger.Log.Debug("Chapter study completed", zap.String("catalog", target))
	r.ReplaceHistory(target)
	r.Replace(target)
}

func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chapterRoutes = nil
	m.catalogRoute = ""
}

func (m *Manager) ChapterRoutesCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chapterRoutes)
}
