// Package resolver 把课程ID与步骤标题解析为 Markdown 资源路径
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codestep_backend/internal/catalog"
	"codestep_backend/internal/config"
	"codestep_backend/internal/model"
)

const (
	rawMarker = "特点"
	rawQuery  = "?raw"

	// DefaultBaseURL 内容根目录
	DefaultBaseURL = "/Markdown"
)

// Resolver 所有路径策略的统一接口，解析失败时回退到默认路径而不是返回错误
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, courseID, title string) string
}

// RawSuffix 标题包含"特点"的文件以原始文本方式加载
func RawSuffix(title string) string {
	if strings.Contains(title, rawMarker) {
		return rawQuery
	}
	return ""
}

// ObjectPath 去掉查询后缀，得到存储中的对象路径
func ObjectPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func joinBase(base string, parts ...string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/" + strings.Join(parts, "/")
}

// languageFolderFor 课程所属语言的目录名，未知课程按 Python 处理
func languageFolderFor(cat *catalog.Catalog, courseID string) string {
	if cat != nil {
		if course := cat.CourseByID(courseID); course != nil {
			return catalog.LanguageFolder(course.Type)
		}
	}
	return catalog.LanguageFolder(model.LanguagePython)
}

func languageKeyFor(cat *catalog.Catalog, courseID string) string {
	if cat != nil {
		if course := cat.CourseByID(courseID); course != nil {
			return string(course.Type)
		}
	}
	return "unknown"
}

// Deps 构造策略时可用的依赖，按需取用
type Deps struct {
	Catalog *catalog.Catalog
	Table   catalog.PathTable
	Prober  Prober
	Cache   Cache
}

type Factory func(cfg *config.ResolverConfig, deps Deps) (Resolver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"range": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			return NewRangeStrategy(cfg.BaseURL, deps.Table), nil
		},
		"hierarchical": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			return NewHierarchicalStrategy(cfg.BaseURL, deps.Catalog), nil
		},
		"flat": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			return NewFlatStrategy(cfg.BaseURL), nil
		},
		"language": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			return NewLanguageStrategy(cfg.BaseURL, deps.Catalog), nil
		},
		"versioned": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			return NewVersionedStrategy(cfg.BaseURL, cfg.Version), nil
		},
		"dynamic": func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
			if deps.Prober == nil {
				return nil, fmt.Errorf("dynamic strategy requires a prober")
			}
			return NewDynamicStrategy(cfg.BaseURL, deps.Catalog, deps.Table, deps.Prober, deps.Cache), nil
		},
	}
)

// Register 注册自定义策略，同名覆盖
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Strategies 已注册的策略名
func Strategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStrategy 按配置中的策略名创建解析器
func NewStrategy(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Strategy]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown path strategy: %s", cfg.Strategy)
	}
	if deps.Table == nil {
		deps.Table = catalog.DefaultPathTable()
	}
	return factory(cfg, deps)
}
