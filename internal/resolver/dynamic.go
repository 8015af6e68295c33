package resolver

import (
	"context"
	"strings"

	"codestep_backend/internal/catalog"
	"codestep_backend/pkg/logger"
	"codestep_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Pattern 生成一个候选路径（不含 ?raw），返回空串表示不适用
type Pattern func(courseID, title string) string

// DynamicStrategy 依次探测候选路径，命中结果写入缓存
type DynamicStrategy struct {
	baseURL  string
	catalog  *catalog.Catalog
	table    catalog.PathTable
	prober   Prober
	cache    Cache
	patterns []Pattern
	group    singleflight.Group
}

func NewDynamicStrategy(baseURL string, cat *catalog.Catalog, table catalog.PathTable, prober Prober, cache Cache) *DynamicStrategy {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if table == nil {
		table = catalog.DefaultPathTable()
	}
	s := &DynamicStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		catalog: cat,
		table:   table,
		prober:  prober,
		cache:   cache,
	}
	s.patterns = []Pattern{
		s.chapterFolderPattern,
		s.hierarchicalPattern,
		func(courseID, title string) string { return s.baseURL + "/" + title + ".md" },
		func(courseID, title string) string {
			return s.baseURL + "/" + languageKeyFor(s.catalog, courseID) + "/" + title + ".md"
		},
		func(courseID, title string) string { return s.baseURL + "/" + courseID + "/" + title + ".md" },
	}
	return s
}

func (s *DynamicStrategy) Name() string { return "dynamic" }

// chapterFolderPattern /Markdown/<语言>/<课程>/<章节ID-章节标题>/<标题>.md
func (s *DynamicStrategy) chapterFolderPattern(courseID, title string) string {
	folder := s.chapterFolder(courseID, title)
	if folder == "" {
		return ""
	}
	return s.baseURL + "/" + languageFolderFor(s.catalog, courseID) + "/" + courseID + "/" + folder + "/" + title + ".md"
}

// chapterFolder 优先按编号区间，编号缺失时按目录中步骤所在章节
func (s *DynamicStrategy) chapterFolder(courseID, title string) string {
	if fileID := catalog.ExtractFileID(title); fileID > 0 {
		if path := s.table.Lookup(courseID); path != nil {
			if folder, ok := path.FolderFor(fileID); ok {
				return folder
			}
		}
	}
	if s.catalog == nil {
		return ""
	}
	course := s.catalog.CourseByID(courseID)
	if course == nil {
		return ""
	}
	for i := range course.Chapters {
		for _, step := range course.Chapters[i].Steps {
			if step.Title == title {
				return catalog.ChapterFolder(&course.Chapters[i])
			}
		}
	}
	return ""
}

func (s *DynamicStrategy) hierarchicalPattern(courseID, title string) string {
	return s.baseURL + "/" + languageFolderFor(s.catalog, courseID) + "/" + courseID + "/" + title + ".md"
}

func (s *DynamicStrategy) Resolve(ctx context.Context, courseID, title string) string {
	key := cacheKey(courseID, title)
	if path, ok := s.cache.Get(ctx, key); ok {
		monitoring.ResolveCounter.WithLabelValues(s.Name(), "cached").Inc()
		return path
	}

	// 结果由所有等待者共享，不随首个调用方取消
	probeCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.probe(probeCtx, courseID, title), nil
	})
	return v.(string)
}

func (s *DynamicStrategy) probe(ctx context.Context, courseID, title string) string {
	suffix := RawSuffix(title)

	for _, pattern := range s.patterns {
		candidate := pattern(courseID, title)
		if candidate == "" {
			continue
		}
		ok, err := s.prober.Exists(ctx, candidate+suffix)
		if err != nil {
			logger.Log.Debug("Probe failed",
				zap.String("path", candidate),
				zap.Error(err))
			monitoring.ProbeCounter.WithLabelValues("error").Inc()
			continue
		}
		if !ok {
			monitoring.ProbeCounter.WithLabelValues("miss").Inc()
			continue
		}
		monitoring.ProbeCounter.WithLabelValues("hit").Inc()
		monitoring.ResolveCounter.WithLabelValues(s.Name(), "matched").Inc()

		found := candidate + suffix
		s.cache.Set(ctx, cacheKey(courseID, title), found)
		return found
	}

	// 默认路径不写缓存，资源上线后下一次解析即可探测到
	fallback := s.hierarchicalPattern(courseID, title) + suffix
	logger.Log.Warn("No candidate path found, using default",
		zap.String("courseId", courseID),
		zap.String("title", title),
		zap.String("path", fallback))
	monitoring.ResolveCounter.WithLabelValues(s.Name(), "default").Inc()
	return fallback
}

// Preload 并发探测一批标题，最多同时 8 个
func (s *DynamicStrategy) Preload(ctx context.Context, courseID string, titles []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, title := range titles {
		title := title
		g.Go(func() error {
			s.Resolve(ctx, courseID, title)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Log.Info("Preloaded course paths",
		zap.String("courseId", courseID),
		zap.Int("count", len(titles)))
	return nil
}

func (s *DynamicStrategy) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
