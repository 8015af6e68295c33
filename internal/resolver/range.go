package resolver

import (
	"context"

	"codestep_backend/internal/catalog"
	"codestep_backend/pkg/logger"
	"codestep_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RangeStrategy 按步骤编号区间映射到章节文件夹，纯静态计算
type RangeStrategy struct {
	baseURL string
	table   catalog.PathTable
}

func NewRangeStrategy(baseURL string, table catalog.PathTable) *RangeStrategy {
	if table == nil {
		table = catalog.DefaultPathTable()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RangeStrategy{baseURL: baseURL, table: table}
}

func (s *RangeStrategy) Name() string { return "range" }

func (s *RangeStrategy) Resolve(ctx context.Context, courseID, title string) string {
	suffix := RawSuffix(title)

	path := s.table.Lookup(courseID)
	if path == nil {
		logger.Log.Warn("No path config for course, using fallback",
			zap.String("courseId", courseID),
			zap.String("title", title))
		monitoring.ResolveCounter.WithLabelValues(s.Name(), "fallback").Inc()
		return joinBase(s.baseURL, courseID, title+".md") + suffix
	}

	fileID := catalog.ExtractFileID(title)
	folder, matched := path.FolderFor(fileID)
	if !matched {
		logger.Log.Debug("Step id outside chapter ranges, using default folder",
			zap.String("courseId", courseID),
			zap.String("title", title),
			zap.Int("fileId", fileID),
			zap.String("folder", folder))
	}
	monitoring.ResolveCounter.WithLabelValues(s.Name(), outcome(matched)).Inc()

	if folder == "" {
		return path.BasePath + "/" + title + ".md" + suffix
	}
	return path.BasePath + "/" + folder + "/" + title + ".md" + suffix
}

// ValidateRanges 返回课程的区间重叠情况，不影响解析
func (s *RangeStrategy) ValidateRanges(courseID string) []catalog.RangeOverlap {
	overlaps := s.table.Overlaps(courseID)
	for _, o := range overlaps {
		logger.Log.Warn("Chapter ranges overlap", zap.Error(o))
	}
	return overlaps
}

func outcome(matched bool) string {
	if matched {
		return "matched"
	}
	return "default"
}
