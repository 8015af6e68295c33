package service

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/resolver"
	"codestep_backend/internal/util"
	"codestep_backend/pkg/logger"
	"codestep_backend/pkg/markdown"
	"codestep_backend/pkg/monitoring"
	"codestep_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ContentService struct {
	Catalog  *catalog.Catalog
	Table    catalog.PathTable
	Store    ContentStore
	Renderer *markdown.Renderer

	mu       sync.RWMutex
	resolver resolver.Resolver
}

func NewContentService(cat *catalog.Catalog, table catalog.PathTable, r resolver.Resolver, store ContentStore, renderer *markdown.Renderer) *ContentService {
	return &ContentService{
		Catalog:  cat,
		Table:    table,
		Store:    store,
		Renderer: renderer,
		resolver: r,
	}
}

func (s *ContentService) Resolver() resolver.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

// SetResolver 配置热更新时切换路径策略
func (s *ContentService) SetResolver(r resolver.Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
	logger.Log.Info("Path strategy switched", zap.String("strategy", r.Name()))
}

// StepContent 下发给客户端的步骤内容，不含题目答案
type StepContent struct {
	CourseID   string                  `json:"courseId"`
	ChapterID  int                     `json:"chapterId"`
	StepID     int                     `json:"stepId"`
	Title      string                  `json:"title"`
	Kind       model.StepKind          `json:"kind"`
	Path       string                  `json:"path"`
	Raw        bool                    `json:"raw"`
	Markdown   string                  `json:"markdown"`
	HTML       string                  `json:"html"`
	Navigation *catalog.NavigationInfo `json:"navigation,omitempty"`
}

// ContentNotFoundError 解析出的路径上没有资源
type ContentNotFoundError struct {
	Path string
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("content not found at %s", e.Path)
}

func (e *ContentNotFoundError) Unwrap() error {
	return util.ErrContentNotFound
}

func (s *ContentService) GetStep(ctx context.Context, language model.LanguageType, courseID string, chapterID, stepID int) (*StepContent, error) {
	course := s.Catalog.CourseByLanguageAndID(language, courseID)
	if course == nil {
		return nil, fmt.Errorf("%w: %s/%s", util.ErrCourseNotFound, language, courseID)
	}
	nav := s.Catalog.NavigationInfo(language, course.ID, chapterID, stepID)
	if nav == nil {
		return nil, fmt.Errorf("%w: %s %d-%d", util.ErrStepNotFound, course.ID, chapterID, stepID)
	}
	step := nav.CurrentStep

	ctx, span := tracing.Tracer.Start(ctx, "ContentService.GetStep")
	defer span.End()

	r := s.Resolver()
	path := r.Resolve(ctx, course.ID, step.Title)
	span.SetAttributes(
		attribute.String("course.id", course.ID),
		attribute.String("path.strategy", r.Name()),
		attribute.String("content.path", path),
	)

	start := time.Now()
	data, err := s.Store.Read(ctx, path)
	monitoring.ContentFetchDuration.WithLabelValues(s.Store.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, util.ErrContentNotFound) {
			logger.Log.Warn("Step content missing",
				zap.String("courseId", course.ID),
				zap.String("title", step.Title),
				zap.String("path", path))
			return nil, &ContentNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := util.ValidateMimeType(data, util.AllowedContentTypes); err != nil {
		return nil, fmt.Errorf("content at %s: %w", path, err)
	}

	html, err := s.Renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	return &StepContent{
		CourseID:   course.ID,
		ChapterID:  chapterID,
		StepID:     stepID,
		Title:      step.Title,
		Kind:       catalog.StepKind(step),
		Path:       path,
		Raw:        resolver.RawSuffix(step.Title) != "",
		Markdown:   string(data),
		HTML:       html,
		Navigation: nav,
	}, nil
}

// ResolvePath 供调试使用，直接返回解析结果
func (s *ContentService) ResolvePath(ctx context.Context, courseID, title string) string {
	return s.Resolver().Resolve(ctx, catalog.MigrateToNewID(courseID), title)
}

type StepPathReport struct {
	ChapterID int    `json:"chapterId"`
	StepID    int    `json:"stepId"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
}

type CourseValidation struct {
	CourseID string                 `json:"courseId"`
	Strategy string                 `json:"strategy"`
	Overlaps []catalog.RangeOverlap `json:"overlaps"`
	Steps    []StepPathReport       `json:"steps"`
	Missing  int                    `json:"missing"`
}

// ValidateCourse 报告区间重叠并检查每个步骤的资源是否存在
func (s *ContentService) ValidateCourse(ctx context.Context, courseID string) (*CourseValidation, error) {
	course := s.Catalog.CourseByID(courseID)
	if course == nil {
		return nil, fmt.Errorf("%w: %s", util.ErrCourseNotFound, courseID)
	}
	r := s.Resolver()

	report := &CourseValidation{
		CourseID: course.ID,
		Strategy: r.Name(),
		Overlaps: s.Table.Overlaps(course.ID),
	}
	if report.Overlaps == nil {
		report.Overlaps = []catalog.RangeOverlap{}
	}
	for _, chapter := range course.Chapters {
		for _, step := range chapter.Steps {
			path := r.Resolve(ctx, course.ID, step.Title)
			exists, err := s.Store.Exists(ctx, path)
			if err != nil {
				logger.Log.Warn("Failed to check content", zap.String("path", path), zap.Error(err))
			}
			if !exists {
				report.Missing++
			}
			report.Steps = append(report.Steps, StepPathReport{
				ChapterID: chapter.ID,
				StepID:    step.ID,
				Title:     step.Title,
				Path:      path,
				Exists:    exists,
			})
		}
	}
	return report, nil
}

// Preload 动态策略下预先探测所有课程的路径
func (s *ContentService) Preload(ctx context.Context) error {
	dynamic, ok := s.Resolver().(*resolver.DynamicStrategy)
	if !ok {
		return nil
	}
	for _, course := range s.Catalog.Courses() {
		titles := make([]string, 0, course.TotalSteps())
		for _, chapter := range course.Chapters {
			for _, step := range chapter.Steps {
				titles = append(titles, step.Title)
			}
		}
		if err := dynamic.Preload(ctx, course.ID, titles); err != nil {
			return err
		}
	}
	return nil
}

// ClearPathCache 动态策略的缓存清空，其他策略无缓存
func (s *ContentService) ClearPathCache(ctx context.Context) error {
	if dynamic, ok := s.Resolver().(*resolver.DynamicStrategy); ok {
		return dynamic.ClearCache(ctx)
	}
	return nil
}
