package resolver

import (
	"context"

	"codestep_backend/internal/catalog"
)

// HierarchicalStrategy /Markdown/<语言>/<课程>/<标题>.md
type HierarchicalStrategy struct {
	baseURL string
	catalog *catalog.Catalog
}

func NewHierarchicalStrategy(baseURL string, cat *catalog.Catalog) *HierarchicalStrategy {
	return &HierarchicalStrategy{baseURL: baseURL, catalog: cat}
}

func (s *HierarchicalStrategy) Name() string { return "hierarchical" }

func (s *HierarchicalStrategy) Resolve(ctx context.Context, courseID, title string) string {
	return joinBase(s.baseURL, languageFolderFor(s.catalog, courseID), courseID, title+".md") + RawSuffix(title)
}

// FlatStrategy /Markdown/<课程>-<标题>.md
type FlatStrategy struct {
	baseURL string
}

func NewFlatStrategy(baseURL string) *FlatStrategy {
	return &FlatStrategy{baseURL: baseURL}
}

func (s *FlatStrategy) Name() string { return "flat" }

func (s *FlatStrategy) Resolve(ctx context.Context, courseID, title string) string {
	return joinBase(s.baseURL, courseID+"-"+title+".md") + RawSuffix(title)
}

// LanguageStrategy /Markdown/<language>/<课程>/<标题>.md，语言目录为小写
type LanguageStrategy struct {
	baseURL string
	catalog *catalog.Catalog
}

func NewLanguageStrategy(baseURL string, cat *catalog.Catalog) *LanguageStrategy {
	return &LanguageStrategy{baseURL: baseURL, catalog: cat}
}

func (s *LanguageStrategy) Name() string { return "language" }

func (s *LanguageStrategy) Resolve(ctx context.Context, courseID, title string) string {
	return joinBase(s.baseURL, languageKeyFor(s.catalog, courseID), courseID, title+".md") + RawSuffix(title)
}

// VersionedStrategy /Markdown/<版本>/<课程>/<标题>.md
type VersionedStrategy struct {
	baseURL string
	version string
}

func NewVersionedStrategy(baseURL, version string) *VersionedStrategy {
	if version == "" {
		version = "v1"
	}
	return &VersionedStrategy{baseURL: baseURL, version: version}
}

func (s *VersionedStrategy) Name() string { return "versioned" }

func (s *VersionedStrategy) Resolve(ctx context.Context, courseID, title string) string {
	return joinBase(s.baseURL, s.version, courseID, title+".md") + RawSuffix(title)
}
