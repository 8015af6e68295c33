package service

import (
	"context"
	"sort"
	"strings"

	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/repository"
	"codestep_backend/internal/util"
	"codestep_backend/pkg/logger"

	"go.uber.org/zap"
)

// commonTerms 课程数据之外的常用编程术语建议
var commonTerms = []string{
	"Python基础",
	"JavaScript入门",
	"HTML教程",
	"CSS样式",
	"Vue框架",
	"React开发",
	"前端开发",
	"后端开发",
	"数据结构",
	"算法学习",
	"Web开发",
	"移动开发",
	"数据库",
	"API接口",
	"项目实战",
}

const trendingLimit = 5

type SearchService struct {
	Repo    *repository.SearchRepository
	Catalog *catalog.Catalog
	Hot     HotSearchStore
}

func NewSearchService(repo *repository.SearchRepository, cat *catalog.Catalog, hot HotSearchStore) *SearchService {
	if hot == nil {
		hot = NewMemoryHotSearchStore(DefaultHotSearches())
	}
	return &SearchService{Repo: repo, Catalog: cat, Hot: hot}
}

type SearchResult struct {
	Query   string         `json:"query"`
	Courses []model.Course `json:"courses"`
	Total   int            `json:"total"`
}

// Search 查询课程并记录搜索历史；userID 为 0 时不记录
func (s *SearchService) Search(ctx context.Context, userID uint, query string, language model.LanguageType) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, util.ErrEmptyQuery
	}

	courses := s.Catalog.Filter(catalog.FilterOptions{Language: language, Query: query})
	result := &SearchResult{Query: query, Courses: courses, Total: len(courses)}

	if userID != 0 {
		if err := s.Repo.Record(&model.SearchHistory{
			UserID:      userID,
			Query:       query,
			Timestamp:   model.NowMillis(),
			ResultCount: len(courses),
		}); err != nil {
			return nil, err
		}
	}

	if err := s.Hot.Increment(ctx, query); err != nil {
		logger.Log.Warn("Failed to count hot search", zap.String("query", query), zap.Error(err))
	}
	return result, nil
}

func (s *SearchService) History(userID uint) ([]model.SearchHistory, error) {
	return s.Repo.List(userID)
}

func (s *SearchService) RemoveHistory(userID uint, id string) (bool, error) {
	return s.Repo.Delete(userID, id)
}

func (s *SearchService) ClearHistory(userID uint) error {
	return s.Repo.Clear(userID)
}

func (s *SearchService) HotSearches(ctx context.Context, limit int) ([]model.HotSearch, error) {
	items, err := s.Hot.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Trending 上升趋势的热搜词，按次数降序取前5
func (s *SearchService) Trending(ctx context.Context) ([]model.HotSearch, error) {
	items, err := s.Hot.List(ctx)
	if err != nil {
		return nil, err
	}
	trending := make([]model.HotSearch, 0, trendingLimit)
	for _, item := range items {
		if item.Trend == "up" {
			trending = append(trending, item)
		}
	}
	sortHotSearches(trending)
	if len(trending) > trendingLimit {
		trending = trending[:trendingLimit]
	}
	return trending, nil
}

// matchScore 模糊匹配打分：完全相同 100，前缀 +80，包含 +60，
// 按顺序匹配到的每个字符 +5，全部字符都匹配到再 +20
func matchScore(text, query string) int {
	lowerText := strings.ToLower(text)
	if lowerText == query {
		return 100
	}

	score := 0
	if strings.HasPrefix(lowerText, query) {
		score += 80
	}
	if strings.Contains(lowerText, query) {
		score += 60
	}

	textRunes := []rune(lowerText)
	queryRunes := []rune(query)
	qi := 0
	for i := 0; i < len(textRunes) && qi < len(queryRunes); i++ {
		if textRunes[i] == queryRunes[qi] {
			qi++
			score += 5
		}
	}
	if qi == len(queryRunes) {
		score += 20
	}
	return score
}

type scoredSuggestion struct {
	text  string
	score int
}

// Suggestions 从课程标题、标签、搜索历史和常用术语中给出前 limit 条建议
func (s *SearchService) Suggestions(userID uint, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = util.DefaultSuggestions
	}
	lowerQuery := strings.ToLower(query)

	var candidates []scoredSuggestion
	courses := s.Catalog.Courses()
	for _, course := range courses {
		if score := matchScore(course.Title, lowerQuery); score > 20 {
			candidates = append(candidates, scoredSuggestion{course.Title, score + 10})
		}
	}

	addedTags := make(map[string]bool)
	for _, course := range courses {
		for _, tag := range course.Tags {
			if addedTags[tag] {
				continue
			}
			if score := matchScore(tag, lowerQuery); score > 15 {
				candidates = append(candidates, scoredSuggestion{tag, score})
				addedTags[tag] = true
			}
		}
	}

	if userID != 0 {
		histories, err := s.Repo.List(userID)
		if err != nil {
			return nil, err
		}
		for _, h := range histories {
			if score := matchScore(h.Query, lowerQuery); score > 25 {
				candidates = append(candidates, scoredSuggestion{h.Query, score + 5})
			}
		}
	}

	for _, term := range commonTerms {
		if score := matchScore(term, lowerQuery); score > 15 {
			candidates = append(candidates, scoredSuggestion{term, score})
		}
	}

	// 同一文本取最高分，保持首次出现的顺序
	best := make(map[string]int)
	var order []string
	for _, c := range candidates {
		prev, ok := best[c.text]
		if !ok {
			order = append(order, c.text)
		}
		if !ok || prev < c.score {
			best[c.text] = c.score
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return best[order[i]] > best[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		order = []string{}
	}
	return order, nil
}
