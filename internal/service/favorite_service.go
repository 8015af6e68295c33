package service

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/repository"
	"codestep_backend/internal/util"
	"fmt"
	"strings"
)

type FavoriteService struct {
	Repo *repository.FavoriteRepository
}

func NewFavoriteService(repo *repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{Repo: repo}
}

// FavoriteInput 添加收藏时由客户端提供，AddedAt 由服务端生成
type FavoriteInput struct {
	ID          string             `json:"id"`
	Type        model.FavoriteType `json:"type" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Language    model.LanguageType `json:"language"`
	CourseID    string             `json:"courseId"`
	ChapterID   int                `json:"chapterId"`
	StepID      int                `json:"stepId"`
	ArticleID   string             `json:"articleId"`
	Description string             `json:"description"`
	Tags        []string           `json:"tags"`
}

// itemID 客户端未给出ID时按类型生成
func (in *FavoriteInput) itemID() string {
	if in.ID != "" {
		return in.ID
	}
	switch in.Type {
	case model.FavoriteCourse:
		return model.CourseFavoriteID(in.CourseID)
	case model.FavoriteStep:
		return model.StepFavoriteID(in.CourseID, in.ChapterID, in.StepID)
	case model.FavoriteArticle:
		return "article-" + in.ArticleID
	}
	return ""
}

func (in *FavoriteInput) validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", util.ErrInvalidFavorite, in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", util.ErrInvalidFavorite)
	}
	if in.ID == "" {
		switch in.Type {
		case model.FavoriteCourse:
			if in.CourseID == "" {
				return fmt.Errorf("%w: courseId is required", util.ErrInvalidFavorite)
			}
		case model.FavoriteStep:
			if in.CourseID == "" || in.ChapterID <= 0 || in.StepID <= 0 {
				return fmt.Errorf("%w: courseId, chapterId and stepId are required", util.ErrInvalidFavorite)
			}
		case model.FavoriteArticle:
			if in.ArticleID == "" {
				return fmt.Errorf("%w: articleId is required", util.ErrInvalidFavorite)
			}
		}
	}
	return nil
}

func (in *FavoriteInput) toItem(userID uint, addedAt int64) *model.FavoriteItem {
	courseID := catalog.MigrateToNewID(in.CourseID)
	id := in.itemID()
	if in.Type == model.FavoriteCourse && id == model.CourseFavoriteID(in.CourseID) {
		id = model.CourseFavoriteID(courseID)
	}
	return &model.FavoriteItem{
		UserID:      userID,
		ItemID:      id,
		Type:        in.Type,
		Title:       in.Title,
		Language:    in.Language,
		CourseID:    courseID,
		ChapterID:   in.ChapterID,
		StepID:      in.StepID,
		ArticleID:   in.ArticleID,
		Description: in.Description,
		Tags:        in.Tags,
		AddedAt:     addedAt,
	}
}

// Add 已收藏时覆盖内容并刷新 AddedAt
func (s *FavoriteService) Add(userID uint, in *FavoriteInput) (*model.FavoriteItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := in.toItem(userID, model.NowMillis())
	if err := s.Repo.Upsert(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *FavoriteService) Remove(userID uint, itemID string) (bool, error) {
	return s.Repo.Delete(userID, itemID)
}

// Toggle 返回操作后的收藏状态
func (s *FavoriteService) Toggle(userID uint, in *FavoriteInput) (bool, error) {
	if err := in.validate(); err != nil {
		return false, err
	}
	item := in.toItem(userID, model.NowMillis())
	exists, err := s.Repo.Exists(userID, item.ItemID)
	if err != nil {
		return false, err
	}
	if exists {
		_, err := s.Repo.Delete(userID, item.ItemID)
		return false, err
	}
	return true, s.Repo.Upsert(item)
}

func (s *FavoriteService) IsFavorited(userID uint, itemID string) (bool, error) {
	return s.Repo.Exists(userID, itemID)
}

func (s *FavoriteService) List(userID uint) ([]model.FavoriteItem, error) {
	return s.Repo.List(userID)
}

func (s *FavoriteService) ListByType(userID uint, t model.FavoriteType) ([]model.FavoriteItem, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", util.ErrInvalidFavorite, t)
	}
	return s.Repo.ListByType(userID, t)
}

func (s *FavoriteService) ListByLanguage(userID uint, language model.LanguageType) ([]model.FavoriteItem, error) {
	return s.Repo.ListByLanguage(userID, language)
}

// Search 空关键词返回全部
func (s *FavoriteService) Search(userID uint, query string) ([]model.FavoriteItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.List(userID)
	}
	return s.Repo.SearchByTitle(userID, query)
}

func (s *FavoriteService) TouchLastAccessed(userID uint, itemID string) (bool, error) {
	return s.Repo.Touch(userID, itemID, model.NowMillis())
}

type FavoriteStats struct {
	Total  int64                        `json:"totalFavorites"`
	ByType map[model.FavoriteType]int64 `json:"byType"`
	Recent []model.FavoriteItem         `json:"recentFavorites"`
}

const recentFavoritesLimit = 10

func (s *FavoriteService) Stats(userID uint) (*FavoriteStats, error) {
	counts, err := s.Repo.CountByType(userID)
	if err != nil {
		return nil, err
	}
	stats := &FavoriteStats{ByType: make(map[model.FavoriteType]int64, len(model.AllFavoriteTypes))}
	for _, t := range model.AllFavoriteTypes {
		stats.ByType[t] = counts[t]
		stats.Total += counts[t]
	}

	items, err := s.Repo.List(userID)
	if err != nil {
		return nil, err
	}
	if len(items) > recentFavoritesLimit {
		items = items[:recentFavoritesLimit]
	}
	stats.Recent = items
	return stats, nil
}

func (s *FavoriteService) ClearAll(userID uint) error {
	return s.Repo.DeleteAll(userID)
}

func (s *FavoriteService) ClearByType(userID uint, t model.FavoriteType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown type %q", util.ErrInvalidFavorite, t)
	}
	return s.Repo.DeleteByType(userID, t)
}
