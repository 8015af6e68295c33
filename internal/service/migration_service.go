package service

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/repository"
	"codestep_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 浏览器本地存储中的旧数据键
const (
	legacyLearningStoreKey  = "learning-store"
	legacyLearningStatusKey = "learning_status"
	legacyStatusPrefix      = "learning-status-"
	legacyStudyHistoriesKey = "study-histories"
	legacyFavoritesStoreKey = "favorites-store"
	legacyFavoritesKey      = "favorites"
	legacyUserFavoritesKey  = "user_favorites"
	legacySearchHistoryKey  = "search_history"
	legacyWrongQuestionsKey = "wrong_questions"
	legacyStepKeyMultiplier = 1000
	globalMigrationUserID   = 0
	defaultMigrationDelay   = 2 * time.Second
)

type MigrationService struct {
	DB      *gorm.DB
	Flags   *repository.MigrationFlagRepository
	Catalog *catalog.Catalog
}

func NewMigrationService(db *gorm.DB, flags *repository.MigrationFlagRepository, cat *catalog.Catalog) *MigrationService {
	return &MigrationService{DB: db, Flags: flags, Catalog: cat}
}

// ImportReport 一次导入的结果
type ImportReport struct {
	LearningStatuses int      `json:"learningStatuses"`
	StudyHistories   int      `json:"studyHistories"`
	Favorites        int      `json:"favorites"`
	SearchHistories  int      `json:"searchHistories"`
	WrongQuestions   int      `json:"wrongQuestions"`
	Skipped          []string `json:"skipped"`
	Corrupt          []string `json:"corrupt"`
}

type legacyStatus struct {
	CourseID          string             `json:"courseId"`
	Language          model.LanguageType `json:"language"`
	CurrentChapter    int                `json:"currentChapter"`
	CurrentStep       int                `json:"currentStep"`
	CompletedSteps    []interface{}      `json:"completedSteps"`
	CompletedChapters []int              `json:"completedChapters"`
	IsEnrolled        bool               `json:"isEnrolled"`
	LastStudyTime     int64              `json:"lastStudyTime"`
	Progress          int                `json:"progress"`
}

type legacyStudyHistory struct {
	CourseID       string             `json:"courseId"`
	Language       model.LanguageType `json:"language"`
	StudyTime      int64              `json:"studyTime"`
	Duration       int                `json:"duration"`
	StepsCompleted int                `json:"stepsCompleted"`
}

type legacyFavorite struct {
	ID           string             `json:"id"`
	Type         model.FavoriteType `json:"type"`
	Title        string             `json:"title"`
	AddedAt      int64              `json:"addedAt"`
	Timestamp    int64              `json:"timestamp"`
	Language     model.LanguageType `json:"language"`
	CourseID     string             `json:"courseId"`
	ChapterID    int                `json:"chapterId"`
	StepID       int                `json:"stepId"`
	ArticleID    string             `json:"articleId"`
	Description  string             `json:"description"`
	Tags         []string           `json:"tags"`
	LastAccessed int64              `json:"lastAccessed"`
}

type legacySearch struct {
	Query       string `json:"query"`
	Timestamp   int64  `json:"timestamp"`
	ResultCount int    `json:"resultCount"`
}

type legacyWrongQuestion struct {
	CourseID      string             `json:"courseId"`
	ChapterID     int                `json:"chapterId"`
	StepID        int                `json:"stepId"`
	Language      model.LanguageType `json:"language"`
	Question      string             `json:"question"`
	UserAnswer    string             `json:"userAnswer"`
	CorrectAnswer string             `json:"correctAnswer"`
	Timestamp     int64              `json:"timestamp"`
	Attempts      int                `json:"attempts"`
}

// decodeLegacy 解析失败时记录日志并按空数据处理
func decodeLegacy(report *ImportReport, key, raw string, v interface{}) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Log.Warn("Corrupt legacy data, treating as empty", zap.String("key", key), zap.Error(err))
		report.Corrupt = append(report.Corrupt, key)
		return false
	}
	return true
}

// ImportLegacy 导入浏览器本地存储导出的旧数据，每类数据每个用户只导入一次
func (s *MigrationService) ImportLegacy(userID uint, dump map[string]string) (*ImportReport, error) {
	report := &ImportReport{Skipped: []string{}, Corrupt: []string{}}

	sections := []struct {
		flag string
		run  func(tx *gorm.DB) error
	}{
		{model.FlagLearningMigrated, func(tx *gorm.DB) error { return s.importLearning(tx, userID, dump, report) }},
		{model.FlagFavoritesMigrated, func(tx *gorm.DB) error { return s.importFavorites(tx, userID, dump, report) }},
		{model.FlagSearchMigrated, func(tx *gorm.DB) error { return s.importSearch(tx, userID, dump, report) }},
		{model.FlagWrongMigrated, func(tx *gorm.DB) error { return s.importWrongQuestions(tx, userID, dump, report) }},
	}

	for _, section := range sections {
		done, err := s.Flags.Has(userID, section.flag)
		if err != nil {
			return nil, err
		}
		if done {
			report.Skipped = append(report.Skipped, section.flag)
			continue
		}
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := section.run(tx); err != nil {
				return err
			}
			return repository.NewMigrationFlagRepository(tx).Set(userID, section.flag)
		})
		if err != nil {
			return nil, fmt.Errorf("migrate %s: %w", section.flag, err)
		}
	}

	logger.Log.Info("Legacy data imported",
		zap.Uint("userId", userID),
		zap.Int("learningStatuses", report.LearningStatuses),
		zap.Int("favorites", report.Favorites),
		zap.Int("searchHistories", report.SearchHistories),
		zap.Int("wrongQuestions", report.WrongQuestions),
		zap.Strings("skipped", report.Skipped))
	return report, nil
}

// MigratedFlags 用户已完成的迁移项
func (s *MigrationService) MigratedFlags(userID uint) ([]string, error) {
	return s.Flags.List(userID)
}

func (s *MigrationService) importLearning(tx *gorm.DB, userID uint, dump map[string]string, report *ImportReport) error {
	var statuses []legacyStatus
	var histories []legacyStudyHistory

	if raw, ok := dump[legacyLearningStoreKey]; ok {
		var store struct {
			LearningStatuses map[string]legacyStatus `json:"learningStatuses"`
			StudyHistories   []legacyStudyHistory    `json:"studyHistories"`
		}
		if decodeLegacy(report, legacyLearningStoreKey, raw, &store) {
			ids := make([]string, 0, len(store.LearningStatuses))
			for id := range store.LearningStatuses {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				st := store.LearningStatuses[id]
				if st.CourseID == "" {
					st.CourseID = id
				}
				statuses = append(statuses, st)
			}
			histories = append(histories, store.StudyHistories...)
		}
	}
	if raw, ok := dump[legacyLearningStatusKey]; ok {
		var list []legacyStatus
		if decodeLegacy(report, legacyLearningStatusKey, raw, &list) {
			statuses = append(statuses, list...)
		}
	}
	keys := make([]string, 0)
	for key := range dump {
		if strings.HasPrefix(key, legacyStatusPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		var st legacyStatus
		if decodeLegacy(report, key, dump[key], &st) {
			if st.CourseID == "" {
				st.CourseID = strings.TrimPrefix(key, legacyStatusPrefix)
			}
			statuses = append(statuses, st)
		}
	}
	if raw, ok := dump[legacyStudyHistoriesKey]; ok {
		var list []legacyStudyHistory
		if decodeLegacy(report, legacyStudyHistoriesKey, raw, &list) {
			histories = append(histories, list...)
		}
	}

	repo := repository.NewLearningRepository(tx)
	for _, legacy := range statuses {
		imported, err := s.mergeStatus(repo, userID, legacy)
		if err != nil {
			return err
		}
		if imported {
			report.LearningStatuses++
		}
	}

	sort.SliceStable(histories, func(i, j int) bool { return histories[i].StudyTime < histories[j].StudyTime })
	for _, h := range histories {
		course := s.Catalog.CourseByID(h.CourseID)
		if course == nil {
			continue
		}
		if err := repo.AddStudyHistory(&model.StudyHistory{
			UserID:         userID,
			CourseID:       course.ID,
			Language:       course.Type,
			StudyTime:      h.StudyTime,
			Duration:       h.Duration,
			StepsCompleted: h.StepsCompleted,
		}); err != nil {
			return err
		}
		report.StudyHistories++
	}
	return nil
}

// convertStepKeys 旧数据里步骤键是 chapterId*1000+stepId，更早的版本只有 stepId
func (s *MigrationService) convertStepKeys(course *model.Course, values []interface{}) []model.StepKey {
	keys := make([]model.StepKey, 0, len(values))
	add := func(k model.StepKey) {
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}
	for _, v := range values {
		switch val := v.(type) {
		case float64:
			n := int(val)
			if n >= legacyStepKeyMultiplier {
				add(model.NewStepKey(n/legacyStepKeyMultiplier, n%legacyStepKeyMultiplier))
				continue
			}
			if chapterID := chapterOfStep(course, n); chapterID > 0 {
				add(model.NewStepKey(chapterID, n))
				continue
			}
			logger.Log.Warn("Dropping legacy step key without chapter",
				zap.String("courseId", course.ID),
				zap.Int("stepId", n))
		case string:
			k := model.StepKey(val)
			if _, _, ok := k.Parse(); ok {
				add(k)
			}
		}
	}
	return keys
}

func chapterOfStep(course *model.Course, stepID int) int {
	for _, chapter := range course.Chapters {
		if chapter.Step(stepID) != nil {
			return chapter.ID
		}
	}
	return 0
}

// mergeStatus 与服务端已有记录合并：完成项取并集，位置取最近一次学习的
func (s *MigrationService) mergeStatus(repo *repository.LearningRepository, userID uint, legacy legacyStatus) (bool, error) {
	course := s.Catalog.CourseByID(legacy.CourseID)
	if course == nil {
		logger.Log.Warn("Skipping legacy status for unknown course", zap.String("courseId", legacy.CourseID))
		return false, nil
	}

	status, err := repo.FindStatus(userID, course.ID)
	if err != nil {
		return false, err
	}
	if status == nil {
		status = &model.LearningStatus{
			UserID:            userID,
			CourseID:          course.ID,
			Language:          course.Type,
			CurrentChapter:    1,
			CurrentStep:       1,
			CompletedSteps:    []model.StepKey{},
			CompletedChapters: []int{},
		}
	}

	for _, key := range s.convertStepKeys(course, legacy.CompletedSteps) {
		status.AddCompletedStep(key)
	}
	for _, chapterID := range legacy.CompletedChapters {
		if course.Chapter(chapterID) != nil {
			status.AddCompletedChapter(chapterID)
		}
	}
	if legacy.LastStudyTime >= status.LastStudyTime {
		status.LastStudyTime = legacy.LastStudyTime
		if legacy.CurrentChapter > 0 {
			status.CurrentChapter = legacy.CurrentChapter
		}
		if legacy.CurrentStep > 0 {
			status.CurrentStep = legacy.CurrentStep
		}
	}
	status.IsEnrolled = status.IsEnrolled || legacy.IsEnrolled
	status.RecomputeProgress(len(course.Chapters))

	return true, repo.SaveStatus(status)
}

func (s *MigrationService) importFavorites(tx *gorm.DB, userID uint, dump map[string]string, report *ImportReport) error {
	var items []legacyFavorite

	if raw, ok := dump[legacyFavoritesStoreKey]; ok {
		var store struct {
			Favorites map[string]legacyFavorite `json:"favorites"`
		}
		if decodeLegacy(report, legacyFavoritesStoreKey, raw, &store) {
			items = append(items, favoritesFromMap(store.Favorites)...)
		}
	}
	if raw, ok := dump[legacyFavoritesKey]; ok {
		// 旧格式是数组，后来改成以ID为键的对象
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") {
			var byID map[string]legacyFavorite
			if decodeLegacy(report, legacyFavoritesKey, raw, &byID) {
				items = append(items, favoritesFromMap(byID)...)
			}
		} else {
			var list []legacyFavorite
			if decodeLegacy(report, legacyFavoritesKey, raw, &list) {
				items = append(items, list...)
			}
		}
	}
	if raw, ok := dump[legacyUserFavoritesKey]; ok {
		var list []legacyFavorite
		if decodeLegacy(report, legacyUserFavoritesKey, raw, &list) {
			items = append(items, list...)
		}
	}

	repo := repository.NewFavoriteRepository(tx)
	now := model.NowMillis()
	for _, legacy := range items {
		if !legacy.Type.Valid() || legacy.ID == "" {
			continue
		}
		courseID := catalog.MigrateToNewID(legacy.CourseID)
		itemID := legacy.ID
		if legacy.Type == model.FavoriteCourse && strings.HasPrefix(itemID, "course-") {
			itemID = model.CourseFavoriteID(catalog.MigrateToNewID(strings.TrimPrefix(itemID, "course-")))
		}
		addedAt := legacy.AddedAt
		if addedAt == 0 {
			addedAt = legacy.Timestamp
		}
		if addedAt == 0 {
			addedAt = now
		}
		item := &model.FavoriteItem{
			UserID:       userID,
			ItemID:       itemID,
			Type:         legacy.Type,
			Title:        legacy.Title,
			Language:     legacy.Language,
			CourseID:     courseID,
			ChapterID:    legacy.ChapterID,
			StepID:       legacy.StepID,
			ArticleID:    legacy.ArticleID,
			Description:  legacy.Description,
			Tags:         legacy.Tags,
			AddedAt:      addedAt,
			LastAccessed: legacy.LastAccessed,
		}
		if err := repo.Upsert(item); err != nil {
			return err
		}
		report.Favorites++
	}
	return nil
}

func favoritesFromMap(m map[string]legacyFavorite) []legacyFavorite {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]legacyFavorite, 0, len(m))
	for _, id := range ids {
		item := m[id]
		if item.ID == "" {
			item.ID = id
		}
		items = append(items, item)
	}
	return items
}

func (s *MigrationService) importSearch(tx *gorm.DB, userID uint, dump map[string]string, report *ImportReport) error {
	raw, ok := dump[legacySearchHistoryKey]
	if !ok {
		return nil
	}
	var list []legacySearch
	if !decodeLegacy(report, legacySearchHistoryKey, raw, &list) {
		return nil
	}

	// 按时间先后写入，最近的搜索排在最前
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp < list[j].Timestamp })
	repo := repository.NewSearchRepository(tx)
	for _, h := range list {
		query := strings.TrimSpace(h.Query)
		if query == "" {
			continue
		}
		if err := repo.Record(&model.SearchHistory{
			UserID:      userID,
			Query:       query,
			Timestamp:   h.Timestamp,
			ResultCount: h.ResultCount,
		}); err != nil {
			return err
		}
		report.SearchHistories++
	}
	return nil
}

func (s *MigrationService) importWrongQuestions(tx *gorm.DB, userID uint, dump map[string]string, report *ImportReport) error {
	raw, ok := dump[legacyWrongQuestionsKey]
	if !ok {
		return nil
	}
	var list []legacyWrongQuestion
	if !decodeLegacy(report, legacyWrongQuestionsKey, raw, &list) {
		return nil
	}

	repo := repository.NewWrongQuestionRepository(tx)
	for _, legacy := range list {
		courseID := catalog.MigrateToNewID(legacy.CourseID)
		questionID := model.WrongQuestionID(courseID, legacy.ChapterID, legacy.StepID)

		q, err := repo.Find(userID, questionID)
		if err != nil {
			return err
		}
		attempts := legacy.Attempts
		if attempts <= 0 {
			attempts = 1
		}
		if q == nil {
			q = &model.WrongQuestion{
				UserID:        userID,
				QuestionID:    questionID,
				CourseID:      courseID,
				ChapterID:     legacy.ChapterID,
				StepID:        legacy.StepID,
				Language:      legacy.Language,
				Question:      legacy.Question,
				CorrectAnswer: legacy.CorrectAnswer,
			}
		}
		q.Attempts += attempts
		if legacy.Timestamp >= q.Timestamp {
			q.Timestamp = legacy.Timestamp
			q.UserAnswer = legacy.UserAnswer
		}
		if err := repo.Save(q); err != nil {
			return err
		}
		report.WrongQuestions++
	}
	return nil
}

// RunCourseIDMigration 把库中所有旧课程ID改为新ID，全局只执行一次
func (s *MigrationService) RunCourseIDMigration() error {
	done, err := s.Flags.Has(globalMigrationUserID, model.FlagCourseIDMigrated)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		learning := repository.NewLearningRepository(tx)
		favorites := repository.NewFavoriteRepository(tx)
		wrong := repository.NewWrongQuestionRepository(tx)

		for oldID, newID := range catalog.LegacyIDs() {
			n1, err := learning.RenameCourse(oldID, newID)
			if err != nil {
				return err
			}
			n2, err := favorites.RenameCourse(oldID, newID)
			if err != nil {
				return err
			}
			n3, err := wrong.RenameCourse(oldID, newID)
			if err != nil {
				return err
			}
			if n1+n2+n3 > 0 {
				logger.Log.Info("Course ID migrated",
					zap.String("from", oldID),
					zap.String("to", newID),
					zap.Int64("learning", n1),
					zap.Int64("favorites", n2),
					zap.Int64("wrongQuestions", n3))
			}
		}
		return repository.NewMigrationFlagRepository(tx).Set(globalMigrationUserID, model.FlagCourseIDMigrated)
	})
}

// ScheduleCourseIDMigration 服务启动后延迟执行一次课程ID迁移
func (s *MigrationService) ScheduleCourseIDMigration(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		delay = defaultMigrationDelay
	}
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if err := s.RunCourseIDMigration(); err != nil {
			logger.Log.Error("Course ID migration failed", zap.Error(err))
		}
	}()
}
