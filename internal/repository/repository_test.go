package repository

import (
	"fmt"
	"testing"

	"codestep_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.LearningStatus{},
		&model.StudyHistory{},
		&model.FavoriteItem{},
		&model.SearchHistory{},
		&model.WrongQuestion{},
		&model.MigrationFlag{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLearningStatusRoundTrip(t *testing.T) {
	repo := NewLearningRepository(newTestDB(t))

	want := &model.LearningStatus{
		UserID:            1,
		CourseID:          "Python基础入门",
		Language:          model.LanguagePython,
		CurrentChapter:    2,
		CurrentStep:       4,
		CompletedSteps:    []model.StepKey{"1-1", "1-2", "2-3"},
		CompletedChapters: []int{1},
		IsEnrolled:        true,
		LastStudyTime:     1700000000000,
		Progress:          33,
	}
	if err := repo.SaveStatus(want); err != nil {
		t.Fatalf("SaveStatus: %v", err)
	}

	got, err := repo.FindStatus(1, "Python基础入门")
	if err != nil || got == nil {
		t.Fatalf("FindStatus: got=%v err=%v", got, err)
	}
	if got.CourseID != want.CourseID || got.Language != want.Language ||
		got.CurrentChapter != want.CurrentChapter || got.CurrentStep != want.CurrentStep ||
		got.IsEnrolled != want.IsEnrolled || got.LastStudyTime != want.LastStudyTime ||
		got.Progress != want.Progress {
		t.Fatalf("scalar fields differ: want=%+v got=%+v", want, got)
	}
	if fmt.Sprint(got.CompletedSteps) != fmt.Sprint(want.CompletedSteps) {
		t.Fatalf("CompletedSteps: want=%v got=%v", want.CompletedSteps, got.CompletedSteps)
	}
	if fmt.Sprint(got.CompletedChapters) != fmt.Sprint(want.CompletedChapters) {
		t.Fatalf("CompletedChapters: want=%v got=%v", want.CompletedChapters, got.CompletedChapters)
	}

	missing, err := repo.FindStatus(1, "JavaScript基础")
	if err != nil || missing != nil {
		t.Fatalf("missing status: got=%v err=%v", missing, err)
	}
}

func TestStudyHistoryCap(t *testing.T) {
	repo := NewLearningRepository(newTestDB(t))

	for i := 0; i < model.MaxStudyHistories+5; i++ {
		if err := repo.AddStudyHistory(&model.StudyHistory{UserID: 7, CourseID: "c", StudyTime: int64(i)}); err != nil {
			t.Fatalf("AddStudyHistory: %v", err)
		}
	}
	count, err := repo.CountStudyHistory(7)
	if err != nil {
		t.Fatalf("CountStudyHistory: %v", err)
	}
	if count != model.MaxStudyHistories {
		t.Fatalf("history cap: want=%d got=%d", model.MaxStudyHistories, count)
	}
	latest, _ := repo.ListStudyHistory(7, 1)
	if len(latest) != 1 || latest[0].StudyTime != int64(model.MaxStudyHistories+4) {
		t.Fatalf("newest history kept: got=%+v", latest)
	}
}

func TestLearningRenameCourse(t *testing.T) {
	repo := NewLearningRepository(newTestDB(t))
	repo.SaveStatus(&model.LearningStatus{UserID: 1, CourseID: "python-basics", IsEnrolled: true})
	repo.SaveStatus(&model.LearningStatus{UserID: 2, CourseID: "python-basics"})
	repo.SaveStatus(&model.LearningStatus{UserID: 2, CourseID: "Python基础入门", Progress: 50})

	if _, err := repo.RenameCourse("python-basics", "Python基础入门"); err != nil {
		t.Fatalf("RenameCourse: %v", err)
	}

	s1, _ := repo.FindStatus(1, "Python基础入门")
	if s1 == nil || !s1.IsEnrolled {
		t.Fatalf("user 1 status should be renamed: got=%+v", s1)
	}
	s2, _ := repo.FindStatus(2, "Python基础入门")
	if s2 == nil || s2.Progress != 50 {
		t.Fatalf("user 2 keeps the new-id record: got=%+v", s2)
	}
	old, _ := repo.FindStatus(2, "python-basics")
	if old != nil {
		t.Fatalf("legacy record should be gone")
	}
}

func TestLearningDeleteAll(t *testing.T) {
	repo := NewLearningRepository(newTestDB(t))
	repo.SaveStatus(&model.LearningStatus{UserID: 1, CourseID: "a", IsEnrolled: true})
	repo.SaveStatus(&model.LearningStatus{UserID: 1, CourseID: "b"})
	repo.SaveStatus(&model.LearningStatus{UserID: 2, CourseID: "a"})
	repo.AddStudyHistory(&model.StudyHistory{UserID: 1, CourseID: "a", StudyTime: 1})
	repo.AddStudyHistory(&model.StudyHistory{UserID: 2, CourseID: "a", StudyTime: 1})

	if err := repo.DeleteAll(1); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if statuses, _ := repo.ListStatuses(1); len(statuses) != 0 {
		t.Fatalf("statuses left: %+v", statuses)
	}
	if count, _ := repo.CountStudyHistory(1); count != 0 {
		t.Fatalf("history left: want=0 got=%d", count)
	}
	if s, _ := repo.FindStatus(2, "a"); s == nil {
		t.Fatalf("other user's status should stay")
	}
	if count, _ := repo.CountStudyHistory(2); count != 1 {
		t.Fatalf("other user's history: want=1 got=%d", count)
	}
}

func TestFavoriteRepository(t *testing.T) {
	repo := NewFavoriteRepository(newTestDB(t))

	item := &model.FavoriteItem{UserID: 1, ItemID: "course-Python基础入门", Type: model.FavoriteCourse, Title: "Python基础入门", AddedAt: 1}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	again := &model.FavoriteItem{UserID: 1, ItemID: "course-Python基础入门", Type: model.FavoriteCourse, Title: "Python 入门", AddedAt: 2}
	if err := repo.Upsert(again); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	list, _ := repo.List(1)
	if len(list) != 1 || list[0].Title != "Python 入门" {
		t.Fatalf("upsert should keep one updated row: got=%+v", list)
	}

	found, _ := repo.SearchByTitle(1, "PYTHON")
	if len(found) != 1 {
		t.Fatalf("case-insensitive search: got=%d", len(found))
	}

	counts, _ := repo.CountByType(1)
	if counts[model.FavoriteCourse] != 1 {
		t.Fatalf("CountByType: got=%v", counts)
	}

	removed, _ := repo.Delete(1, "course-Python基础入门")
	if !removed {
		t.Fatalf("Delete should report removal")
	}
	if ok, _ := repo.Exists(1, "course-Python基础入门"); ok {
		t.Fatalf("item should be gone")
	}
}

func TestSearchRecordDedupAndCap(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))

	for i := 0; i < model.MaxSearchHistories+10; i++ {
		repo.Record(&model.SearchHistory{UserID: 1, Query: fmt.Sprintf("q%d", i), Timestamp: int64(i)})
	}
	repo.Record(&model.SearchHistory{UserID: 1, Query: "q59", Timestamp: 1000})

	list, err := repo.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != model.MaxSearchHistories {
		t.Fatalf("cap: want=%d got=%d", model.MaxSearchHistories, len(list))
	}
	if list[0].Query != "q59" || list[0].Timestamp != 1000 {
		t.Fatalf("re-searched query should move to front: got=%+v", list[0])
	}
	seen := map[string]bool{}
	for _, h := range list {
		if seen[h.Query] {
			t.Fatalf("duplicate query %q", h.Query)
		}
		seen[h.Query] = true
	}
}

func TestMigrationFlags(t *testing.T) {
	repo := NewMigrationFlagRepository(newTestDB(t))

	if ok, _ := repo.Has(3, model.FlagLearningMigrated); ok {
		t.Fatalf("flag should not exist yet")
	}
	if err := repo.Set(3, model.FlagLearningMigrated); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(3, model.FlagLearningMigrated); err != nil {
		t.Fatalf("Set twice: %v", err)
	}
	if ok, _ := repo.Has(3, model.FlagLearningMigrated); !ok {
		t.Fatalf("flag should exist")
	}
}
