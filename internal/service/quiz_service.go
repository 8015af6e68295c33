package service

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/repository"
	"codestep_backend/internal/util"
	"fmt"
	"strings"
)

type QuizService struct {
	Repo    *repository.WrongQuestionRepository
	Catalog *catalog.Catalog
}

func NewQuizService(repo *repository.WrongQuestionRepository, cat *catalog.Catalog) *QuizService {
	return &QuizService{Repo: repo, Catalog: cat}
}

type AnswerResult struct {
	Correct       bool     `json:"correct"`
	CorrectAnswer []string `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Attempts      int      `json:"attempts"`
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isCorrect 选择题比较选项字母，填空题匹配任一可接受答案，均忽略大小写和首尾空白
func isCorrect(kind model.StepKind, answer *model.QuizAnswer, given string) bool {
	got := normalizeAnswer(given)
	if kind == model.StepKindChoice {
		got = strings.TrimSuffix(got, ".")
	}
	for _, accepted := range answer.Correct {
		if normalizeAnswer(accepted) == got {
			return true
		}
	}
	return false
}

// CheckAnswer 答错时记入错题本，答对时从错题本移除；userID 为 0 时只判题
func (s *QuizService) CheckAnswer(userID uint, courseID string, chapterID, stepID int, given string) (*AnswerResult, error) {
	course := s.Catalog.CourseByID(courseID)
	if course == nil {
		return nil, fmt.Errorf("%w: %s", util.ErrCourseNotFound, courseID)
	}
	step := s.Catalog.Step(course.ID, chapterID, stepID)
	if step == nil {
		return nil, fmt.Errorf("%w: %s %d-%d", util.ErrStepNotFound, course.ID, chapterID, stepID)
	}
	kind := catalog.StepKind(step)
	if kind == model.StepKindMarkdown || step.Answer == nil {
		return nil, util.ErrNotInteractive
	}

	result := &AnswerResult{
		Correct:       isCorrect(kind, step.Answer, given),
		CorrectAnswer: step.Answer.Correct,
		Explanation:   step.Answer.Explanation,
	}
	if userID == 0 {
		return result, nil
	}

	questionID := model.WrongQuestionID(course.ID, chapterID, stepID)
	if result.Correct {
		if _, err := s.Repo.Delete(userID, questionID); err != nil {
			return nil, err
		}
		return result, nil
	}

	existing, err := s.Repo.Find(userID, questionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing = &model.WrongQuestion{
			UserID:        userID,
			QuestionID:    questionID,
			CourseID:      course.ID,
			ChapterID:     chapterID,
			StepID:        stepID,
			Language:      course.Type,
			Question:      step.Title,
			CorrectAnswer: strings.Join(step.Answer.Correct, " / "),
		}
	}
	existing.UserAnswer = given
	existing.Timestamp = model.NowMillis()
	existing.Attempts++
	if err := s.Repo.Save(existing); err != nil {
		return nil, err
	}
	result.Attempts = existing.Attempts
	return result, nil
}

func (s *QuizService) WrongQuestions(userID uint) ([]model.WrongQuestion, error) {
	return s.Repo.List(userID)
}

func (s *QuizService) WrongQuestionsByCourse(userID uint, courseID string) ([]model.WrongQuestion, error) {
	return s.Repo.ListByCourse(userID, catalog.MigrateToNewID(courseID))
}

func (s *QuizService) WrongQuestionsByLanguage(userID uint, language model.LanguageType) ([]model.WrongQuestion, error) {
	return s.Repo.ListByLanguage(userID, language)
}

func (s *QuizService) IsWrongQuestion(userID uint, courseID string, chapterID, stepID int) (bool, error) {
	q, err := s.Repo.Find(userID, model.WrongQuestionID(catalog.MigrateToNewID(courseID), chapterID, stepID))
	return q != nil, err
}

func (s *QuizService) RemoveWrongQuestion(userID uint, courseID string, chapterID, stepID int) (bool, error) {
	return s.Repo.Delete(userID, model.WrongQuestionID(catalog.MigrateToNewID(courseID), chapterID, stepID))
}

type WrongQuestionStats struct {
	TotalWrong  int                        `json:"totalWrong"`
	ByLanguage  map[model.LanguageType]int `json:"byLanguage"`
	RecentWrong []model.WrongQuestion      `json:"recentWrong"`
}

const recentWrongLimit = 10

func (s *QuizService) Stats(userID uint) (*WrongQuestionStats, error) {
	list, err := s.Repo.List(userID)
	if err != nil {
		return nil, err
	}
	stats := &WrongQuestionStats{
		TotalWrong: len(list),
		ByLanguage: make(map[model.LanguageType]int),
	}
	for _, q := range list {
		stats.ByLanguage[q.Language]++
	}
	if len(list) > recentWrongLimit {
		list = list[:recentWrongLimit]
	}
	stats.RecentWrong = list
	return stats, nil
}

func (s *QuizService) Clear(userID uint) error {
	return s.Repo.Clear(userID)
}

func (s *QuizService) ClearByLanguage(userID uint, language model.LanguageType) error {
	return s.Repo.ClearByLanguage(userID, language)
}
