package catalog

import "codestep_backend/internal/model"

// NavigationInfo 当前步骤的上一步/下一步，跨章节衔接
type NavigationInfo struct {
	Course         *model.Course  `json:"-"`
	CurrentChapter *model.Chapter `json:"-"`
	CurrentStep    *model.Step    `json:"-"`
	HasPrev        bool           `json:"hasPrev"`
	HasNext        bool           `json:"hasNext"`
	PrevChapter    int            `json:"prevChapter"`
	PrevStep       int            `json:"prevStep"`
	NextChapter    int            `json:"nextChapter"`
	NextStep       int            `json:"nextStep"`
	IsLastStep     bool           `json:"isLastStep"`
}

func (c *Catalog) NavigationInfo(language model.LanguageType, courseID string, chapterID, stepID int) *NavigationInfo {
	course := c.CourseByLanguageAndID(language, courseID)
	if course == nil {
		return nil
	}

	chapterIdx := -1
	for i := range course.Chapters {
		if course.Chapters[i].ID == chapterID {
			chapterIdx = i
			break
		}
	}
	if chapterIdx < 0 {
		return nil
	}
	chapter := &course.Chapters[chapterIdx]

	stepIdx := -1
	for i := range chapter.Steps {
		if chapter.Steps[i].ID == stepID {
			stepIdx = i
			break
		}
	}
	if stepIdx < 0 {
		return nil
	}

	info := &NavigationInfo{
		Course:         course,
		CurrentChapter: chapter,
		CurrentStep:    &chapter.Steps[stepIdx],
		PrevChapter:    chapterID,
		PrevStep:       stepID,
		NextChapter:    chapterID,
		NextStep:       stepID,
	}

	if stepIdx > 0 {
		info.HasPrev = true
		info.PrevStep = chapter.Steps[stepIdx-1].ID
	} else if chapterIdx > 0 {
		prev := &course.Chapters[chapterIdx-1]
		if len(prev.Steps) > 0 {
			info.HasPrev = true
			info.PrevChapter = prev.ID
			info.PrevStep = prev.Steps[len(prev.Steps)-1].ID
		}
	}

	if stepIdx < len(chapter.Steps)-1 {
		info.HasNext = true
		info.NextStep = chapter.Steps[stepIdx+1].ID
	} else if chapterIdx < len(course.Chapters)-1 {
		next := &course.Chapters[chapterIdx+1]
		if len(next.Steps) > 0 {
			info.HasNext = true
			info.NextChapter = next.ID
			info.NextStep = next.Steps[0].ID
		}
	}

	// 章节最后一步可以"完成本章"
	info.IsLastStep = stepIdx == len(chapter.Steps)-1

	return info
}
