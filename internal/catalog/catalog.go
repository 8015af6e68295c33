// Package catalog 静态课程目录：课程 -> 章节 -> 步骤，启动时构建一次，之后只读
package catalog

import (
	"codestep_backend/internal/model"
	"regexp"
	"strconv"
	"strings"
)

var fileIDPattern = regexp.MustCompile(`^(\d+)-`)

// ExtractFileID 从标题前缀提取数字编号，如 "003-第一个程序" -> 3，没有前缀时为 0
func ExtractFileID(title string) int {
	m := fileIDPattern.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

func IsChoiceStep(step *model.Step) bool {
	return strings.HasSuffix(step.Title, model.ChoiceStepSuffix)
}

func IsBlankStep(step *model.Step) bool {
	return strings.HasSuffix(step.Title, model.BlankStepSuffix)
}

// IsInteractiveStep 选择题或填空题，需要作答后才能继续
func IsInteractiveStep(step *model.Step) bool {
	return IsChoiceStep(step) || IsBlankStep(step)
}

func StepKind(step *model.Step) model.StepKind {
	switch {
	case IsChoiceStep(step):
		return model.StepKindChoice
	case IsBlankStep(step):
		return model.StepKindBlank
	default:
		return model.StepKindMarkdown
	}
}

type Catalog struct {
	courses []model.Course
	index   map[string]int
}

func New(courses ...model.Course) *Catalog {
	c := &Catalog{
		courses: courses,
		index:   make(map[string]int, len(courses)),
	}
	for i, course := range courses {
		c.index[course.ID] = i
	}
	return c
}

// Default 内置的课程数据
func Default() *Catalog {
	return New(pythonBasicCourse(), javaScriptBasicCourse())
}

func (c *Catalog) Courses() []model.Course {
	return c.courses
}

// CourseByID 同时兼容旧的英文ID
func (c *Catalog) CourseByID(id string) *model.Course {
	if i, ok := c.index[id]; ok {
		return &c.courses[i]
	}
	if i, ok := c.index[MigrateToNewID(id)]; ok {
		return &c.courses[i]
	}
	return nil
}

func (c *Catalog) CourseByLanguageAndID(language model.LanguageType, id string) *model.Course {
	course := c.CourseByID(id)
	if course == nil || course.Type != language {
		return nil
	}
	return course
}

func (c *Catalog) CoursesByLanguage(language model.LanguageType) []model.Course {
	var result []model.Course
	for _, course := range c.courses {
		if course.Type == language {
			result = append(result, course)
		}
	}
	return result
}

// Step 根据章节ID和步骤ID定位步骤
func (c *Catalog) Step(courseID string, chapterID, stepID int) *model.Step {
	course := c.CourseByID(courseID)
	if course == nil {
		return nil
	}
	chapter := course.Chapter(chapterID)
	if chapter == nil {
		return nil
	}
	return chapter.Step(stepID)
}

func (c *Catalog) TotalChapters(courseID string) int {
	course := c.CourseByID(courseID)
	if course == nil {
		return 0
	}
	return len(course.Chapters)
}

func (c *Catalog) ChapterStepsCount(courseID string, chapterID int) int {
	course := c.CourseByID(courseID)
	if course == nil {
		return 0
	}
	chapter := course.Chapter(chapterID)
	if chapter == nil {
		return 0
	}
	return len(chapter.Steps)
}

// CountByLanguage 每种语言的课程数量，没有课程的语言也返回 0
func (c *Catalog) CountByLanguage() map[model.LanguageType]int {
	stats := make(map[model.LanguageType]int, len(model.AllLanguages))
	for _, l := range model.AllLanguages {
		stats[l] = 0
	}
	for _, course := range c.courses {
		stats[course.Type]++
	}
	return stats
}

type FilterOptions struct {
	Language   model.LanguageType
	Query      string
	Tags       []string
	Difficulty model.Difficulty
}

// Filter 按语言、关键词、标签和难度筛选，不修改目录本身
func (c *Catalog) Filter(opts FilterOptions) []model.Course {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	result := make([]model.Course, 0, len(c.courses))
	for _, course := range c.courses {
		if opts.Language != "" && course.Type != opts.Language {
			continue
		}
		if query != "" && !matchesQuery(&course, query) {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(&course, opts.Tags) {
			continue
		}
		if opts.Difficulty != "" && course.Difficulty != opts.Difficulty {
			continue
		}
		result = append(result, course)
	}
	return result
}

func matchesQuery(course *model.Course, query string) bool {
	if strings.Contains(strings.ToLower(course.Title), query) ||
		strings.Contains(strings.ToLower(course.Description), query) {
		return true
	}
	for _, tag := range course.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func hasAnyTag(course *model.Course, tags []string) bool {
	for _, want := range tags {
		for _, tag := range course.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// AllTags 去重后的标签，保持首次出现的顺序
func (c *Catalog) AllTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, course := range c.courses {
		for _, tag := range course.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

var languageText = map[model.LanguageType]string{
	model.LanguagePython:     "Python",
	model.LanguageJavaScript: "JavaScript",
	model.LanguageHTML:       "HTML & CSS",
	model.LanguageJava:       "Java",
	model.LanguageCSS:        "CSS",
}

func LanguageText(l model.LanguageType) string {
	if text, ok := languageText[l]; ok {
		return text
	}
	return string(l)
}

var languageFolder = map[model.LanguageType]string{
	model.LanguagePython:     "Python",
	model.LanguageJavaScript: "JavaScript",
	model.LanguageHTML:       "HTML",
	model.LanguageJava:       "Java",
	model.LanguageCSS:        "CSS",
}

// LanguageFolder Markdown 目录下的语言文件夹名
func LanguageFolder(l model.LanguageType) string {
	if folder, ok := languageFolder[l]; ok {
		return folder
	}
	return string(l)
}

var difficultyText = map[model.Difficulty]string{
	model.Beginner:     "初级",
	model.Intermediate: "中级",
	model.Advanced:     "高级",
}

func DifficultyText(d model.Difficulty) string {
	if text, ok := difficultyText[d]; ok {
		return text
	}
	return string(d)
}

// ChapterFolder 章节在内容目录中的文件夹名，如 "1-初识Python"
func ChapterFolder(chapter *model.Chapter) string {
	return strconv.Itoa(chapter.ID) + "-" + chapter.Title
}
