package model

// LanguageType 课程所属的编程语言
type LanguageType string

const (
	LanguagePython     LanguageType = "python"
	LanguageJavaScript LanguageType = "javascript"
	LanguageHTML       LanguageType = "html"
	LanguageCSS        LanguageType = "css"
	LanguageJava       LanguageType = "java"
)

// AllLanguages 按展示顺序排列
var AllLanguages = []LanguageType{LanguagePython, LanguageJavaScript, LanguageHTML, LanguageJava, LanguageCSS}

func (l LanguageType) Valid() bool {
	for _, v := range AllLanguages {
		if v == l {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// 题目步骤通过标题后缀区分
const (
	ChoiceStepSuffix = "-选择题"
	BlankStepSuffix  = "-填空题"
)

type StepKind string

const (
	StepKindMarkdown StepKind = "md"
	StepKindChoice   StepKind = "choice"
	StepKindBlank    StepKind = "blank"
)

// StepContent 指向步骤的 Markdown 资源
type StepContent struct {
	Src string `json:"src"`
}

// QuizAnswer 选择题为选项字母，填空题为可接受的答案列表
type QuizAnswer struct {
	Correct     []string `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

type Step struct {
	ID      int         `json:"id"`
	Title   string      `json:"title"`
	Content StepContent `json:"content"`
	Answer  *QuizAnswer `json:"-"`
}

type Chapter struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

type Course struct {
	ID          string       `json:"id"`
	Type        LanguageType `json:"type"`
	Title       string       `json:"title"`
	Icon        string       `json:"icon"`
	Description string       `json:"description"`
	Difficulty  Difficulty   `json:"difficulty"`
	Chapters    []Chapter    `json:"chapters"`
	Tags        []string     `json:"tags"`
}

// TotalSteps 所有章节的步骤数之和
func (c *Course) TotalSteps() int {
	total := 0
	for _, ch := range c.Chapters {
		total += len(ch.Steps)
	}
	return total
}

func (c *Course) Chapter(id int) *Chapter {
	for i := range c.Chapters {
		if c.Chapters[i].ID == id {
			return &c.Chapters[i]
		}
	}
	return nil
}

func (ch *Chapter) Step(id int) *Step {
	for i := range ch.Steps {
		if ch.Steps[i].ID == id {
			return &ch.Steps[i]
		}
	}
	return nil
}
