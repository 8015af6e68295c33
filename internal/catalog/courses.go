package catalog

import (
	"codestep_backend/internal/model"
	"strings"
)

const rawMarker = "特点"

// stepBuilder 按课程生成步骤，ID 取标题前缀，个别没有前缀的标题单独指定
type stepBuilder struct {
	basePath  string
	overrides map[string]int
}

func (b stepBuilder) step(title string, answer *model.QuizAnswer) model.Step {
	id := ExtractFileID(title)
	if id == 0 {
		id = b.overrides[title]
	}
	src := b.basePath + "/" + title + ".md"
	if strings.Contains(title, rawMarker) {
		src += "?raw"
	}
	return model.Step{
		ID:      id,
		Title:   title,
		Content: model.StepContent{Src: src},
		Answer:  answer,
	}
}

func answer(explanation string, correct ...string) *model.QuizAnswer {
	return &model.QuizAnswer{Correct: correct, Explanation: explanation}
}

func pythonBasicCourse() model.Course {
	b := stepBuilder{basePath: "/Markdown/Python/Python基础入门"}

	return model.Course{
		ID:          "Python基础入门",
		Type:        model.LanguagePython,
		Title:       "Python基础入门",
		Icon:        "/src/assets/images/icon/python-icon.png",
		Description: "从零开始学习 Python 的基础语法、输出与变量",
		Difficulty:  model.Beginner,
		Tags:        []string{"编程", "Python", "入门"},
		Chapters: []model.Chapter{
			{
				ID:    1,
				Title: "初识Python",
				Steps: []model.Step{
					b.step("001-Python特点", nil),
					b.step("002-选择题", answer("Python是一种解释型语言", "C")),
				},
			},
			{
				ID:    2,
				Title: "第一个Python程序",
				Steps: []model.Step{
					b.step("003-第一个程序", nil),
					b.step("004-填空题", answer("print函数用于输出内容到控制台", "print")),
					b.step("005-打印文本", nil),
					b.step("006-注释", nil),
					b.step("007-选择题", answer("Python中使用三个单引号'''或三个双引号\"\"\"来进行多行注释", "B")),
				},
			},
			{
				ID:    3,
				Title: "变量和命名规则",
				Steps: []model.Step{
					b.step("008-变量", nil),
					b.step("009-选择题", answer(`name 是一个变量并且赋值"eggs" 所以输出的是 eggseggseggs`, "A")),
					b.step("010-变量重新赋值", nil),
				},
			},
		},
	}
}

func javaScriptBasicCourse() model.Course {
	b := stepBuilder{
		basePath: "/Markdown/JavaScript/JavaScript基础",
		overrides: map[string]int{
			"JavaScript简介": 1,
			"数据类型-选择题":     3,
		},
	}

	return model.Course{
		ID:          "JavaScript基础",
		Type:        model.LanguageJavaScript,
		Title:       "JavaScript基础",
		Icon:        "/src/assets/images/icon/js-icon.png",
		Description: "JavaScript 基础语法与数据类型",
		Difficulty:  model.Beginner,
		Tags:        []string{"编程", "JavaScript", "前端"},
		Chapters: []model.Chapter{
			{
				ID:    1,
				Title: "JavaScript 基础语法",
				Steps: []model.Step{
					b.step("JavaScript简介", nil),
				},
			},
			{
				ID:    2,
				Title: "JavaScript 数据类型",
				Steps: []model.Step{
					b.step("数据类型-选择题", answer("JavaScript支持string数据类型，而int、float、double是其他语言的类型", "B")),
				},
			},
		},
	}
}
