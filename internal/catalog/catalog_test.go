package catalog

import (
	"strings"
	"testing"

	"codestep_backend/internal/model"
)

func TestExtractFileID(t *testing.T) {
	cases := map[string]int{
		"002-选择题":      2,
		"010-变量重新赋值":   10,
		"JavaScript简介": 0,
		"数据类型-选择题":     0,
		"12abc":        0,
	}
	for title, want := range cases {
		if got := ExtractFileID(title); got != want {
			t.Fatalf("ExtractFileID(%q): want=%d got=%d", title, want, got)
		}
	}
}

func TestDefaultCatalogPassesValidation(t *testing.T) {
	if err := Validate(Default(), DefaultPathTable()); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidateRejectsMisplacedStep(t *testing.T) {
	course := model.Course{
		ID:   "demo",
		Type: model.LanguagePython,
		Chapters: []model.Chapter{
			{ID: 1, Title: "a", Steps: []model.Step{{ID: 1, Title: "001-x"}, {ID: 5, Title: "005-y"}}},
		},
	}
	table := PathTable{
		"demo": {
			BasePath: "/Markdown/Python/demo",
			Ranges: []ChapterRange{
				{Start: 1, End: 3, Folder: "1-a"},
				{Start: 4, End: 6, Folder: "2-b"},
			},
		},
	}
	err := Validate(New(course), table)
	if err == nil {
		t.Fatalf("expected validation error for step 005 placed in chapter 1")
	}
	if !strings.Contains(err.Error(), "005-y") {
		t.Fatalf("error should name the step: %v", err)
	}
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	course := model.Course{
		ID: "dup",
		Chapters: []model.Chapter{
			{ID: 1, Steps: []model.Step{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}}},
			{ID: 1, Steps: []model.Step{{ID: 2, Title: "c"}}},
		},
	}
	err := Validate(New(course), PathTable{})
	if err == nil {
		t.Fatalf("expected duplicate id errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate chapter id 1") || !strings.Contains(msg, "duplicate step id 1") {
		t.Fatalf("unexpected error: %v", msg)
	}
}

func TestOverlaps(t *testing.T) {
	table := PathTable{
		"c": {Ranges: []ChapterRange{
			{Start: 1, End: 5, Folder: "1-a"},
			{Start: 5, End: 8, Folder: "2-b"},
			{Start: 9, End: 10, Folder: "3-c"},
		}},
	}
	overlaps := table.Overlaps("c")
	if len(overlaps) != 1 {
		t.Fatalf("overlaps: want=1 got=%d", len(overlaps))
	}
	if overlaps[0].First.Folder != "1-a" || overlaps[0].Second.Folder != "2-b" {
		t.Fatalf("unexpected overlap: %+v", overlaps[0])
	}
	if len(DefaultPathTable().Overlaps("Python基础入门")) != 0 {
		t.Fatalf("default python table should not overlap")
	}
}

func TestFolderFor(t *testing.T) {
	p := DefaultPathTable().Lookup("python-basics")
	if p == nil {
		t.Fatalf("legacy id should resolve to the python table")
	}
	if folder, ok := p.FolderFor(4); !ok || folder != "2-第一个Python程序" {
		t.Fatalf("FolderFor(4): want=%q got=%q ok=%v", "2-第一个Python程序", folder, ok)
	}
	if folder, ok := p.FolderFor(99); ok || folder != "1-初识Python" {
		t.Fatalf("FolderFor(99): want default folder got=%q ok=%v", folder, ok)
	}
}

func TestCourseLookup(t *testing.T) {
	c := Default()

	if c.CourseByID("python-basics") == nil {
		t.Fatalf("legacy course id should resolve")
	}
	if c.CourseByLanguageAndID(model.LanguageJavaScript, "Python基础入门") != nil {
		t.Fatalf("language mismatch should not resolve")
	}
	step := c.Step("Python基础入门", 1, 1)
	if step == nil || step.Content.Src != "/Markdown/Python/Python基础入门/001-Python特点.md?raw" {
		t.Fatalf("step 1-1 src: got=%+v", step)
	}
	if got := c.ChapterStepsCount("Python基础入门", 2); got != 5 {
		t.Fatalf("ChapterStepsCount: want=5 got=%d", got)
	}
	if got := c.TotalChapters("JavaScript基础"); got != 2 {
		t.Fatalf("TotalChapters: want=2 got=%d", got)
	}

	js := c.CoursesByLanguage(model.LanguageJavaScript)
	if len(js) != 1 || js[0].ID != "JavaScript基础" {
		t.Fatalf("CoursesByLanguage: got=%+v", js)
	}
	if got := c.CoursesByLanguage(model.LanguageJava); len(got) != 0 {
		t.Fatalf("CoursesByLanguage java: want none got=%d", len(got))
	}
	if got := DifficultyText(model.Beginner); got != "初级" {
		t.Fatalf("DifficultyText: want=初级 got=%s", got)
	}
	if got := DifficultyText("expert"); got != "expert" {
		t.Fatalf("unknown difficulty passes through: got=%s", got)
	}

	counts := c.CountByLanguage()
	if counts[model.LanguagePython] != 1 || counts[model.LanguageJava] != 0 {
		t.Fatalf("CountByLanguage: got=%v", counts)
	}
}

func TestFilter(t *testing.T) {
	c := Default()

	t.Run("by query", func(t *testing.T) {
		got := c.Filter(FilterOptions{Query: "前端"})
		if len(got) != 1 || got[0].ID != "JavaScript基础" {
			t.Fatalf("query filter: got=%v", got)
		}
	})
	t.Run("by language and difficulty", func(t *testing.T) {
		got := c.Filter(FilterOptions{Language: model.LanguagePython, Difficulty: model.Beginner})
		if len(got) != 1 || got[0].ID != "Python基础入门" {
			t.Fatalf("language filter: got=%v", got)
		}
	})
	t.Run("by tags", func(t *testing.T) {
		got := c.Filter(FilterOptions{Tags: []string{"编程"}})
		if len(got) != 2 {
			t.Fatalf("tag filter: want=2 got=%d", len(got))
		}
	})
}

func TestStepKind(t *testing.T) {
	cases := []struct {
		title string
		want  model.StepKind
	}{
		{"002-选择题", model.StepKindChoice},
		{"004-填空题", model.StepKindBlank},
		{"003-第一个程序", model.StepKindMarkdown},
		{"数据类型-选择题", model.StepKindChoice},
	}
	for _, tc := range cases {
		if got := StepKind(&model.Step{Title: tc.title}); got != tc.want {
			t.Fatalf("StepKind(%q): want=%q got=%q", tc.title, tc.want, got)
		}
	}
}

func TestNavigationInfo(t *testing.T) {
	c := Default()

	info := c.NavigationInfo(model.LanguagePython, "Python基础入门", 1, 2)
	if info == nil {
		t.Fatalf("navigation info missing")
	}
	if !info.HasNext || info.NextChapter != 2 || info.NextStep != 3 {
		t.Fatalf("next across chapters: got=%+v", info)
	}
	if !info.IsLastStep {
		t.Fatalf("002 should be the last step of chapter 1")
	}

	info = c.NavigationInfo(model.LanguagePython, "Python基础入门", 2, 3)
	if !info.HasPrev || info.PrevChapter != 1 || info.PrevStep != 2 {
		t.Fatalf("prev across chapters: got=%+v", info)
	}

	info = c.NavigationInfo(model.LanguagePython, "Python基础入门", 1, 1)
	if info.HasPrev {
		t.Fatalf("first step has no prev")
	}

	info = c.NavigationInfo(model.LanguagePython, "Python基础入门", 3, 10)
	if info.HasNext {
		t.Fatalf("last step of course has no next")
	}

	if c.NavigationInfo(model.LanguagePython, "Python基础入门", 9, 1) != nil {
		t.Fatalf("unknown chapter should return nil")
	}
}

func TestIDMigration(t *testing.T) {
	if MigrateToNewID("python-basics") != "Python基础入门" {
		t.Fatalf("python-basics should migrate")
	}
	if MigrateToNewID("unknown") != "unknown" {
		t.Fatalf("unknown ids pass through")
	}
	if !IsLegacyID("javascript-basics") || IsLegacyID("JavaScript基础") {
		t.Fatalf("IsLegacyID mismatch")
	}
}
