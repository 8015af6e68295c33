package navigation

import (
	"net/url"
	"testing"
	"time"
)

func TestRouteTableIntent(t *testing.T) {
	table := DefaultRouteTable()
	tests := []struct {
		path string
		want RouteIntent
	}{
		{"/step/python/Python基础入门", IntentCatalog},
		{"/step/python/Python基础入门/1/2", IntentChapterStudy},
		{"/step/python/" + url.PathEscape("Python基础入门") + "/1/2?from=search", IntentChapterStudy},
		{"/step/python/Python基础入门/one/2", IntentOther},
		{"/learn/python/variables", IntentChapterStudy},
		{"/learn", IntentOther},
		{"/", IntentOther},
		{"/favorites", IntentOther},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := table.Intent(tt.path); got != tt.want {
				t.Fatalf("intent: want=%s got=%s", tt.want, got)
			}
		})
	}
}

func TestRouteTableParams(t *testing.T) {
	m, ok := DefaultRouteTable().Match("/step/python/" + url.PathEscape("Python基础入门") + "/3/9")
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Params["courseId"] != "Python基础入门" || m.Params["chapter"] != "3" || m.Params["step"] != "9" {
		t.Fatalf("params: %v", m.Params)
	}
}

func TestCatalogFor(t *testing.T) {
	table := DefaultRouteTable()
	got, ok := table.CatalogFor("/step/python/Python基础入门/1/2")
	if want := "/step/python/" + url.PathEscape("Python基础入门"); !ok || got != want {
		t.Fatalf("catalog: want=%q got=%q", want, got)
	}
	if _, ok := table.CatalogFor("/learn/anything"); ok {
		t.Fatalf("learn route has no catalog")
	}
}

func TestSmartGoBackReturnsToCatalog(t *testing.T) {
	m := NewManager(nil)
	m.SetCatalogRoute("/step/python/Python基础入门")

	r := NewDirectiveRouter("/step/python/Python基础入门/1/1")
	m.EnterChapterStudy(r)
	m.SmartGoBack(r)

	got := r.Directives()
	if len(got) != 1 || got[0].Action != ActionReplace || got[0].Path != "/step/python/Python基础入门" {
		t.Fatalf("directives: %+v", got)
	}
	if m.ChapterRoutesCount() != 0 {
		t.Fatalf("chapter routes should be cleared: %d", m.ChapterRoutesCount())
	}
}

func TestSmartGoBackPopsHistoryInsideChapter(t *testing.T) {
	m := NewManager(nil)
	m.SetCatalogRoute("/step/python/Python基础入门")

	r := NewDirectiveRouter("/step/python/Python基础入门/1/1")
	m.EnterChapterStudy(r)
	r.Push("/step/python/Python基础入门/1/2")
	m.EnterChapterStudy(r)
	m.EnterChapterStudy(r)
	if m.ChapterRoutesCount() != 2 {
		t.Fatalf("duplicate route recorded: %d", m.ChapterRoutesCount())
	}

	m.SmartGoBack(r)
	got := r.Directives()
	if last := got[len(got)-1]; last.Action != ActionBack {
		t.Fatalf("want back got=%+v", last)
	}
	if m.ChapterRoutesCount() != 2 {
		t.Fatalf("history pop should keep recorded routes")
	}
}

func TestSmartGoBackOutsideChapter(t *testing.T) {
	m := NewManager(nil)
	r := NewDirectiveRouter("/favorites")
	if m.ShouldCleanupOnBack(r) {
		t.Fatalf("non chapter route should not clean up")
	}
	m.SmartGoBack(r)
	if got := r.Directives(); len(got) != 1 || got[0].Action != ActionBack {
		t.Fatalf("directives: %+v", got)
	}
}

func TestBackToCatalogFallbacks(t *testing.T) {
	m := NewManager(nil)

	r := NewDirectiveRouter("/step/python/Python基础入门/2/4")
	m.BackToCatalogWithCleanup(r)
	if want := "/step/python/" + url.PathEscape("Python基础入门"); r.Current() != want {
		t.Fatalf("inferred catalog: want=%q got=%q", want, r.Current())
	}

	r = NewDirectiveRouter("/learn/python")
	m.BackToCatalogWithCleanup(r)
	if r.Current() != "/" {
		t.Fatalf("root fallback: got=%q", r.Current())
	}
}

func TestCompleteChapterStudy(t *testing.T) {
	m := NewManager(nil)
	m.SetCatalogRoute("/step/python/Python基础入门")
	r := NewDirectiveRouter("/step/python/Python基础入门/1/2")
	m.EnterChapterStudy(r)

	m.CompleteChapterStudy(r)

	want := []Directive{
		{Action: ActionReplaceHistory, Path: "/step/python/Python基础入门"},
		{Action: ActionReplace, Path: "/step/python/Python基础入门"},
	}
	got := r.Directives()
	if len(got) != len(want) {
		t.Fatalf("directives: want=%+v got=%+v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("directive %d: want=%+v got=%+v", i, want[i], got[i])
		}
	}
	if m.ChapterRoutesCount() != 0 {
		t.Fatalf("chapter routes should be cleared")
	}
}

func TestReset(t *testing.T) {
	m := NewManager(nil)
	m.SetCatalogRoute("/step/python/x")
	m.EnterChapterStudy(NewDirectiveRouter("/step/python/x/1/1"))
	m.Reset()

	state := m.State()
	if state.CatalogRoute != "" || len(state.ChapterRoutes) != 0 {
		t.Fatalf("state after reset: %+v", state)
	}
}

func TestSessionsSweep(t *testing.T) {
	s := NewSessions(nil, time.Minute)
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }

	first := s.Get(1)
	if s.Get(1) != first {
		t.Fatalf("same user should get the same manager")
	}
	s.Get(2)

	now = now.Add(50 * time.Second)
	s.Get(2)
	now = now.Add(20 * time.Second)

	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("sweep: want=1 got=%d", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("len: want=1 got=%d", s.Len())
	}
	if s.Get(1) == first {
		t.Fatalf("expired session should be recreated")
	}
}

func TestSessionsDrop(t *testing.T) {
	s := NewSessions(nil, time.Minute)
	m := s.Get(1)
	m.SetCatalogRoute("/step/python/x")
	r := NewDirectiveRouter("/step/python/x/1/1")
	m.EnterChapterStudy(r)
	if !m.IsChapterRoute("/step/python/x/1/1") {
		t.Fatalf("entered route should count as chapter route")
	}
	if m.IsChapterRoute("/step/python/x") {
		t.Fatalf("catalog route should not count as chapter route")
	}

	s.Drop(1)
	s.Drop(2)
	if s.Len() != 0 {
		t.Fatalf("len after drop: want=0 got=%d", s.Len())
	}
	if state := m.State(); state.CatalogRoute != "" || len(state.ChapterRoutes) != 0 {
		t.Fatalf("dropped manager should be cleared: %+v", state)
	}
	if s.Get(1) == m {
		t.Fatalf("dropped session should be recreated")
	}
}
