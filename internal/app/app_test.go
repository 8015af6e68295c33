package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codestep_backend/internal/config"
)

const choiceStepPath = "Markdown/Python/Python基础入门/1-初识Python/002-选择题.md"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	contentRoot := filepath.Join(dir, "public")
	file := filepath.Join(contentRoot, filepath.FromSlash(choiceStepPath))
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(file, []byte("# 选择题\n\nPython 是什么类型的语言？"), 0644); err != nil {
		t.Fatalf("write content: %v", err)
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: "test"},
		Database: config.DatabaseConfig{Type: "sqlite", SQLitePath: filepath.Join(dir, "codestep.db")},
		JWT:      config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
		Storage:  config.StorageConfig{Type: "local", LocalPath: contentRoot},
		Resolver: config.ResolverConfig{Strategy: "range", BaseURL: "/Markdown", Cache: "memory", Prober: "storage"},
		Content:  config.ContentConfig{HighlightStyle: "monokai"},
	}

	app, err := build(cfg)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func do(t *testing.T, app *App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, resp
}

func login(t *testing.T, app *App, email string) string {
	t.Helper()
	code, _ := do(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"name": "tester", "email": email, "password": "password123",
	})
	if code != http.StatusCreated {
		t.Fatalf("register: want=%d got=%d", http.StatusCreated, code)
	}
	code, resp := do(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if code != http.StatusOK {
		t.Fatalf("login: want=%d got=%d", http.StatusOK, code)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %s", resp.Data)
	}
	return data.Token
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)
	code, resp := do(t, app, http.MethodGet, "/api/health", "", nil)
	if code != http.StatusOK {
		t.Fatalf("health: want=200 got=%d", code)
	}
	var data struct {
		Storage      string `json:"storage"`
		PathStrategy string `json:"pathStrategy"`
	}
	json.Unmarshal(resp.Data, &data)
	if data.Storage != "local" || data.PathStrategy != "range" {
		t.Fatalf("health data: got %+v", data)
	}
}

func TestStepContentEndpoint(t *testing.T) {
	app := newTestApp(t)
	course := url.PathEscape("Python基础入门")

	code, resp := do(t, app, http.MethodGet, "/api/content/python/"+course+"/1/2", "", nil)
	if code != http.StatusOK {
		t.Fatalf("content: want=200 got=%d (%s)", code, resp.Message)
	}
	var step struct {
		Path     string `json:"path"`
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	json.Unmarshal(resp.Data, &step)
	if step.Path != "/"+choiceStepPath {
		t.Fatalf("path: want=%s got=%s", "/"+choiceStepPath, step.Path)
	}
	if step.HTML == "" {
		t.Fatalf("html should be rendered")
	}

	code, resp = do(t, app, http.MethodGet, "/api/content/python/"+course+"/2/3", "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("missing content: want=404 got=%d", code)
	}
	var missing struct {
		Path string `json:"path"`
	}
	json.Unmarshal(resp.Data, &missing)
	if want := "/Markdown/Python/Python基础入门/2-第一个Python程序/003-第一个程序.md"; missing.Path != want {
		t.Fatalf("missing path: want=%s got=%s", want, missing.Path)
	}

	code, _ = do(t, app, http.MethodGet, "/api/content/python/no-such-course/1/1", "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown course: want=404 got=%d", code)
	}
}

func TestCourseList(t *testing.T) {
	app := newTestApp(t)
	code, resp := do(t, app, http.MethodGet, "/api/courses?language=python", "", nil)
	if code != http.StatusOK {
		t.Fatalf("courses: want=200 got=%d", code)
	}
	var courses []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &courses); err != nil {
		t.Fatalf("decode courses: %v", err)
	}
	if len(courses) == 0 {
		t.Fatalf("want python courses")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/profile", "/api/favorites", "/api/learning/courses", "/api/navigation"} {
		code, _ := do(t, app, http.MethodGet, path, "", nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s: want=401 got=%d", path, code)
		}
	}
}

func TestNavigationBackLeavesChapterStudy(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "nav@example.com")

	const chapter = "/step/python/demo/1/2"
	code, _ := do(t, app, http.MethodPost, "/api/navigation/enter", token, map[string]string{"current": chapter})
	if code != http.StatusOK {
		t.Fatalf("enter: want=200 got=%d", code)
	}

	code, resp := do(t, app, http.MethodPost, "/api/navigation/back", token, map[string]string{"current": chapter})
	if code != http.StatusOK {
		t.Fatalf("back: want=200 got=%d", code)
	}
	var nav struct {
		Directives []struct {
			Action string `json:"action"`
			Path   string `json:"path"`
		} `json:"directives"`
		State struct {
			ChapterRoutes []string `json:"chapterRoutes"`
		} `json:"state"`
	}
	if err := json.Unmarshal(resp.Data, &nav); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nav.Directives) != 1 || nav.Directives[0].Action != "replace" || nav.Directives[0].Path != "/step/python/demo" {
		t.Fatalf("directives: got %+v", nav.Directives)
	}
	if len(nav.State.ChapterRoutes) != 0 {
		t.Fatalf("chapter routes should be cleared, got %v", nav.State.ChapterRoutes)
	}
}

func TestLearningFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "learner@example.com")
	course := url.PathEscape("Python基础入门")

	code, resp := do(t, app, http.MethodPut, "/api/learning/courses/"+course+"/progress", token, map[string]int{"chapterId": 1, "stepId": 1})
	if code != http.StatusOK || string(resp.Data) != "null" {
		t.Fatalf("progress before enroll: want=200 null got=%d %s", code, resp.Data)
	}

	code, _ = do(t, app, http.MethodPost, "/api/learning/courses/"+course+"/enroll", token, nil)
	if code != http.StatusOK {
		t.Fatalf("enroll: want=200 got=%d", code)
	}

	code, resp = do(t, app, http.MethodGet, "/api/learning/courses/"+course, token, nil)
	if code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", code)
	}
	var status struct {
		IsEnrolled bool `json:"isEnrolled"`
	}
	json.Unmarshal(resp.Data, &status)
	if !status.IsEnrolled {
		t.Fatalf("course should be enrolled: %s", resp.Data)
	}

	code, _ = do(t, app, http.MethodDelete, "/api/learning", token, nil)
	if code != http.StatusOK {
		t.Fatalf("clear: want=200 got=%d", code)
	}
	_, resp = do(t, app, http.MethodGet, "/api/learning/courses/"+course, token, nil)
	if string(resp.Data) != "null" {
		t.Fatalf("status after clear: want=null got=%s", resp.Data)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "student@example.com")
	code, _ := do(t, app, http.MethodPost, "/api/admin/paths/preload", token, nil)
	if code != http.StatusForbidden {
		t.Fatalf("preload as student: want=403 got=%d", code)
	}
}

func TestCatalogOverview(t *testing.T) {
	app := newTestApp(t)
	code, resp := do(t, app, http.MethodGet, "/api/catalog/overview", "", nil)
	if code != http.StatusOK {
		t.Fatalf("overview: want=200 got=%d", code)
	}
	var data struct {
		Languages []struct {
			Language string `json:"language"`
			Courses  []struct {
				ID             string `json:"id"`
				DifficultyText string `json:"difficultyText"`
				Chapters       int    `json:"chapters"`
				ChapterSteps   []int  `json:"chapterSteps"`
			} `json:"courses"`
		} `json:"languages"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, l := range data.Languages {
		if l.Language != "python" {
			continue
		}
		if len(l.Courses) != 1 || l.Courses[0].ID != "Python基础入门" {
			t.Fatalf("python courses: %+v", l.Courses)
		}
		c := l.Courses[0]
		if c.DifficultyText != "初级" || c.Chapters != len(c.ChapterSteps) || c.ChapterSteps[1] != 5 {
			t.Fatalf("python course overview: %+v", c)
		}
		return
	}
	t.Fatalf("python missing from overview: %s", resp.Data)
}

func TestResolvePathListsStrategies(t *testing.T) {
	app := newTestApp(t)
	q := url.Values{"courseId": {"Python基础入门"}, "title": {"002-选择题"}}
	code, resp := do(t, app, http.MethodGet, "/api/paths/resolve?"+q.Encode(), "", nil)
	if code != http.StatusOK {
		t.Fatalf("resolve: want=200 got=%d", code)
	}
	var data struct {
		Strategy  string   `json:"strategy"`
		Available []string `json:"available"`
		Path      string   `json:"path"`
	}
	json.Unmarshal(resp.Data, &data)
	if data.Strategy != "range" || data.Path != "/"+choiceStepPath {
		t.Fatalf("resolve: %+v", data)
	}
	found := false
	for _, name := range data.Available {
		found = found || name == "dynamic"
	}
	if !found {
		t.Fatalf("available strategies: %v", data.Available)
	}
}

func TestNavigationResetDropsSession(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "reset@example.com")

	const chapter = "/step/python/demo/1/2"
	do(t, app, http.MethodPost, "/api/navigation/enter", token, map[string]string{"current": chapter})

	_, resp := do(t, app, http.MethodGet, "/api/navigation/should-cleanup?current="+url.QueryEscape(chapter), token, nil)
	var check struct {
		ShouldCleanup bool `json:"shouldCleanup"`
		InChapter     bool `json:"inChapter"`
		ChapterRoutes int  `json:"chapterRoutes"`
	}
	json.Unmarshal(resp.Data, &check)
	if !check.InChapter || !check.ShouldCleanup || check.ChapterRoutes != 1 {
		t.Fatalf("should-cleanup: %+v", check)
	}

	code, _ := do(t, app, http.MethodDelete, "/api/navigation", token, nil)
	if code != http.StatusOK {
		t.Fatalf("reset: want=200 got=%d", code)
	}
	_, resp = do(t, app, http.MethodGet, "/api/navigation/should-cleanup?current="+url.QueryEscape(chapter), token, nil)
	json.Unmarshal(resp.Data, &check)
	if check.ChapterRoutes != 0 {
		t.Fatalf("chapter routes after reset: want=0 got=%d", check.ChapterRoutes)
	}
}
