package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"codestep_backend/internal/catalog"
	"codestep_backend/internal/config"
)

func TestRangeStrategyResolve(t *testing.T) {
	s := NewRangeStrategy("", catalog.DefaultPathTable())
	ctx := context.Background()

	cases := []struct {
		name     string
		courseID string
		title    string
		want     string
	}{
		{"choice in chapter 1", "Python基础入门", "002-选择题", "/Markdown/Python/Python基础入门/1-初识Python/002-选择题.md"},
		{"raw suffix", "Python基础入门", "001-Python特点", "/Markdown/Python/Python基础入门/1-初识Python/001-Python特点.md?raw"},
		{"second range", "Python基础入门", "005-打印文本", "/Markdown/Python/Python基础入门/2-第一个Python程序/005-打印文本.md"},
		{"third range", "Python基础入门", "010-变量重新赋值", "/Markdown/Python/Python基础入门/3-变量和命名规则/010-变量重新赋值.md"},
		{"no prefix uses default folder", "Python基础入门", "附录", "/Markdown/Python/Python基础入门/1-初识Python/附录.md"},
		{"out of range uses default folder", "Python基础入门", "099-拓展", "/Markdown/Python/Python基础入门/1-初识Python/099-拓展.md"},
		{"legacy course id", "python-basics", "004-填空题", "/Markdown/Python/Python基础入门/2-第一个Python程序/004-填空题.md"},
		{"unknown course", "Go入门", "001-你好", "/Markdown/Go入门/001-你好.md"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Resolve(ctx, tc.courseID, tc.title); got != tc.want {
				t.Fatalf("Resolve(%q, %q): want=%q got=%q", tc.courseID, tc.title, tc.want, got)
			}
		})
	}
}

func TestValidateRanges(t *testing.T) {
	table := catalog.PathTable{
		"c": {BasePath: "/Markdown/X/c", Ranges: []catalog.ChapterRange{
			{Start: 1, End: 4, Folder: "1-a"},
			{Start: 3, End: 6, Folder: "2-b"},
		}},
	}
	s := NewRangeStrategy("", table)
	if got := len(s.ValidateRanges("c")); got != 1 {
		t.Fatalf("overlaps: want=1 got=%d", got)
	}
	// 重叠不阻止解析，命中第一个区间
	if got := s.Resolve(context.Background(), "c", "003-x"); got != "/Markdown/X/c/1-a/003-x.md" {
		t.Fatalf("overlapping resolve: got=%q", got)
	}
}

func TestStaticStrategies(t *testing.T) {
	cat := catalog.Default()
	ctx := context.Background()

	cases := []struct {
		r    Resolver
		want string
	}{
		{NewHierarchicalStrategy("", cat), "/Markdown/Python/Python基础入门/003-第一个程序.md"},
		{NewFlatStrategy(""), "/Markdown/Python基础入门-003-第一个程序.md"},
		{NewLanguageStrategy("", cat), "/Markdown/python/Python基础入门/003-第一个程序.md"},
		{NewVersionedStrategy("", "v2"), "/Markdown/v2/Python基础入门/003-第一个程序.md"},
	}
	for _, tc := range cases {
		if got := tc.r.Resolve(ctx, "Python基础入门", "003-第一个程序"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.r.Name(), tc.want, got)
		}
	}

	if got := NewFlatStrategy("").Resolve(ctx, "Python基础入门", "001-Python特点"); got != "/Markdown/Python基础入门-001-Python特点.md?raw" {
		t.Fatalf("flat raw: got=%q", got)
	}
}

func TestNewStrategy(t *testing.T) {
	deps := Deps{Catalog: catalog.Default()}

	r, err := NewStrategy(&config.ResolverConfig{Strategy: "range"}, deps)
	if err != nil || r.Name() != "range" {
		t.Fatalf("range strategy: r=%v err=%v", r, err)
	}

	if _, err := NewStrategy(&config.ResolverConfig{Strategy: "nope"}, deps); err == nil {
		t.Fatalf("unknown strategy should fail")
	}

	if _, err := NewStrategy(&config.ResolverConfig{Strategy: "dynamic"}, deps); err == nil {
		t.Fatalf("dynamic without prober should fail")
	}

	Register("static-test", func(cfg *config.ResolverConfig, deps Deps) (Resolver, error) {
		return NewFlatStrategy(cfg.BaseURL), nil
	})
	r, err = NewStrategy(&config.ResolverConfig{Strategy: "static-test", BaseURL: "/docs"}, deps)
	if err != nil {
		t.Fatalf("registered strategy: %v", err)
	}
	if got := r.Resolve(context.Background(), "c", "t"); got != "/docs/c-t.md" {
		t.Fatalf("registered strategy resolve: got=%q", got)
	}

	names := Strategies()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, name := range []string{"range", "dynamic", "static-test"} {
		if !seen[name] {
			t.Fatalf("Strategies: %q missing from %v", name, names)
		}
	}
}

type fakeProber struct {
	mu     sync.Mutex
	exists map[string]bool
	calls  map[string]int
}

func newFakeProber(paths ...string) *fakeProber {
	p := &fakeProber{exists: make(map[string]bool), calls: make(map[string]int)}
	for _, path := range paths {
		p.exists[path] = true
	}
	return p
}

func (p *fakeProber) Exists(ctx context.Context, path string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[path]++
	return p.exists[path], nil
}

func (p *fakeProber) count(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

func TestDynamicStrategyProbeOrder(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()

	t.Run("chapter folder wins", func(t *testing.T) {
		want := "/Markdown/Python/Python基础入门/1-初识Python/002-选择题.md"
		prober := newFakeProber(want, "/Markdown/002-选择题.md")
		s := NewDynamicStrategy("", cat, nil, prober, NewMemoryCache())
		if got := s.Resolve(ctx, "Python基础入门", "002-选择题"); got != want {
			t.Fatalf("want=%q got=%q", want, got)
		}
	})

	t.Run("flat candidate", func(t *testing.T) {
		want := "/Markdown/006-注释.md"
		s := NewDynamicStrategy("", cat, nil, newFakeProber(want), NewMemoryCache())
		if got := s.Resolve(ctx, "Python基础入门", "006-注释"); got != want {
			t.Fatalf("want=%q got=%q", want, got)
		}
	})

	t.Run("raw suffix is probed", func(t *testing.T) {
		want := "/Markdown/Python/Python基础入门/001-Python特点.md?raw"
		s := NewDynamicStrategy("", cat, nil, newFakeProber(want), NewMemoryCache())
		if got := s.Resolve(ctx, "Python基础入门", "001-Python特点"); got != want {
			t.Fatalf("want=%q got=%q", want, got)
		}
	})
}

func TestDynamicStrategyCaching(t *testing.T) {
	ctx := context.Background()
	found := "/Markdown/Python基础入门/003-第一个程序.md"
	prober := newFakeProber(found)
	cache := NewMemoryCache()
	s := NewDynamicStrategy("", catalog.Default(), nil, prober, cache)

	if got := s.Resolve(ctx, "Python基础入门", "003-第一个程序"); got != found {
		t.Fatalf("first resolve: want=%q got=%q", found, got)
	}
	s.Resolve(ctx, "Python基础入门", "003-第一个程序")
	if n := prober.count(found); n != 1 {
		t.Fatalf("cached path probed again: calls=%d", n)
	}

	// 全部未命中时返回默认路径且不缓存
	fallback := s.Resolve(ctx, "Python基础入门", "999-不存在")
	if fallback != "/Markdown/Python/Python基础入门/999-不存在.md" {
		t.Fatalf("fallback: got=%q", fallback)
	}
	if cache.Len() != 1 {
		t.Fatalf("fallback must not be cached: len=%d", cache.Len())
	}

	if err := s.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("cache not cleared")
	}
}

func TestDynamicStrategyIgnoresCallerCancel(t *testing.T) {
	found := "/Markdown/Python基础入门/003-第一个程序.md"
	prober := ProberFunc(func(ctx context.Context, path string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return path == found, nil
	})
	cache := NewMemoryCache()
	s := NewDynamicStrategy("", catalog.Default(), nil, prober, cache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := s.Resolve(ctx, "Python基础入门", "003-第一个程序"); got != found {
		t.Fatalf("cancelled caller: want=%q got=%q", found, got)
	}
	if cache.Len() != 1 {
		t.Fatalf("result should be cached: len=%d", cache.Len())
	}
}

func TestDynamicStrategyProbeErrors(t *testing.T) {
	prober := ProberFunc(func(ctx context.Context, path string) (bool, error) {
		return false, errors.New("connection refused")
	})
	s := NewDynamicStrategy("", catalog.Default(), nil, prober, nil)
	got := s.Resolve(context.Background(), "Python基础入门", "003-第一个程序")
	if got != "/Markdown/Python/Python基础入门/003-第一个程序.md" {
		t.Fatalf("probe errors should fall back: got=%q", got)
	}
}

func TestDynamicStrategyPreload(t *testing.T) {
	var probes int64
	prober := ProberFunc(func(ctx context.Context, path string) (bool, error) {
		atomic.AddInt64(&probes, 1)
		return true, nil
	})
	cache := NewMemoryCache()
	s := NewDynamicStrategy("", catalog.Default(), nil, prober, cache)

	titles := []string{"001-Python特点", "002-选择题", "003-第一个程序", "004-填空题"}
	if err := s.Preload(context.Background(), "Python基础入门", titles); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if cache.Len() != len(titles) {
		t.Fatalf("preload cache size: want=%d got=%d", len(titles), cache.Len())
	}
	if atomic.LoadInt64(&probes) != int64(len(titles)) {
		t.Fatalf("each title should be probed once: probes=%d", probes)
	}
}

func TestHTTPProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method: want=HEAD got=%s", r.Method)
		}
		if r.URL.Path == "/Markdown/ok.md" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL, 0)
	ok, err := p.Exists(context.Background(), "/Markdown/ok.md")
	if err != nil || !ok {
		t.Fatalf("existing path: ok=%v err=%v", ok, err)
	}
	ok, err = p.Exists(context.Background(), "/Markdown/missing.md")
	if err != nil || ok {
		t.Fatalf("missing path: ok=%v err=%v", ok, err)
	}
}

func TestObjectPath(t *testing.T) {
	if got := ObjectPath("/Markdown/a.md?raw"); got != "/Markdown/a.md" {
		t.Fatalf("ObjectPath: got=%q", got)
	}
	if got := ObjectPath("/Markdown/a.md"); got != "/Markdown/a.md" {
		t.Fatalf("ObjectPath: got=%q", got)
	}
}
