package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render([]byte("# 变量\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<h1>变量</h1>") {
		t.Fatalf("heading missing: %s", out)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("GFM table missing: %s", out)
	}
}

func TestRenderHighlightsCode(t *testing.T) {
	r := NewRenderer(Options{Style: "monokai"})
	out, err := r.Render([]byte("```python\nprint('hi')\n```\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<pre") || !strings.Contains(out, "style=") {
		t.Fatalf("highlighted block missing: %s", out)
	}
}

func TestRenderRawHTML(t *testing.T) {
	src := []byte("<div class=\"tip\">提示</div>\n")

	safe, _ := NewRenderer(Options{}).Render(src)
	if strings.Contains(safe, "<div class=\"tip\">") {
		t.Fatalf("raw html should be omitted by default: %s", safe)
	}

	unsafe, _ := NewRenderer(Options{AllowRawHTML: true}).Render(src)
	if !strings.Contains(unsafe, "<div class=\"tip\">") {
		t.Fatalf("raw html should be kept: %s", unsafe)
	}
}
