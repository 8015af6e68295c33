// Package markdown 课程内容渲染，GFM + 代码高亮
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Options struct {
	Style        string
	AllowRawHTML bool
}

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer(opts Options) *Renderer {
	style := opts.Style
	if style == "" {
		style = "monokai"
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
	}
	// 课程文档里有内嵌的 HTML 片段
	if opts.AllowRawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Renderer{md: goldmark.New(rendererOpts...)}
}

func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
