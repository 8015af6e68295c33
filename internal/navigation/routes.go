// Package navigation 章节学习时的返回逻辑：在章节内后退直接回到课程目录，而不是逐步回放学习步骤
package navigation

import (
	"net/url"
	"strings"
)

// RouteIntent 路由在学习流程中的用途
type RouteIntent int

const (
	IntentOther RouteIntent = iota
	IntentCatalog
	IntentChapterStudy
)

func (i RouteIntent) String() string {
	switch i {
	case IntentCatalog:
		return "catalog"
	case IntentChapterStudy:
		return "chapter-study"
	default:
		return "other"
	}
}

// Route 前端路由模板，":name" 匹配一段，末尾 "*" 匹配剩余的一段或多段
type Route struct {
	Template string
	Intent   RouteIntent
	// Numeric 中列出的参数只匹配数字
	Numeric []string

	segments []string
}

type Match struct {
	Route  *Route
	Params map[string]string
}

type RouteTable struct {
	routes []*Route
}

func NewRouteTable(routes ...Route) *RouteTable {
	t := &RouteTable{}
	for _, r := range routes {
		r := r
		r.segments = splitPath(r.Template)
		t.routes = append(t.routes, &r)
	}
	return t
}

// DefaultRouteTable 课程目录页和章节学习页
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(
		Route{Template: "/step/:language/:courseId", Intent: IntentCatalog},
		Route{
			Template: "/step/:language/:courseId/:chapter/:step",
			Intent:   IntentChapterStudy,
			Numeric:  []string{"chapter", "step"},
		},
		Route{Template: "/learn/*", Intent: IntentChapterStudy},
	)
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r *Route) numeric(name string) bool {
	for _, n := range r.Numeric {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Route) match(segments []string) (map[string]string, bool) {
	params := make(map[string]string)
	for i, seg := range r.segments {
		if seg == "*" {
			return params, i < len(segments)
		}
		if i >= len(segments) {
			return nil, false
		}
		if strings.HasPrefix(seg, ":") {
			name := seg[1:]
			value, err := url.PathUnescape(segments[i])
			if err != nil {
				value = segments[i]
			}
			if r.numeric(name) && !isDigits(value) {
				return nil, false
			}
			params[name] = value
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, len(segments) == len(r.segments)
}

// Match 按声明顺序返回第一个匹配的路由
func (t *RouteTable) Match(path string) (*Match, bool) {
	segments := splitPath(path)
	for _, r := range t.routes {
		if params, ok := r.match(segments); ok {
			return &Match{Route: r, Params: params}, true
		}
	}
	return nil, false
}

func (t *RouteTable) Intent(path string) RouteIntent {
	m, ok := t.Match(path)
	if !ok {
		return IntentOther
	}
	return m.Route.Intent
}

// build 用参数填充模板，缺少参数或模板含通配符时失败
func (r *Route) build(params map[string]string) (string, bool) {
	var b strings.Builder
	for _, seg := range r.segments {
		b.WriteByte('/')
		switch {
		case seg == "*":
			return "", false
		case strings.HasPrefix(seg, ":"):
			value, ok := params[seg[1:]]
			if !ok || value == "" {
				return "", false
			}
			b.WriteString(url.PathEscape(value))
		default:
			b.WriteString(seg)
		}
	}
	if b.Len() == 0 {
		return "/", true
	}
	return b.String(), true
}

// CatalogFor 由当前路径推断所属课程的目录路由
func (t *RouteTable) CatalogFor(path string) (string, bool) {
	m, ok := t.Match(path)
	if !ok {
		return "", false
	}
	for _, r := range t.routes {
		if r.Intent != IntentCatalog {
			continue
		}
		if catalog, ok := r.build(m.Params); ok {
			return catalog, true
		}
	}
	return "", false
}
