package navigation

import "sync"

// Router 前端路由的抽象
type Router interface {
	Current() string
	Push(path string)
	Replace(path string)
	Back()
	// ReplaceHistory 改写当前历史记录，不触发跳转
	ReplaceHistory(path string)
}

type Action string

const (
	ActionPush           Action = "push"
	ActionReplace        Action = "replace"
	ActionBack           Action = "back"
	ActionReplaceHistory Action = "replaceHistory"
)

// Directive 交给前端执行的一条路由指令
type Directive struct {
	Action Action `json:"action"`
	Path   string `json:"path,omitempty"`
}

// DirectiveRouter 只记录指令，由 HTTP 层返回给前端执行
type DirectiveRouter struct {
	mu         sync.Mutex
	current    string
	directives []Directive
}

func NewDirectiveRouter(current string) *DirectiveRouter {
	return &DirectiveRouter{current: current}
}

func (r *DirectiveRouter) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *DirectiveRouter) record(d Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directives = append(r.directives, d)
	if d.Action == ActionPush || d.Action == ActionReplace {
		r.current = d.Path
	}
}

func (r *DirectiveRouter) Push(path string) {
	r.record(Directive{Action: ActionPush, Path: path})
}

func (r *DirectiveRouter) Replace(path string) {
	r.record(Directive{Action: ActionReplace, Path: path})
}

func (r *DirectiveRouter) Back() {
	r.record(Directive{Action: ActionBack})
}

func (r *DirectiveRouter) ReplaceHistory(path string) {
	r.record(Directive{Action: ActionReplaceHistory, Path: path})
}

func (r *DirectiveRouter) Directives() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Directive, len(r.directives))
	copy(out, r.directives)
	return out
}
