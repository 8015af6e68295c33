package resolver

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Prober 判断候选路径上的资源是否存在
type Prober interface {
	Exists(ctx context.Context, path string) (bool, error)
}

type ProberFunc func(ctx context.Context, path string) (bool, error)

func (f ProberFunc) Exists(ctx context.Context, path string) (bool, error) {
	return f(ctx, path)
}

// HTTPProber 对静态资源服务器发 HEAD 请求
type HTTPProber struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProber(baseURL string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProber{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProber) Exists(ctx context.Context, path string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
