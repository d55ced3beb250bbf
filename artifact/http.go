package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSource 通过 HTTP GET 读取模型文件：URL = BaseURL + "/" + name。
type HTTPSource struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPSource 创建 HTTP 来源
//
// 用法：
//
//	src := artifact.NewHTTPSource("http://models.internal/tagger/v3", 10*time.Second)
//	data, err := src.Fetch(ctx, "classifier.json")
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewHTTPSourceWithClient 使用自定义 HTTP 客户端创建来源
func NewHTTPSourceWithClient(baseURL string, client *http.Client) *HTTPSource {
	return &HTTPSource{BaseURL: baseURL, client: client}
}

func (s *HTTPSource) Name() string { return s.BaseURL }

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target, err := url.JoinPath(s.BaseURL, name)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("get %s: status=%d, body=%s", target, resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return data, nil
}
