// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

const defaultUserAgent = "promptprofit-audit"

// Client is a thin JSON-over-HTTP client for provider APIs.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client. A zero timeout leaves deadlines to the
// request context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// PostJSON posts body with a JSON content type and the given extra headers.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body []byte) (*http.Response, error) {
	return c.SendJSON(ctx, http.MethodPost, url, headers, body)
}

// SendJSON sends body with method. A nil body sends no content type.
func (c *Client) SendJSON(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req)
}
