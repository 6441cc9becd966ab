// Package httpclient provides the resty-backed HTTP client shared by the
// backend fetcher and the HTTP publisher.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the minimal HTTP surface the rest of the module depends on.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error)
	Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*resty.Response, error)
}

// Option customizes the resty client.
type Option func(*resty.Client)

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

type restyClient struct {
	client *resty.Client
}

// NewRestyClient builds a Client. A zero timeout leaves requests unbounded.
// Retries are never enabled.
func NewRestyClient(timeout time.Duration, opts ...Option) Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return &restyClient{client: c}
}

// Get issues a GET and reads the full body.
func (r *restyClient) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	return r.Do(ctx, resty.MethodGet, url, headers, nil)
}

// Do issues a request with an optional raw body.
func (r *restyClient) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*resty.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}
	return req.Execute(method, url)
}
