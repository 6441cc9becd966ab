// Package backend talks to the reporting backend that serves /topic-counts
// and /articles-by-topic.
package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/khobor-topics/internal/logger"
	"github.com/Adda-Baaj/khobor-topics/pkg/httpclient"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	PathTopicCounts     = "/topic-counts"
	PathArticlesByTopic = "/articles-by-topic"
)

// Fetcher issues one GET per call and returns the decoded JSON body as is.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

// Client is the resty-backed Fetcher.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     logger.Logger
}

// DefaultHTTPClient returns an unbounded client with no retries.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(0) }

// NewClient builds a Client. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string, client httpclient.Client, log logger.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Client{
		baseURL: baseURL,
		http:    client,
		log:     logger.Ensure(log),
	}
}

// URL renders the request target for path and query.
func (c *Client) URL(path string, query url.Values) string {
	target := c.baseURL + path
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}
	return target
}

// FetchJSON performs the GET and decodes the body whatever the status code.
// Transport and decode errors are returned unchanged.
func (c *Client) FetchJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	target := c.URL(path, query)

	c.log.DebugObj("dispatching backend request", "backend_request", map[string]any{
		"url": target,
	})

	resp, err := c.http.Get(ctx, target, nil)
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	c.log.DebugObj("backend responded", "backend_response", map[string]any{
		"url":    target,
		"status": resp.StatusCode(),
		"bytes":  len(body),
	})

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
