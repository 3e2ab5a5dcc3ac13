// Package backend is the request facade for the document-question-answering
// backend. Every network call goes through Client.Request, which normalizes
// failures into *RequestError and decodes JSON bodies.
package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Minute

// RequestOptions carries the method, headers and body of a request.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   io.Reader
}

// Client talks to the backend rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger every request error is reported to.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend at baseURL (e.g. "http://localhost:5000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one call to endpoint and decodes the JSON body into out
// (which may be nil to only validate the body). Any failure is logged and
// returned as a *RequestError; Request never recovers from one.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out interface{}) (err error) {
	defer func() {
		if err != nil {
			c.logger.Error("API request error", zap.String("endpoint", endpoint), zap.Error(err))
		}
	}()

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, opts.Body)
	if err != nil {
		return &RequestError{Kind: KindTransport, Endpoint: endpoint, Detail: err.Error(), Err: err}
	}
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Kind: KindTransport, Endpoint: endpoint, Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Kind: KindTransport, Endpoint: endpoint, Status: resp.StatusCode, Detail: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Kind:     KindStatus,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Detail:   errorDetail(raw),
		}
	}

	if !json.Valid(raw) {
		return &RequestError{Kind: KindParse, Endpoint: endpoint, Status: resp.StatusCode, Detail: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Kind: KindParse, Endpoint: endpoint, Status: resp.StatusCode, Detail: string(raw), Err: err}
	}
	return nil
}

func jsonHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}
