// Package fetch is the HTTP layer under the statistics sources.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	xe "github.com/v6census/v6census/pkg/errors"
)

// UserAgent identifies the census to the statistics providers.
const UserAgent = "IPv6-Census/1.0 (statistics aggregation; contact: ops@v6census.net)"

// maxBodySize caps response reads. RIR delegation files run to a few MB;
// nothing the census fetches is legitimately larger.
const maxBodySize = 32 << 20

// StatusError is returned for responses outside 2xx.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered status %d", e.URL, e.Code)
}

// Client fetches documents from the statistics providers.
type Client struct {
	httpclient *http.Client
	userAgent  string
}

type Option func(*Client) *Client

// WithTimeout caps a whole request, connect to last body byte.
// Callers usually also carry a context deadline; the shorter one wins.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) *Client {
		c.httpclient.Timeout = d
		return c
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) *Client {
		c.userAgent = ua
		return c
	}
}

func New(options ...Option) *Client {
	c := &Client{
		httpclient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  UserAgent,
	}
	for _, option := range options {
		c = option(c)
	}
	return c
}

type RequestOption func(*http.Request) *http.Request

func WithHeader(name string, value string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Set(name, value)
		return req
	}
}

// WithBearer sets the Authorization header for token-gated APIs.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}
}

// Get fetches url and returns the response body.
// Responses outside 2xx come back as *StatusError.
func (c *Client) Get(ctx context.Context, url string, options ...RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, option := range options {
		req = option(req)
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return body, nil
}

// JSON fetches url and decodes the response body as T.
func JSON[T any](ctx context.Context, c *Client, url string, options ...RequestOption) (T, error) {
	var parsed T

	body, err := c.Get(ctx, url, options...)
	if err != nil {
		return parsed, err
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, xe.WrapWithNote(fmt.Sprintf("unexpected response from %s", url), err)
	}
	return parsed, nil
}
