// Package transport provides the HTTP client used to fetch remote avatars.
package transport

import (
	"context"
	"net/http"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs single best-effort GET requests. It never retries.
type Client struct {
	http     *http.Client
	maxBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithMaxBytes limits the size of a fetched body.
func WithMaxBytes(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxBytes = n
		}
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultHTTPTimeout},
		maxBytes: constants.MaxAvatarBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	req.Header.Set("Accept", "image/*")
	return c.http.Do(req)
}

// Fetch downloads the body at url. Non-200 responses are returned as
// *errors.HTTPError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, errors.WrapIO("fetch", url, err)
	}
	return ReadBody(resp, url, c.maxBytes)
}
