// Package transport provides the HTTP client used to talk to the vendor
// download API and to stream installer artifacts to disk.
package transport

import (
	"context"
	"net/http"

	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality for the download API.
type Client struct {
	http *http.Client
}

// New creates a new transport client.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// NewWithHTTPClient creates a transport client around an existing
// *http.Client. Used by tests to point at an httptest server.
func NewWithHTTPClient(hc *http.Client) *Client {
	if hc == nil {
		return New()
	}
	return &Client{http: hc}
}

// Get performs a GET request with JSON accept headers.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// Stream performs a GET request without a client-side timeout, for large
// artifact downloads where the caller bounds the transfer via ctx.
func (c *Client) Stream(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	streamClient := &http.Client{Transport: c.http.Transport}
	return streamClient.Do(req)
}
