// Package fetch turns job posting URLs into plain description text. Pages are
// downloaded over HTTP and reduced with the selectors of the job board that
// hosts them; results can be cached in Valkey.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout      = 20 * time.Second
	DefaultMaxPageBytes = 2 << 20
	DefaultUserAgent    = "Mozilla/5.0 (compatible; ResumeBuilder/1.0)"
)

// Error is a posting that could not be turned into description text.
// StatusCode is set when the board answered with a non-success status.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job posting %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("job posting %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client downloads job postings.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent sets the User-Agent header sent to job boards.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxPageBytes bounds the size of a downloaded posting page.
func WithMaxPageBytes(n int64) ClientOption {
	return func(c *Client) { c.maxBytes = n }
}

// NewClient creates a Client with the package defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JobDescription downloads the posting at rawURL and returns its description
// text, extracted with the selectors of the hosting board.
func (c *Client) JobDescription(ctx context.Context, rawURL string) (string, error) {
	u, err := parsePostingURL(rawURL)
	if err != nil {
		return "", err
	}

	page, err := c.download(ctx, u)
	if err != nil {
		return "", err
	}

	text, err := extractDescription(page, BoardFor(u))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "unreadable posting page", Cause: err}
	}
	if text == "" {
		return "", &Error{URL: rawURL, Message: "no description text found"}
	}
	return text, nil
}

// parsePostingURL accepts absolute http and https URLs only.
func parsePostingURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "not an http(s) URL", Cause: err}
	}
	return u, nil
}

func (c *Client) download(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{URL: u.String(), Message: "failed to build request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: u.String(), Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: u.String(), Message: fmt.Sprintf("board answered HTTP %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &Error{URL: u.String(), Message: "failed to read page", Cause: err}
	}
	if int64(len(page)) > c.maxBytes {
		return nil, &Error{URL: u.String(), Message: fmt.Sprintf("page exceeds %d bytes", c.maxBytes)}
	}
	return page, nil
}
