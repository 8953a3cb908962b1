// Package httpx provides the shared HTTP client used by every outbound
// source call. The client is constructed once at startup and passed to the
// collaborators that need it; nothing in this package holds global state.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for outbound requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Backgrounder/1.0)"

// Error represents an error during an outbound HTTP call.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("http error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("http error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the shared client.
type Options struct {
	Timeout        time.Duration
	MaxConcurrency int     // sizes the connection pool
	SearchRPS      float64 // token bucket rate for metered search APIs
	SearchBurst    int
	UserAgent      string
}

// DefaultOptions returns sensible defaults for the shared client.
func DefaultOptions() *Options {
	return &Options{
		Timeout:        DefaultTimeout,
		MaxConcurrency: 5,
		SearchRPS:      5.0,
		SearchBurst:    10,
		UserAgent:      DefaultUserAgent,
	}
}

// Client wraps http.Client with the connection pool and search-API rate
// limiter shared across the fan-out.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates the shared client. Connection pool capacity follows the
// pipeline concurrency so parallel tasks do not queue on transport slots.
func New(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.SearchRPS <= 0 {
		opts.SearchRPS = 5.0
	}
	if opts.SearchBurst < 1 {
		opts.SearchBurst = 1
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxConcurrency * 2,
		MaxIdleConnsPerHost: opts.MaxConcurrency * 2,
		MaxConnsPerHost:     opts.MaxConcurrency * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.SearchRPS), opts.SearchBurst),
		userAgent: opts.UserAgent,
	}
}

// HTTP exposes the underlying http.Client for libraries that accept one.
func (c *Client) HTTP() *http.Client {
	return c.http
}

// WaitSearch blocks until a metered search API call may proceed.
func (c *Client) WaitSearch(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// Do executes a request with the shared client, stamping the user agent if
// the caller did not set one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}

// GetJSON performs a GET and decodes the JSON response into out.
// Query params are appended to rawURL; extra headers are optional.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, out any) error {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.doJSON(req, out)
}

// PostFormJSON performs a form-encoded POST and decodes the JSON response.
func (c *Client) PostFormJSON(ctx context.Context, rawURL string, params url.Values, form url.Values, out any) error {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.doJSON(req, out)
}

// GetText performs a GET and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return string(body), &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return &Error{URL: req.URL.String(), Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{URL: req.URL.String(), Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{URL: req.URL.String(), Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{URL: req.URL.String(), Message: "failed to decode JSON response", Cause: err}
	}
	return nil
}

func buildURL(rawURL string, params url.Values) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if len(params) > 0 {
		q := parsed.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}
