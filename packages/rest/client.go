package rest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
)

// Doer executes HTTP requests. *http.Client satisfies it; tests can
// substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Hook is a callback invoked before every dispatch. Hooks run
// sequentially in registration order and may mutate the request.
type Hook func(ctx context.Context, r *Request) error

// hookEntry wraps a Hook so two registrations of the same function
// remain distinguishable for removal.
type hookEntry struct {
	fn Hook
}

type Client struct {
	baseURL        string
	defaultHeaders map[string]string
	httpClient     Doer
	timeout        time.Duration
	limiter        *rate.Limiter

	mu    sync.Mutex
	hooks []*hookEntry
}

type ClientOption func(*Client)

// NewClient creates a client bound to baseURL. A trailing slash on
// baseURL is normalized away.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		timeout:        DefaultTimeout,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom transport. The timeout option has no
// effect on an injected client.
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = d
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders["User-Agent"] = ua
	}
}

// WithRateLimit throttles dispatches to rps requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Hook appends fn to the ordered hook list and returns a function that
// removes exactly that registration. Calling the returned function more
// than once is a harmless no-op. Hooks added after a Request was created
// still run for its sends: the builder holds the client, not a copy of
// the list.
func (c *Client) Hook(fn Hook) func() {
	entry := &hookEntry{fn: fn}

	c.mu.Lock()
	c.hooks = append(c.hooks, entry)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.hooks {
			if e == entry {
				c.hooks = append(c.hooks[:i], c.hooks[i+1:]...)
				return
			}
		}
	}
}

// snapshotHooks captures the hook order at send time so removal during
// iteration cannot affect a send already in flight.
func (c *Client) snapshotHooks() []Hook {
	c.mu.Lock()
	defer c.mu.Unlock()

	hooks := make([]Hook, len(c.hooks))
	for i, e := range c.hooks {
		hooks[i] = e.fn
	}
	return hooks
}

func (c *Client) Get(path string) *Request {
	return c.newRequest(http.MethodGet, path)
}

func (c *Client) Post(path string) *Request {
	return c.newRequest(http.MethodPost, path)
}

func (c *Client) Put(path string) *Request {
	return c.newRequest(http.MethodPut, path)
}

func (c *Client) Patch(path string) *Request {
	return c.newRequest(http.MethodPatch, path)
}

func (c *Client) Delete(path string) *Request {
	return c.newRequest(http.MethodDelete, path)
}

func (c *Client) newRequest(method, path string) *Request {
	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	for k, v := range c.defaultHeaders {
		headers.Set(k, v)
	}

	return &Request{
		client:  c,
		method:  method,
		url:     c.resolve(path),
		headers: headers,
	}
}

// resolve joins path onto the base URL with exactly one separating
// slash. A path containing "//" (an absolute or protocol-relative URL)
// is used verbatim so individual requests can escape the base.
func (c *Client) resolve(path string) string {
	if strings.Contains(path, "//") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
