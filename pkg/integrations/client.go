package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/orgdeps/pkg/cache"
	"github.com/matzehuels/orgdeps/pkg/httputil"
	"github.com/matzehuels/orgdeps/pkg/observability"
)

// Client provides shared HTTP functionality for API clients.
// It handles caching, retry logic, per-request timeouts and common request
// headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
	retry   httputil.Policy
	timeout time.Duration
}

// NewClient creates a Client with the given cache and default headers.
// Every cache key is prepended with prefix and stored for ttl.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed, and nil for c to
// disable caching.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
		retry:   httputil.DefaultPolicy(),
		timeout: DefaultRequestTimeout,
	}
}

// SetRetryPolicy replaces the default retry policy.
func (c *Client) SetRetryPolicy(p httputil.Policy) { c.retry = p }

// SetRequestTimeout bounds each HTTP attempt. Non-positive values keep
// the current timeout.
func (c *Client) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
		c.http.Timeout = d
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is not read, but a successful fetch still
// refreshes the stored entry. The fetch function should populate v; v is
// stored only when fetch returns nil, so transient failures are never cached.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.prefix + key
	kind := c.keyType()

	if !refresh {
		data, ok, err := c.cache.Get(ctx, key)
		if err == nil && ok && json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, kind)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, kind)
	}

	if err := fetch(); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, kind, len(data))
		}
	}
	return nil
}

func (c *Client) keyType() string {
	if t := strings.TrimSuffix(c.prefix, ":"); t != "" {
		return t
	}
	return "http"
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and retries transient failures.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	return c.do(ctx, http.MethodGet, url, nil, headers, v)
}

// Post JSON-encodes body, POSTs it and decodes the response into v.
func (c *Client) Post(ctx context.Context, url string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, payload, map[string]string{"Content-Type": "application/json"}, v)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, headers map[string]string, v any) error {
	return c.retry.Do(ctx, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		body, err := c.doRequest(reqCtx, method, url, payload, headers)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
		}
		return nil
	})
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, headers map[string]string) (io.ReadCloser, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrTimeout, err))
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// checkStatus maps a response status to an error. Rate limits and 5xx
// responses are retryable; rate limits carry the server's wait hint.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrRateLimited, code),
			After: resetWait(resp.Header.Get("X-RateLimit-Reset")),
		}
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrForbidden, code)
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrRateLimited, code),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// resetWait converts an X-RateLimit-Reset unix timestamp into a wait.
func resetWait(v string) time.Duration {
	ts, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	if d := time.Until(time.Unix(ts, 0)); d > 0 {
		return d
	}
	return 0
}
