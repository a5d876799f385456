package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/aesconnect/cli/pkg/cache"
	"github.com/aesconnect/cli/pkg/errorlog"
	"github.com/aesconnect/cli/pkg/logger"
	"github.com/aesconnect/cli/pkg/retry"
)

const userAgent = "AESConnect-CLI/1.0"

// Options configures a Client. Cache, Retry and ErrorLog are injected
// so tests can run without shared state.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Cache    *cache.Cache
	Retry    retry.Policy
	ErrorLog *errorlog.Log
}

// Client wraps the HTTP transport with the resilience layer: cache-first
// GETs, bounded retry, per-operation loading flags, and normalized
// network failures. Mutating verbs never touch the cache; callers
// invalidate after successful mutations.
type Client struct {
	http    *resty.Client
	cache   *cache.Cache
	retry   retry.Policy
	errlog  *errorlog.Log
	baseURL *url.URL

	mu      sync.Mutex
	loading map[string]bool

	// offlineProbe distinguishes "you are offline" from "server is
	// unreachable" for the normalized user-facing message.
	offlineProbe func() bool
}

// NewClient creates a Client for the given backend.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if opts.Cache == nil {
		opts.Cache = cache.New(cache.DefaultTTL)
	}
	if opts.ErrorLog == nil {
		opts.ErrorLog = errorlog.New()
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.NewPolicy(retry.DefaultMaxAttempts, retry.DefaultDelay)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseURL)
	httpClient.SetCookieJar(jar)
	httpClient.SetHeader("User-Agent", userAgent)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})
	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode())
		return nil
	})

	c := &Client{
		http:    httpClient,
		cache:   opts.Cache,
		retry:   opts.Retry,
		errlog:  opts.ErrorLog,
		baseURL: base,
		loading: make(map[string]bool),
	}
	c.offlineProbe = c.probeOffline

	return c, nil
}

// Loading reports whether the named operation has a request in flight.
func (c *Client) Loading(op string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[op]
}

func (c *Client) setLoading(op string, v bool) {
	c.mu.Lock()
	if v {
		c.loading[op] = true
	} else {
		delete(c.loading, op)
	}
	c.mu.Unlock()
}

// ClearCache drops every cached response. Coarse invalidation used
// after mutations that change the feed.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// InvalidatePath drops one cached GET response so the next fetch goes
// to the network.
func (c *Client) InvalidatePath(path string) {
	c.cache.Delete(path)
}

// ErrorLog returns the rolling error log shared with the managers.
func (c *Client) ErrorLog() *errorlog.Log {
	return c.errlog
}

// SetSessionCookie installs a stored session cookie so a persisted
// session survives process restarts.
func (c *Client) SetSessionCookie(name, value string) {
	c.http.SetCookie(&http.Cookie{Name: name, Value: value, Path: "/"})
}

// SessionCookie returns the backend session cookie from the jar, or nil.
func (c *Client) SessionCookie() *http.Cookie {
	jar := c.http.GetClient().Jar
	if jar == nil {
		return nil
	}
	for _, ck := range jar.Cookies(c.baseURL) {
		if ck.Name == "session" {
			return ck
		}
	}
	return nil
}

// GetJSON performs a cache-first GET. A cache hit is returned without a
// network call; a fresh successful response is cached.
func (c *Client) GetJSON(ctx context.Context, op, path string, out interface{}) error {
	if body, ok := c.cache.Get(path); ok {
		logger.Debug("Cache hit", "path", path)
		if out == nil {
			return nil
		}
		return json.Unmarshal(body, out)
	}

	body, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if envelopeSuccess(body) {
		c.cache.Set(path, body)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// PostJSON performs a POST with a JSON body. Never cached.
func (c *Client) PostJSON(ctx context.Context, op, path string, reqBody, out interface{}) error {
	return c.mutate(ctx, op, http.MethodPost, path, reqBody, out)
}

// PutJSON performs a PUT with an optional JSON body. Never cached.
func (c *Client) PutJSON(ctx context.Context, op, path string, reqBody, out interface{}) error {
	return c.mutate(ctx, op, http.MethodPut, path, reqBody, out)
}

// DeleteJSON performs a DELETE. Never cached.
func (c *Client) DeleteJSON(ctx context.Context, op, path string, out interface{}) error {
	return c.mutate(ctx, op, http.MethodDelete, path, nil, out)
}

// PostMultipart performs a multipart POST with form fields and an
// optional file, used for post creation and avatar upload.
func (c *Client) PostMultipart(ctx context.Context, op, path string, fields map[string]string, fileField, filePath string, out interface{}) error {
	c.setLoading(op, true)
	defer c.setLoading(op, false)

	var body []byte
	err := c.retry.Do(ctx, func() error {
		req := c.http.R().SetContext(ctx).SetFormData(fields)
		if filePath != "" {
			req.SetFile(fileField, filePath)
		}

		resp, err := req.Post(path)
		if err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return ParseError(resp)
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		return c.fail(op, err)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) mutate(ctx context.Context, op, method, path string, reqBody, out interface{}) error {
	body, err := c.do(ctx, op, method, path, reqBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// do runs one request through the retry policy with the loading flag
// held. The flag clears on success and failure alike.
func (c *Client) do(ctx context.Context, op, method, path string, reqBody interface{}) ([]byte, error) {
	c.setLoading(op, true)
	defer c.setLoading(op, false)

	var body []byte
	err := c.retry.Do(ctx, func() error {
		req := c.http.R().SetContext(ctx)
		if reqBody != nil {
			data, err := json.Marshal(reqBody)
			if err != nil {
				return retry.Permanent(err)
			}
			req.SetHeader("Content-Type", "application/json")
			req.SetBody(data)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return ParseError(resp)
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, c.fail(op, err)
	}

	return body, nil
}

// fail records the raw error and normalizes transport failures into the
// single user-facing offline/server message.
func (c *Client) fail(op string, err error) error {
	c.errlog.Add(err, op)
	logger.Error("Request failed", "op", op, "error", err)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	return NetworkError(err, c.offlineProbe())
}

// probeOffline dials the backend host. The browser client keyed this
// off navigator.onLine; a failed dial is the closest CLI equivalent.
func (c *Client) probeOffline() bool {
	host := c.baseURL.Host
	if c.baseURL.Port() == "" {
		if c.baseURL.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}

	conn, err := net.DialTimeout("tcp", host, 2*time.Second)
	if err != nil {
		return true
	}
	conn.Close()
	return false
}

// envelopeSuccess reports whether the response body is an application
// level success. Bodies without the field count as success.
func envelopeSuccess(body []byte) bool {
	var env struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	return env.Success == nil || *env.Success
}
