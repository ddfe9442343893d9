// Package apiclient talks to the Remote Content API: the external JSON
// backend that stores carousel items, events, donations, volunteer
// submissions and CGCC registrations, and hosts uploaded images.
//
// Every call takes a context. When the context carries no deadline the
// client applies its default timeout.
// File: apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"cmv-site/logger"
)

const (
	// DefaultTimeout applies to requests whose context has no deadline.
	DefaultTimeout = 15 * time.Second

	defaultUserAgent = "cmv-site"

	// maxErrorBody bounds how much of a failed response is kept as message.
	maxErrorBody = 4 << 10
)

// ErrUnavailable wraps transport failures: timeouts, refused connections,
// DNS errors. The API never saw (or never answered) the request.
var ErrUnavailable = errors.New("content API unavailable")

// ErrMissingID means the API accepted a create but returned no record id.
var ErrMissingID = errors.New("content API returned a record without an id")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("content API returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ResponseHook observes every completed call. status is 0 when the request
// failed before a response arrived.
type ResponseHook func(method, path string, status int, elapsed time.Duration, err error)

// Config configures a Client.
type Config struct {
	BaseURL   string        // e.g. https://api.example.org/api
	Timeout   time.Duration // default per-request timeout
	UserAgent string
	// Tracing wraps the transport with AWS X-Ray subsegments.
	Tracing bool
}

// Client is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	defaultTimeout time.Duration
	userAgent      string

	hookMu sync.RWMutex
	hook   ResponseHook
}

// New builds a client for cfg.BaseURL.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	hc := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
		},
	}
	if cfg.Tracing {
		hc = xray.Client(hc)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           hc,
		defaultTimeout: cfg.Timeout,
		userAgent:      cfg.UserAgent,
	}
}

// HTTPClient exposes the underlying client, mainly so tests can install a
// mock transport.
func (c *Client) HTTPClient() *http.Client { return c.http }

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// SetResponseHook installs h, replacing any previous hook.
func (c *Client) SetResponseHook(h ResponseHook) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.hook = h
}

func (c *Client) observe(method, path string, status int, start time.Time, err error) {
	c.hookMu.RLock()
	h := c.hook
	c.hookMu.RUnlock()
	if h != nil {
		h(method, path, status, time.Since(start), err)
	}
}

// url joins the base URL and a collection path.
func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// do sends a JSON request and returns the response when the status is 2xx.
// The caller must close the body.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, path)
}

// send applies the default timeout, executes req and maps failures onto
// ErrUnavailable or *APIError.
func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	ctx := req.Context()
	var cancel context.CancelFunc = func() {}
	if _, ok := ctx.Deadline(); !ok && c.defaultTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.defaultTimeout)
		req = req.WithContext(ctx)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		err = fmt.Errorf("%w: %s %s: %v", ErrUnavailable, req.Method, path, err)
		c.observe(req.Method, path, 0, start, err)
		logger.Warn.Printf("[apiclient.send] %v", err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		cancel()
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(msg)}
		c.observe(req.Method, path, resp.StatusCode, start, apiErr)
		logger.Warn.Printf("[apiclient.send] %s %s: %v", req.Method, path, apiErr)
		return nil, apiErr
	}

	c.observe(req.Method, path, resp.StatusCode, start, nil)
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// errorMessage extracts {"message"} or {"error"} from a JSON error body,
// falling back to the trimmed text.
func errorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// decode reads a JSON body into out. An empty body leaves out untouched.
func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	err := json.NewDecoder(resp.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// cancelOnClose releases the request's timeout context with the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
