package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cryptomd/internal/market"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 100 * time.Millisecond
)

// Options tunes the shared HTTP client behavior
type Options struct {
	Timeout    time.Duration // per-attempt timeout
	MaxRetries int           // total attempts, min 1
	RetryDelay time.Duration // fixed delay between attempts
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

// Client is the shared HTTP base for all venue snapshot clients. Only
// timeout-class transport errors are retried; a non-2xx response returns an
// APIError immediately.
type Client struct {
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration

	// OnResponse, when set, receives the headers of every successful
	// response. Used for venue rate-limit accounting.
	OnResponse func(http.Header)
}

// New creates a new HTTP client with the given options
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
}

// Get performs a GET request with optional query parameters
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, rawURL, params, nil, nil)
}

// Post performs a POST request with a JSON body and optional headers
func (c *Client) Post(ctx context.Context, rawURL string, body any, headers map[string]string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, rawURL, nil, body, headers)
}

// Request performs an HTTP request with bounded retries. Empty parameter
// values are elided from the query string.
func (c *Client) Request(ctx context.Context, method, rawURL string, params map[string]string, body any, headers map[string]string) (json.RawMessage, error) {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		result, err := c.doRequest(ctx, method, target, payload, headers)
		if err == nil {
			return result, nil
		}
		if !isTimeout(err) {
			return nil, err
		}
		lastErr = err
		if attempt < c.maxRetries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", market.ErrTimeout, c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, target string, payload []byte, headers map[string]string) (json.RawMessage, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &market.APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if c.OnResponse != nil {
		c.OnResponse(resp.Header)
	}

	return json.RawMessage(data), nil
}

// Close releases idle connections held by the underlying transport
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
