// Package httpretry sends JSON requests to AI provider APIs, retrying
// transient failures with jittered exponential backoff.
package httpretry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Default retry settings.
const (
	DefaultMaxRetries  = 3
	DefaultBaseDelay   = 250 * time.Millisecond
	DefaultMaxDuration = 15 * time.Second
	defaultJitter      = 50 * time.Millisecond
)

// Config controls retry behaviour.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries uint64

	// BaseDelay is the first backoff interval; later ones double.
	BaseDelay time.Duration

	// MaxDuration caps the total time spent retrying.
	MaxDuration time.Duration
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the status indicates a transient condition.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client wraps an http.Client with provider-aware retries.
type Client struct {
	http     *http.Client
	provider string
	cfg      Config
}

// New creates a client. Zero values in cfg take the defaults.
func New(provider string, timeout time.Duration, cfg Config) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxDuration == 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		provider: provider,
		cfg:      cfg,
	}
}

// Provider returns the provider label used in error messages.
func (c *Client) Provider() string {
	return c.provider
}

// Request describes one API call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string

	// Body is marshalled as JSON when non-nil.
	Body any
}

// Do sends the request and returns the body of a 2xx response. Network
// errors, 429 and 5xx responses are retried; other statuses fail at once.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	var payload []byte
	if r.Body != nil {
		var err error
		payload, err = json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", c.provider, err)
		}
	}

	var out []byte
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		body, err := c.once(ctx, r, payload)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.RetryableError(err)
		}
		out = body
		return nil
	})
	return out, err
}

// DoJSON is Do followed by decoding the response into out.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	body, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// Ping issues a single GET without retries, for connectivity checks.
func (c *Client) Ping(ctx context.Context, url string, headers map[string]string) error {
	_, err := c.once(ctx, Request{Method: http.MethodGet, URL: url, Headers: headers}, nil)
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", c.provider, err)
	}
	return nil
}

func (c *Client) once(ctx context.Context, r Request, payload []byte) ([]byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func (c *Client) backoff() retry.Backoff {
	b := retry.NewExponential(c.cfg.BaseDelay)
	b = retry.WithMaxDuration(c.cfg.MaxDuration, b)
	return retry.WithMaxRetries(c.cfg.MaxRetries, retry.WithJitter(defaultJitter, b))
}
