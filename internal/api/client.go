package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// Config holds common client configuration.
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration

	// CacheDir enables a disk-backed conditional-GET cache. Empty
	// means in-memory caching only.
	CacheDir string

	// MaxRetries bounds retry attempts for idempotent GETs. Mutating
	// requests are never retried.
	MaxRetries uint

	Logger zerolog.Logger
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		ServerURL:  "http://localhost:8080",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Logger:     zerolog.Nop(),
	}
}

// Client is the function-per-endpoint HTTP client for the council API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries uint
	logger     zerolog.Logger
}

// NewClient creates a client. GET responses flow through a caching
// transport so the server's ETag and Cache-Control headers are honored.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := NewCachingHTTPClient(cfg.CacheDir)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		maxRetries: cfg.MaxRetries,
		logger:     cfg.Logger,
	}
}

// get issues a GET, retrying transient failures with exponential
// backoff. 4xx responses are permanent and returned immediately.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	operation := func() (struct{}, error) {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		if err == nil {
			return struct{}{}, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return struct{}{}, backoff.Permanent(err)
		}
		c.logger.Debug().Err(err).Str("path", path).Msg("retrying GET")
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries),
	)
	return err
}

// post issues a POST. Never retried: repeating a side-effecting call
// silently is worse than surfacing the failure.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError. A body that
// doesn't parse as the error envelope still yields a usable error.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       "unknown",
		Message:    resp.Status,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var body ErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Code != "" {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}
