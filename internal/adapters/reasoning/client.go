// Package reasoning provides the HTTP client for the external reasoning engine.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

// maxResponseSize caps how much of an engine response is read.
const maxResponseSize = 8 << 20

const (
	triagePath = "/v1/triage"
	deepPath   = "/v1/deep"
)

// RetryConfig controls how transient failures are retried.
type RetryConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
	MaxBackoff  time.Duration
}

// Client implements ports.ReasoningEngine over JSON HTTP.
type Client struct {
	endpoint   *url.URL
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryConfig
	logger     ports.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetry replaces the retry policy derived from the configuration.
func WithRetry(cfg RetryConfig) Option {
	return func(client *Client) {
		client.retry = cfg
	}
}

// NewClient creates a client for the engine at cfg.Endpoint. The API key is read
// from the environment variable named by cfg.APIKeyEnv.
func NewClient(cfg domain.EngineConfig, logger ports.Logger, opts ...Option) (*Client, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		if err == nil {
			err = zerr.New("endpoint must be an absolute URL")
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "endpoint", cfg.Endpoint)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := max(cfg.Burst, 1)

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, burst),
		retry: RetryConfig{
			MaxAttempts: max(cfg.MaxRetries, 0) + 1,
			BackoffBase: 500 * time.Millisecond,
			MaxBackoff:  5 * time.Second,
		},
		logger: logger,
	}
	if cfg.APIKeyEnv != "" {
		c.apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Triage asks the engine which findings may combine.
func (c *Client) Triage(ctx context.Context, req ports.TriageRequest) (*ports.TriageResponse, error) {
	var resp ports.TriageResponse
	if err := c.call(ctx, triagePath, req.RequestID, req, &resp); err != nil {
		return nil, err
	}
	if resp.IDs == nil {
		resp.IDs = []string{}
	}
	return &resp, nil
}

// Deep asks the engine to build chains from the triaged findings.
func (c *Client) Deep(ctx context.Context, req ports.DeepRequest) (*ports.DeepResponse, error) {
	var resp ports.DeepResponse
	if err := c.call(ctx, deepPath, req.RequestID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) call(ctx context.Context, path, requestID string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return zerr.Wrap(err, domain.ErrEngineRequestFailed.Error())
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return zerr.Wrap(err, domain.ErrEngineRequestFailed.Error())
		}

		lastErr = c.do(ctx, path, requestID, body, out)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) || ctx.Err() != nil || attempt == c.retry.MaxAttempts {
			break
		}

		backoff := c.backoff(attempt)
		c.logger.Debug("engine request failed, retrying",
			"path", path,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", lastErr.Error())

		select {
		case <-ctx.Done():
			return zerr.Wrap(ctx.Err(), domain.ErrEngineRequestFailed.Error())
		case <-time.After(backoff):
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, path, requestID string, body []byte, out any) error {
	target := c.endpoint.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return zerr.Wrap(err, domain.ErrEngineRequestFailed.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transient(zerr.With(zerr.Wrap(err, domain.ErrEngineRequestFailed.Error()), "path", path))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transient(zerr.Wrap(err, domain.ErrEngineRequestFailed.Error()))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := zerr.With(zerr.Wrap(statusDetail(resp.StatusCode, data), domain.ErrEngineStatus.Error()), "status", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return transient(statusErr)
		}
		return statusErr
	}

	obj := extractObject(data)
	if obj == nil {
		return zerr.With(zerr.Wrap(domain.ErrOrchestrationMalformedResponse, "no JSON object in response"), "path", path)
	}
	if err := json.Unmarshal(obj, out); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrOrchestrationMalformedResponse, err), "decode"), "path", path)
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.retry.BackoffBase << (attempt - 1)
	if c.retry.MaxBackoff > 0 && (d > c.retry.MaxBackoff || d <= 0) {
		d = c.retry.MaxBackoff
	}
	return d
}

func statusDetail(code int, body []byte) error {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return zerr.New(http.StatusText(code))
	}
	return zerr.New(fmt.Sprintf("%d %s", code, text))
}
