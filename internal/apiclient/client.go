// Package apiclient talks to the people backend REST API.
//
// Every failure is returned as a *models.APIError so callers can switch on
// its Kind. Reads are retried with exponential backoff on network errors,
// timeouts and 5xx answers; writes are sent once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/config"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

// Backend endpoints, relative to the versioned base URL
const (
	authLoginPath     = "/auth/login"
	peoplePath        = "/people"
	nationalitiesPath = "/reference/nationalities"
	birthplacesPath   = "/reference/birthplaces"
)

// RetryConfig defines retry behavior for idempotent requests
type RetryConfig struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns sensible defaults for backend retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    2,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// UnauthorizedFunc is called whenever the backend answers 401
type UnauthorizedFunc func(ctx context.Context, apiErr *models.APIError)

// Client handles communication with the people backend
type Client struct {
	baseURL     string
	client      *http.Client
	logger      *logging.SafeLogger
	retryConfig RetryConfig

	mu             sync.RWMutex
	onUnauthorized UnauthorizedFunc
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetryConfig replaces the retry policy for reads
func WithRetryConfig(rc RetryConfig) Option {
	return func(c *Client) { c.retryConfig = rc }
}

// WithBaseURL points the client at another versioned base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// NewClient creates a backend client from cfg
func NewClient(cfg *config.Config, logger *logging.SafeLogger, opts ...Option) *Client {
	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.APIMaxRetries

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Logger
	}

	c := &Client{
		baseURL: cfg.BackendURL(),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:      logger.Named("apiclient"),
		retryConfig: retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers the handler run on every 401 answer. Register it
// at startup, before the client is shared.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// request describes one backend call
type request struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      interface{}
}

// do sends req and decodes a successful answer into out (when non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	ctx, span, end := utils.TraceBackendRequest(ctx, req.method, req.path)
	defer end()
	utils.AddSpanAttribute(span, "backend.operation", req.operation)

	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			utils.RecordErrorInSpan(span, err, nil)
			return fmt.Errorf("failed to encode %s request: %w", req.operation, err)
		}
	}

	send := func() error {
		return c.send(ctx, req, payload, out)
	}

	var err error
	if req.method == http.MethodGet {
		err = c.withRetry(ctx, req.operation, send)
	} else {
		err = send()
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"backend.path": req.path})
	}
	return err
}

// send performs a single attempt
func (c *Client) send(ctx context.Context, req request, payload []byte, out interface{}) error {
	start := time.Now()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", req.operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(httpReq)
	observability.BackendDuration.WithLabelValues(req.operation).Observe(time.Since(start).Seconds())
	if err != nil {
		apiErr := classifyTransportError(err)
		apiErr.Path = req.path
		observability.BackendRequests.WithLabelValues(req.operation, string(apiErr.Kind)).Inc()
		return apiErr
	}
	defer resp.Body.Close()

	observability.BackendRequests.WithLabelValues(req.operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeErrorResponse(resp, req.path)
		c.logger.Debug("backend returned error",
			zap.String("operation", req.operation),
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", apiErr.ErrorType))
		if apiErr.Kind == models.KindUnauthorized {
			c.unauthorized(ctx, apiErr)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &models.APIError{
			Kind:       models.KindHTTP,
			StatusCode: resp.StatusCode,
			ErrorType:  models.ErrTypeUnknown,
			Path:       req.path,
			Err:        fmt.Errorf("failed to decode %s response: %w", req.operation, err),
		}
	}
	return nil
}

func (c *Client) unauthorized(ctx context.Context, apiErr *models.APIError) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx, apiErr)
	}
}

// withRetry executes fn with exponential backoff while the error is retryable
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.retryConfig.BaseDelay) * math.Pow(c.retryConfig.BackoffFactor, float64(attempt-1)))
			if delay > c.retryConfig.MaxDelay {
				delay = c.retryConfig.MaxDelay
			}

			c.logger.Debug("retrying backend operation",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 0 {
				c.logger.Info("backend operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempts", attempt+1))
			}
			return nil
		}

		if ctx.Err() != nil || !isRetryableError(lastErr) {
			return lastErr
		}

		c.logger.Warn("backend operation failed, will retry",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.retryConfig.MaxRetries),
			zap.Error(lastErr))
	}

	c.logger.Error("backend operation failed after all retries",
		zap.String("operation", operation),
		zap.Int("total_attempts", c.retryConfig.MaxRetries+1),
		zap.Error(lastErr))

	return lastErr
}

// isRetryableError reports whether a read may succeed on a later attempt
func isRetryableError(err error) bool {
	apiErr, ok := models.AsAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.Kind {
	case models.KindNetwork, models.KindTimeout:
		return !errors.Is(apiErr, context.Canceled)
	case models.KindHTTP:
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// classifyTransportError maps a failed round trip to the timeout or network kind
func classifyTransportError(err error) *models.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.NewTimeoutError(err)
	}
	return models.NewNetworkError(err)
}

// decodeErrorResponse turns an error answer into an APIError. Bodies that are
// not the backend error payload still yield an error with the HTTP status.
func decodeErrorResponse(resp *http.Response, path string) *models.APIError {
	var payload models.APIErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &payload); err != nil {
		payload = models.APIErrorResponse{}
	}
	if len(payload.Message) == 0 {
		payload.Message = []string{http.StatusText(resp.StatusCode)}
	}
	if payload.Path == "" {
		payload.Path = path
	}
	return models.NewAPIErrorFromResponse(resp.StatusCode, payload)
}
