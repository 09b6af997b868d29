package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/brstrat/paypal-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 10 << 20
)

// Content types sent by the client.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Config holds the transport configuration.
type Config struct {
	// HTTPClient is used for all requests. When nil a client with Timeout
	// is created.
	HTTPClient *http.Client

	// Timeout applies to the default HTTP client. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Zero selects DefaultMaxRetries; a negative value disables retries.
	MaxRetries int

	// RetryDelay is the base delay between attempts. Default: 1s.
	RetryDelay time.Duration

	// RetryOn lists the HTTP status codes that are retried.
	// Default: 408, 429, 500, 502, 503, 504.
	RetryOn []int

	// Logger receives request and retry logs. Default: no-op.
	Logger *zap.Logger
}

// Client is the HTTP transport shared by every PayPal API.
type Client struct {
	httpClient *http.Client
	retry      *RetryConfig
	logger     *zap.Logger
}

// Request is a single API call.
type Request struct {
	Method      string
	URL         string
	Header      map[string]string
	ContentType string
	Body        []byte

	// NoRetry disables retries for this request.
	NoRetry bool
}

// Response is a successful (status < 400) API response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a transport from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("retry delay must not be negative")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retry := DefaultRetryConfig()
	switch {
	case cfg.MaxRetries > 0:
		retry.MaxRetries = cfg.MaxRetries
	case cfg.MaxRetries < 0:
		retry.MaxRetries = 0
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}
	if len(cfg.RetryOn) > 0 {
		retry.RetryableOn = RetryOnStatus(cfg.RetryOn...)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: httpClient,
		retry:      retry,
		logger:     logger,
	}, nil
}

// RequestOption adjusts a single request.
type RequestOption func(*Request)

// NoRetry sends the request at most once, whatever the retry configuration.
func NoRetry(r *Request) {
	r.NoRetry = true
}

// PostJSON sends body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, url string, header map[string]string, body interface{}, opts ...RequestOption) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req := Request{
		Method:      http.MethodPost,
		URL:         url,
		Header:      header,
		ContentType: ContentTypeJSON,
		Body:        data,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Do(ctx, req)
}

// PostForm sends form as an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, url string, header map[string]string, form url.Values, opts ...RequestOption) (*Response, error) {
	req := Request{
		Method:      http.MethodPost,
		URL:         url,
		Header:      header,
		ContentType: ContentTypeForm,
		Body:        []byte(form.Encode()),
	}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Do(ctx, req)
}

// Do sends req, retrying transport failures and retryable status codes
// with exponential backoff. Statuses of 400 and above that are not retried
// (or still fail after the last retry) are returned as *apierrors.APIError;
// transport failures as *apierrors.NetworkError. A request with NoRetry is
// sent exactly once.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	maxRetries := c.retry.MaxRetries
	if req.NoRetry {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		start := time.Now()
		resp, err := c.send(ctx, req)
		if err != nil {
			if ctx.Err() != nil || attempt >= maxRetries {
				return nil, &apierrors.NetworkError{Err: err, URL: req.URL, Attempt: attempt + 1}
			}
			c.logger.Warn("paypal request failed, retrying",
				zap.String("url", req.URL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if werr := c.retry.Wait(ctx, attempt); werr != nil {
				return nil, &apierrors.NetworkError{Err: werr, URL: req.URL, Attempt: attempt + 1}
			}
			continue
		}

		c.logger.Debug("paypal response",
			zap.String("url", req.URL),
			zap.Int("status_code", resp.StatusCode),
			zap.Int("body_length", len(resp.Body)),
			zap.Duration("elapsed", time.Since(start)),
		)

		if !req.NoRetry && c.retry.ShouldRetry(attempt, resp.StatusCode) {
			c.logger.Warn("paypal returned retryable status",
				zap.String("url", req.URL),
				zap.Int("status_code", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			if werr := c.retry.Wait(ctx, attempt); werr != nil {
				return nil, &apierrors.NetworkError{Err: werr, URL: req.URL, Attempt: attempt + 1}
			}
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, parseErrorResponse(resp)
		}
		return resp, nil
	}
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
