package paypal

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultCurrency = "USD"
	defaultLanguage = "en_US"

	// merchantAPIVersion is the classic NVP API version sent as VERSION.
	merchantAPIVersion = "119"

	defaultWaitTimeout  = 5 * time.Minute
	defaultPollInterval = 2 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	retryOn    []int
	logger     *zap.Logger

	now           func() time.Time
	newTrackingID func() string
}

// Option configures the client.
type Option func(*clientConfig)

// waitConfig holds configuration for WaitForPayment and WaitForPreapproval.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// WaitOption configures waiting.
type WaitOption func(*waitConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout. It is ignored when WithHTTPClient is
// also given.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls. A negative count
// disables retries.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryDelay sets the base delay of the exponential retry backoff.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		c.retryDelay = delay
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithLogger sets the logger used for requests and responses.
// Default: no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// withClock overrides the time source of OAuth signatures.
func withClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		c.now = now
	}
}

// withTrackingIDs overrides the generator of default tracking ids.
func withTrackingIDs(next func() string) Option {
	return func(c *clientConfig) {
		c.newTrackingID = next
	}
}

// WithWaitTimeout sets the timeout for waiting.
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the initial polling interval.
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}
