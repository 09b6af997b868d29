package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brstrat/paypal-go/internal/api"
	"github.com/brstrat/paypal-go/internal/oauth"
)

// Headers sent with every Adaptive Payments and Permissions call.
const (
	headerUserID         = "X-PAYPAL-SECURITY-USERID"
	headerPassword       = "X-PAYPAL-SECURITY-PASSWORD"
	headerSignature      = "X-PAYPAL-SECURITY-SIGNATURE"
	headerApplicationID  = "X-PAYPAL-APPLICATION-ID"
	headerRequestFormat  = "X-PAYPAL-REQUEST-DATA-FORMAT"
	headerResponseFormat = "X-PAYPAL-RESPONSE-DATA-FORMAT"
)

// Client calls the PayPal Adaptive Payments, Permissions and classic
// merchant APIs with one set of credentials. It is safe for concurrent use.
type Client struct {
	config    Config
	apiClient *api.Client
	logger    *zap.Logger

	now           func() time.Time
	newTrackingID func() string

	adaptive    *AdaptivePaymentsService
	permissions *PermissionsService
	merchant    *MerchantService
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	return api.NewClient(api.Config{
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.retries,
		RetryDelay: cfg.retryDelay,
		RetryOn:    cfg.retryOn,
		Logger:     cfg.logger,
	})
}

// New creates a client for the credentials and environment in config.
func New(config Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := &clientConfig{
		timeout:       defaultTimeout,
		logger:        zap.NewNop(),
		now:           time.Now,
		newTrackingID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:        config,
		apiClient:     apiClient,
		logger:        cfg.logger.With(zap.String("environment", config.Environment.Name)),
		now:           cfg.now,
		newTrackingID: cfg.newTrackingID,
	}
	c.adaptive = &AdaptivePaymentsService{client: c}
	c.permissions = &PermissionsService{client: c}
	c.merchant = &MerchantService{client: c}
	return c, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// AdaptivePayments returns the Adaptive Payments API.
func (c *Client) AdaptivePayments() *AdaptivePaymentsService {
	return c.adaptive
}

// Permissions returns the Permissions API.
func (c *Client) Permissions() *PermissionsService {
	return c.permissions
}

// Merchant returns the classic NVP merchant API.
func (c *Client) Merchant() *MerchantService {
	return c.merchant
}

func (c *Client) serviceHeaders() map[string]string {
	return map[string]string{
		headerUserID:         c.config.UserID,
		headerPassword:       c.config.Password,
		headerSignature:      c.config.Signature,
		headerApplicationID:  c.config.AppID(),
		headerRequestFormat:  "JSON",
		headerResponseFormat: "JSON",
	}
}

// jsonResult is implemented by every JSON response type through its
// embedded JSONResponse.
type jsonResult interface {
	envelope() *JSONResponse
	Success() bool
}

// postJSON sends body to one of the JSON services and decodes the
// validated response into out.
func (c *Client) postJSON(ctx context.Context, operation, endpoint string, body any, out jsonResult, opts ...api.RequestOption) error {
	resp, err := c.apiClient.PostJSON(ctx, endpoint, c.serviceHeaders(), body, opts...)
	if err != nil {
		return wrapError(err)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &ResponseParseError{Err: err}
	}
	env := out.envelope()
	if err := env.validate(); err != nil {
		c.logger.Error("invalid paypal response", zap.String("operation", operation), zap.Error(err))
		return err
	}

	c.logResponse(operation, env.Ack(), env.CorrelationID(), env.Timestamp(), out.Success(), resp.Body)
	return nil
}

// postNVP sends params to the classic NVP endpoint, signed with the
// permission token of the account being acted on.
func (c *Client) postNVP(ctx context.Context, operation string, token Token, params url.Values) (*NVPResponse, error) {
	endpoint := c.config.Environment.Merchant.NVP
	signer := oauth.Signer{
		Credentials: oauth.Credentials{
			ConsumerKey:    c.config.UserID,
			ConsumerSecret: c.config.Password,
			Token:          token.Token,
			TokenSecret:    token.Secret,
		},
		Now: c.now,
	}
	header := map[string]string{
		oauth.HeaderName: signer.Sign(http.MethodPost, endpoint),
	}

	resp, err := c.apiClient.PostForm(ctx, endpoint, header, params)
	if err != nil {
		return nil, wrapError(err)
	}

	r, err := ParseNVPResponse(resp.Body)
	if err != nil {
		c.logger.Error("invalid paypal response", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}

	c.logResponse(operation, r.Ack(), r.CorrelationID(), r.Timestamp(), r.Success(), resp.Body)
	return r, nil
}

func (c *Client) logResponse(operation, ack, correlationID, timestamp string, success bool, body []byte) {
	if !success {
		c.logger.Error("error in paypal response",
			zap.String("operation", operation),
			zap.String("ack", ack),
			zap.ByteString("body", body),
		)
	} else {
		c.logger.Debug("successful paypal response",
			zap.String("operation", operation),
			zap.ByteString("body", body),
		)
	}
	c.logger.Info("paypal call completed",
		zap.String("operation", operation),
		zap.String("ack", ack),
		zap.String("correlation_id", correlationID),
		zap.String("timestamp", timestamp),
	)
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// SetDefaultClient installs c as the client returned by DefaultClient.
// Passing nil clears it.
func SetDefaultClient(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// DefaultClient returns the process-wide client. When none was installed
// it is created once from the PAYPAL_* environment variables.
func DefaultClient() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		return defaultClient, nil
	}
	config, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	defaultClient = c
	return c, nil
}
