package paypal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brstrat/paypal-go/internal/apierrors"
	"github.com/brstrat/paypal-go/nvp"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingCredentials is returned when the configuration lacks a user
	// id, password or signature.
	ErrMissingCredentials = errors.New("PayPal API credentials are required")

	// ErrInvalidRequest is returned when request parameters fail local
	// validation. Nothing is sent to PayPal.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrResponseParse is returned when a response lacks a required field
	// or cannot be decoded.
	ErrResponseParse = errors.New("failed parsing PayPal response")

	// ErrAckFailure is returned by Err when PayPal acknowledged a call with
	// a non-success ack.
	ErrAckFailure = errors.New("PayPal reported a failure")

	// ErrUnauthorized is returned when PayPal rejects the API credentials.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrPermissionDenied is returned when a third-party permission grant
	// is missing.
	ErrPermissionDenied = apierrors.ErrPermissionDenied

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrServiceUnavailable is returned when PayPal answers with a 5xx
	// status.
	ErrServiceUnavailable = apierrors.ErrServiceUnavailable

	// ErrOrderViolation is returned when NVP array indices are out of order.
	ErrOrderViolation = nvp.ErrOrderViolation

	// ErrIndexOutOfRange is returned when an NVP array index is too large.
	// It is a kind of ErrOrderViolation.
	ErrIndexOutOfRange = nvp.ErrIndexOutOfRange

	// ErrMissingField is returned by typed accessors when a field is absent.
	ErrMissingField = nvp.ErrMissingField
)

// NVP decoding errors.
type (
	OrderViolationError = nvp.OrderViolationError
	IndexRangeError     = nvp.IndexRangeError
	MissingFieldError   = nvp.MissingFieldError
)

// PayPalError is implemented by all errors created by this package.
type PayPalError interface {
	error
	PayPalError() // marker method
}

// APIError represents an HTTP error status from PayPal.
type APIError struct {
	StatusCode    int
	Message       string
	ErrorID       string
	CorrelationID string
}

func (e *APIError) Error() string {
	return e.internal().Error()
}

func (e *APIError) internal() *apierrors.APIError {
	return &apierrors.APIError{
		StatusCode:    e.StatusCode,
		Message:       e.Message,
		ErrorID:       e.ErrorID,
		CorrelationID: e.CorrelationID,
	}
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return e.internal().Is(target)
}

// PayPalError implements the PayPalError interface.
func (e *APIError) PayPalError() {}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// PayPalError implements the PayPalError interface.
func (e *NetworkError) PayPalError() {}

// ConfigError lists every problem found by Config.Validate.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid PayPal configuration: " + strings.Join(e.Problems, "; ")
}

// Is matches ErrMissingCredentials when a credential is missing.
func (e *ConfigError) Is(target error) bool {
	if target != ErrMissingCredentials {
		return false
	}
	for _, p := range e.Problems {
		if p == "user id is required" || p == "password is required" || p == "signature is required" {
			return true
		}
	}
	return false
}

// PayPalError implements the PayPalError interface.
func (e *ConfigError) PayPalError() {}

// ValidationError contains multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Errors)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// PayPalError implements the PayPalError interface.
func (e *ValidationError) PayPalError() {}

// ResponseParseError reports a response that could not be turned into a
// result.
type ResponseParseError struct {
	Field string // missing or malformed field, if known
	Err   error
}

func (e *ResponseParseError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("failed parsing PayPal response: field %s: %v", e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("failed parsing PayPal response: missing field %s", e.Field)
	case e.Err != nil:
		return fmt.Sprintf("failed parsing PayPal response: %v", e.Err)
	}
	return "failed parsing PayPal response"
}

// Unwrap returns the underlying error.
func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ResponseParseError) Is(target error) bool {
	return target == ErrResponseParse
}

// PayPalError implements the PayPalError interface.
func (e *ResponseParseError) PayPalError() {}

// AckError is a well-formed response whose ack is not a success.
type AckError struct {
	Ack           string
	CorrelationID string
	Errors        []ErrorData
}

func (e *AckError) Error() string {
	msg := "PayPal ack " + e.Ack
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		if m := first.Text(); m != "" {
			msg += ": " + m
		}
		if first.ErrorID != "" {
			msg += fmt.Sprintf(" (error_id: %s)", first.ErrorID)
		}
	}
	if e.CorrelationID != "" {
		msg += fmt.Sprintf(" (correlation_id: %s)", e.CorrelationID)
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *AckError) Is(target error) bool {
	return target == ErrAckFailure
}

// PayPalError implements the PayPalError interface.
func (e *AckError) PayPalError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:    apiErr.StatusCode,
			Message:       apiErr.Message,
			ErrorID:       apiErr.ErrorID,
			CorrelationID: apiErr.CorrelationID,
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}

// missing returns the parse error for an absent required field.
func missing(field string) error {
	return &ResponseParseError{Field: field, Err: &nvp.MissingFieldError{Key: field}}
}
