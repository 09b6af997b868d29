// Package apierrors provides shared error types for the PayPal client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnauthorized is returned when the API credentials are rejected.
	ErrUnauthorized = errors.New("invalid or expired API credentials")

	// ErrPermissionDenied is returned when the caller lacks a permission
	// grant for the requested operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServiceUnavailable is returned when PayPal keeps answering with a
	// 5xx status after all retries.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// APIError represents an HTTP error status returned by PayPal.
type APIError struct {
	StatusCode    int
	Message       string
	ErrorID       string
	CorrelationID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.ErrorID != "" {
		msg += fmt.Sprintf(" (error_id: %s)", e.ErrorID)
	}
	if e.CorrelationID != "" {
		msg += fmt.Sprintf(" (correlation_id: %s)", e.CorrelationID)
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401:
		return target == ErrUnauthorized
	case e.StatusCode == 403:
		return target == ErrPermissionDenied
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrServiceUnavailable
	}
	return false
}

// NetworkError represents a transport failure: the request never produced
// an HTTP response.
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
