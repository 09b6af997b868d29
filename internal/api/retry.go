package api

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"time"
)

// DefaultRetryStatusCodes are the statuses retried unless configured
// otherwise.
var DefaultRetryStatusCodes = []int{408, 429, 500, 502, 503, 504}

// Backoff computes exponentially growing delays with optional jitter. It
// paces both transport retries and status polling.
type Backoff struct {
	// BaseDelay is the delay before the first repeat.
	BaseDelay time.Duration
	// MaxDelay caps the delay.
	MaxDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
	// Jitter randomizes each delay by up to this fraction, in both
	// directions.
	Jitter float64
}

// Delay returns the delay after the given zero-based attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	delay := float64(b.BaseDelay) * math.Pow(b.Multiplier, float64(attempt))
	delay = math.Min(delay, float64(b.MaxDelay))

	if b.Jitter > 0 {
		spread := delay * b.Jitter
		delay += (rand.Float64()*2 - 1) * spread
	}
	return time.Duration(delay)
}

// Wait sleeps for Delay(attempt) or until ctx is done.
func (b Backoff) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(b.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryConfig decides which failed requests are sent again and when.
type RetryConfig struct {
	Backoff

	// MaxRetries is the number of repeats after the first attempt.
	MaxRetries int
	// RetryableOn reports whether a status code is worth retrying.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Backoff: Backoff{
			BaseDelay:  DefaultRetryDelay,
			MaxDelay:   30 * time.Second,
			Multiplier: 2.0,
			Jitter:     0.2,
		},
		MaxRetries:  DefaultMaxRetries,
		RetryableOn: RetryOnStatus(DefaultRetryStatusCodes...),
	}
}

// RetryOnStatus returns a predicate matching exactly the given codes.
func RetryOnStatus(codes ...int) func(int) bool {
	codes = slices.Clone(codes)
	return func(statusCode int) bool {
		return slices.Contains(codes, statusCode)
	}
}

// ShouldRetry determines if a request that got statusCode on the given
// zero-based attempt should be retried.
func (r *RetryConfig) ShouldRetry(attempt int, statusCode int) bool {
	if attempt >= r.MaxRetries {
		return false
	}
	return r.RetryableOn != nil && r.RetryableOn(statusCode)
}
