package paypal

import (
	"context"
	"errors"
	"time"

	"github.com/brstrat/paypal-go/internal/api"
)

const (
	pollMaxBackoff        = 30 * time.Second
	pollBackoffMultiplier = 1.5
	pollJitterFactor      = 0.3
)

// WaitForPayment polls PaymentDetails until the payment leaves the
// CREATED, PROCESSING and PENDING states, for example after the sender was
// redirected to approve it. It returns the last details seen.
//
// Example:
//
//	details, err := client.AdaptivePayments().WaitForPayment(ctx,
//	    &paypal.PaymentDetailsRequest{PayKey: payKey},
//	    paypal.WithWaitTimeout(10*time.Minute),
//	)
//	if err == nil && details.Status == paypal.PaymentCompleted {
//	    // ship it
//	}
func (s *AdaptivePaymentsService) WaitForPayment(ctx context.Context, req *PaymentDetailsRequest, opts ...WaitOption) (*PaymentDetailsResponse, error) {
	if req == nil {
		req = &PaymentDetailsRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return poll(ctx, opts, func(ctx context.Context) (*PaymentDetailsResponse, error) {
		return s.PaymentDetails(ctx, req)
	}, func(r *PaymentDetailsResponse) bool {
		switch r.Status {
		case PaymentCreated, PaymentProcessing, PaymentPending:
			return false
		}
		return true
	})
}

// WaitForPreapproval polls PreapprovalDetails until the preapproval is
// approved, canceled or deactivated. Check Approved on the result.
func (s *AdaptivePaymentsService) WaitForPreapproval(ctx context.Context, preapprovalKey string, opts ...WaitOption) (*PreapprovalDetailsResponse, error) {
	if err := preapprovalKeyRequired(preapprovalKey); err != nil {
		return nil, err
	}
	return poll(ctx, opts, func(ctx context.Context) (*PreapprovalDetailsResponse, error) {
		return s.PreapprovalDetails(ctx, preapprovalKey)
	}, func(r *PreapprovalDetailsResponse) bool {
		return r.Approved() || r.Status == PreapprovalCanceled || r.Status == PreapprovalDeactivated
	})
}

type polledResponse interface {
	Err() error
}

// poll calls fetch until done reports true, backing off between calls while
// nothing changes. Transient transport errors are retried; any other error,
// including a Failure ack, ends the wait.
func poll[T polledResponse](ctx context.Context, opts []WaitOption, fetch func(context.Context) (T, error), done func(T) bool) (T, error) {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	backoff := api.Backoff{
		BaseDelay:  cfg.pollInterval,
		MaxDelay:   pollMaxBackoff,
		Multiplier: pollBackoffMultiplier,
		Jitter:     pollJitterFactor,
	}

	var zero T
	for attempt := 0; ; attempt++ {
		resp, err := fetch(ctx)
		switch {
		case err == nil:
			if ackErr := resp.Err(); ackErr != nil {
				return zero, ackErr
			}
			if done(resp) {
				return resp, nil
			}
		case ctx.Err() != nil:
			return zero, ctx.Err()
		case !transient(err):
			return zero, err
		}

		if err := backoff.Wait(ctx, attempt); err != nil {
			return zero, err
		}
	}
}

func transient(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrRateLimited)
}
