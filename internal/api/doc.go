// Package api provides the HTTP transport shared by the PayPal Adaptive
// Payments, Permissions and Merchant clients. It sends JSON and form
// encoded requests, reads the response body and retries transient
// failures with exponential backoff.
//
// Build a client with [NewClient] from a [Config], or with [New] and
// options. Authentication headers differ per PayPal API and are supplied by
// the caller on each [Request].
//
// # Retries
//
// Transport failures and the statuses in [DefaultRetryStatusCodes]
// (408, 429, 500, 502, 503 and 504) are retried up to [DefaultMaxRetries]
// times, waiting according to a [Backoff]. A response that arrives but
// cannot be parsed is never retried: the same body would come back.
//
// # Errors
//
// Statuses of 400 and above become [apierrors.APIError], with the message
// taken from a JSON error envelope or NVP L_LONGMESSAGE0 when present.
// Transport failures become [apierrors.NetworkError].
//
// A [Client] is safe for concurrent use.
package api
