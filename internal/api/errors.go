package api

import (
	"encoding/json"
	"strings"

	"github.com/brstrat/paypal-go/internal/apierrors"
	"github.com/brstrat/paypal-go/nvp"
)

// debugIDHeader carries PayPal's correlation id on error responses.
const debugIDHeader = "Paypal-Debug-Id"

// parseErrorResponse builds an APIError from a JSON envelope, an NVP body
// or, failing both, the raw body text.
func parseErrorResponse(resp *Response) error {
	apiErr := &apierrors.APIError{
		StatusCode:    resp.StatusCode,
		CorrelationID: resp.Header.Get(debugIDHeader),
	}

	var envelope struct {
		ResponseEnvelope struct {
			CorrelationID string `json:"correlationId"`
		} `json:"responseEnvelope"`
		Error []struct {
			ErrorID string `json:"errorId"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err == nil {
		if len(envelope.Error) > 0 {
			apiErr.Message = envelope.Error[0].Message
			apiErr.ErrorID = envelope.Error[0].ErrorID
		}
		if envelope.ResponseEnvelope.CorrelationID != "" {
			apiErr.CorrelationID = envelope.ResponseEnvelope.CorrelationID
		}
		if apiErr.Message != "" {
			return apiErr
		}
	}

	record := nvp.DecodeBytes(resp.Body)
	if msg, ok := record.Get("L_LONGMESSAGE0"); ok {
		apiErr.Message = msg
		apiErr.ErrorID, _ = record.Get("L_ERRORCODE0")
		if id, ok := record.Get("CORRELATIONID"); ok {
			apiErr.CorrelationID = id
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(resp.Body))
	return apiErr
}
