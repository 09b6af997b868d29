package paypal

import (
	"iter"
	"strings"

	"github.com/brstrat/paypal-go/nvp"
)

// Ack values returned by PayPal.
const (
	AckSuccess            = "Success"
	AckSuccessWithWarning = "SuccessWithWarning"
	AckFailure            = "Failure"
	AckFailureWithWarning = "FailureWithWarning"
	AckWarning            = "Warning"
)

func ackSucceeded(ack string) bool {
	return ack == AckSuccess || ack == AckSuccessWithWarning
}

// ErrorData is one entry of a response error list.
type ErrorData struct {
	ErrorID      string   `json:"errorId"`
	Domain       string   `json:"domain,omitempty"`
	Subdomain    string   `json:"subdomain,omitempty"`
	Severity     string   `json:"severity,omitempty"`
	Category     string   `json:"category,omitempty"`
	Message      string   `json:"message,omitempty"`
	ShortMessage string   `json:"-"`
	Parameter    []string `json:"parameter,omitempty"`
}

// Text returns the most descriptive message available.
func (e ErrorData) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ShortMessage
}

// ResponseEnvelope is the common header of every JSON response.
type ResponseEnvelope struct {
	Ack           string `json:"ack"`
	CorrelationID string `json:"correlationId"`
	Timestamp     string `json:"timestamp"`
	Build         string `json:"build"`
}

// JSONResponse holds the fields shared by Adaptive Payments and Permissions
// responses. It is embedded in every typed response.
type JSONResponse struct {
	ResponseEnvelope *ResponseEnvelope `json:"responseEnvelope"`
	ErrorList        []ErrorData       `json:"error,omitempty"`
}

func (r *JSONResponse) envelope() *JSONResponse {
	return r
}

// validate checks the envelope fields every successful parse must carry.
func (r *JSONResponse) validate() error {
	if r.ResponseEnvelope == nil {
		return missing("responseEnvelope")
	}
	if r.ResponseEnvelope.Ack == "" {
		return missing("responseEnvelope.ack")
	}
	if r.ResponseEnvelope.CorrelationID == "" {
		return missing("responseEnvelope.correlationId")
	}
	if r.ResponseEnvelope.Timestamp == "" {
		return missing("responseEnvelope.timestamp")
	}
	return nil
}

// Ack returns the envelope's ack.
func (r *JSONResponse) Ack() string {
	if r.ResponseEnvelope == nil {
		return ""
	}
	return r.ResponseEnvelope.Ack
}

// CorrelationID returns the id PayPal support uses to find the call.
func (r *JSONResponse) CorrelationID() string {
	if r.ResponseEnvelope == nil {
		return ""
	}
	return r.ResponseEnvelope.CorrelationID
}

// Timestamp returns the envelope timestamp as sent.
func (r *JSONResponse) Timestamp() string {
	if r.ResponseEnvelope == nil {
		return ""
	}
	return r.ResponseEnvelope.Timestamp
}

// Success reports whether the ack is Success or SuccessWithWarning.
func (r *JSONResponse) Success() bool {
	return ackSucceeded(r.Ack())
}

// Errors returns the response's error list.
func (r *JSONResponse) Errors() []ErrorData {
	return r.ErrorList
}

// Err returns an *AckError when the call did not succeed.
func (r *JSONResponse) Err() error {
	if r.Success() {
		return nil
	}
	return &AckError{Ack: r.Ack(), CorrelationID: r.CorrelationID(), Errors: r.ErrorList}
}

// Keys of the classic NVP response envelope.
const (
	nvpAck           = "ACK"
	nvpCorrelationID = "CORRELATIONID"
	nvpTimestamp     = "TIMESTAMP"
	nvpVersion       = "VERSION"
	nvpBuild         = "BUILD"
)

var nvpRequired = []string{nvpAck, nvpCorrelationID, nvpTimestamp}

// NVPResponse is a classic API response. The envelope is checked when the
// response is parsed; array fields are grouped on first use.
type NVPResponse struct {
	record *nvp.Record
}

// ParseNVPResponse decodes a name-value-pair body and checks that the
// envelope keys are present.
func ParseNVPResponse(body []byte) (*NVPResponse, error) {
	r := &NVPResponse{record: nvp.DecodeBytes(body)}
	for _, key := range nvpRequired {
		if _, ok := r.record.Get(key); !ok {
			return nil, missing(key)
		}
	}
	return r, nil
}

// Ack returns the ACK field.
func (r *NVPResponse) Ack() string {
	v, _ := r.record.Get(nvpAck)
	return v
}

// CorrelationID returns the CORRELATIONID field.
func (r *NVPResponse) CorrelationID() string {
	v, _ := r.record.Get(nvpCorrelationID)
	return v
}

// Timestamp returns the TIMESTAMP field as sent.
func (r *NVPResponse) Timestamp() string {
	v, _ := r.record.Get(nvpTimestamp)
	return v
}

// Version returns the VERSION field, or "" when PayPal left it out.
func (r *NVPResponse) Version() string {
	v, _ := r.record.Get(nvpVersion)
	return v
}

// Build returns the BUILD field, or "" when PayPal left it out.
func (r *NVPResponse) Build() string {
	v, _ := r.record.Get(nvpBuild)
	return v
}

// Success reports whether the ack is Success or SuccessWithWarning.
func (r *NVPResponse) Success() bool {
	return ackSucceeded(r.Ack())
}

// Get returns a raw field.
func (r *NVPResponse) Get(key string) (string, bool) {
	return r.record.Get(key)
}

// Lookup returns a raw field or a parse error naming it.
func (r *NVPResponse) Lookup(key string) (string, error) {
	v, ok := r.record.Get(key)
	if !ok {
		return "", missing(key)
	}
	return v, nil
}

// Record returns the decoded pairs.
func (r *NVPResponse) Record() *nvp.Record {
	return r.record
}

// Collapsed returns the response with array fields grouped. The result is
// computed once and shared.
func (r *NVPResponse) Collapsed() (*nvp.Collapsed, error) {
	c, err := r.record.Collapse()
	if err != nil {
		return nil, &ResponseParseError{Err: err}
	}
	return c, nil
}

// Records zips every array field of the response.
func (r *NVPResponse) Records() (iter.Seq[nvp.Entry], error) {
	c, err := r.Collapsed()
	if err != nil {
		return nil, err
	}
	return c.Zip(), nil
}

// Errors returns the L_ERRORCODE/L_SHORTMESSAGE/L_LONGMESSAGE/
// L_SEVERITYCODE lists as error entries.
func (r *NVPResponse) Errors() ([]ErrorData, error) {
	c, err := r.Collapsed()
	if err != nil {
		return nil, err
	}
	var out []ErrorData
	for e := range c.ZipFields("ERRORCODE", "SHORTMESSAGE", "LONGMESSAGE", "SEVERITYCODE") {
		code, _ := e.Get("ERRORCODE")
		short, _ := e.Get("SHORTMESSAGE")
		long, _ := e.Get("LONGMESSAGE")
		severity, _ := e.Get("SEVERITYCODE")
		out = append(out, ErrorData{
			ErrorID:      code,
			Severity:     severity,
			Message:      strings.TrimSpace(long),
			ShortMessage: strings.TrimSpace(short),
		})
	}
	return out, nil
}

// Err returns an *AckError when the call did not succeed, or a parse error
// when the error lists are malformed.
func (r *NVPResponse) Err() error {
	if r.Success() {
		return nil
	}
	errs, err := r.Errors()
	if err != nil {
		return err
	}
	return &AckError{Ack: r.Ack(), CorrelationID: r.CorrelationID(), Errors: errs}
}

// MarshalJSON renders the collapsed response, or the flat pairs when the
// arrays cannot be grouped.
func (r *NVPResponse) MarshalJSON() ([]byte, error) {
	if c, err := r.record.Collapse(); err == nil {
		return c.MarshalJSON()
	}
	return r.record.MarshalJSON()
}
