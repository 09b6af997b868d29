package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brstrat/paypal-go/internal/api"
)

// ActionPay is the only Pay action type used by this package.
const ActionPay = "PAY"

// Payment statuses reported by PaymentDetails.
const (
	PaymentCreated       = "CREATED"
	PaymentProcessing    = "PROCESSING"
	PaymentPending       = "PENDING"
	PaymentCompleted     = "COMPLETED"
	PaymentIncomplete    = "INCOMPLETE"
	PaymentError         = "ERROR"
	PaymentReversalError = "REVERSALERROR"
)

// Preapproval statuses.
const (
	PreapprovalActive      = "ACTIVE"
	PreapprovalCanceled    = "CANCELED"
	PreapprovalDeactivated = "DEACTIVED"
)

// AdaptivePaymentsService calls the Adaptive Payments API.
type AdaptivePaymentsService struct {
	client *Client
}

type requestEnvelope struct {
	ErrorLanguage string `json:"errorLanguage"`
	DetailLevel   string `json:"detailLevel"`
}

func defaultEnvelope() requestEnvelope {
	return requestEnvelope{ErrorLanguage: defaultLanguage, DetailLevel: "ReturnAll"}
}

// PayRequest describes a payment from a sender to up to six receivers.
//
// By default the sender must be redirected to PayPal to authorize the
// payment (see PayResponse.RedirectURL). With a PreapprovalKey the sender
// has authorized it in advance; with Implicit the API caller is the sender.
// In both cases the payment details are available immediately.
type PayRequest struct {
	Receivers []Receiver

	ReturnURL          string
	CancelURL          string
	IPNNotificationURL string

	Memo string

	// TrackingID identifies the payment for PaymentDetails lookups.
	// A UUID is generated when empty.
	TrackingID string

	CustomerID                        string
	CurrencyCode                      string // default USD
	ReverseAllParallelPaymentsOnError bool

	PreapprovalKey string
	Implicit       bool

	// SenderEmail is the sender of an implicit payment. Defaults to the
	// configured user id.
	SenderEmail string
}

// Validate checks the request without contacting PayPal.
func (r *PayRequest) Validate() error {
	var problems []string
	if len(r.Receivers) == 0 {
		problems = append(problems, "receivers must not be empty")
	}
	if len(r.Receivers) > MaxReceivers {
		problems = append(problems, fmt.Sprintf("you can send to a maximum of %d receivers", MaxReceivers))
	}
	if numberOfPrimary(r.Receivers) > 1 {
		problems = append(problems, "you can have maximum 1 primary receiver")
	}
	if r.PreapprovalKey != "" && r.Implicit {
		problems = append(problems, "preapproval key and implicit payment cannot be specified at the same time")
	}
	for _, recv := range r.Receivers {
		problems = append(problems, recv.validate()...)
	}
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

func (r *PayRequest) approved() bool {
	return r.Implicit || r.PreapprovalKey != ""
}

type payPayload struct {
	ReceiverList struct {
		Receiver []Receiver `json:"receiver"`
	} `json:"receiverList"`

	ReturnURL          string `json:"returnUrl,omitempty"`
	CancelURL          string `json:"cancelUrl,omitempty"`
	IPNNotificationURL string `json:"ipnNotificationUrl,omitempty"`
	Memo               string `json:"memo,omitempty"`
	TrackingID         string `json:"trackingId,omitempty"`

	ReverseAllParallelPaymentsOnError bool `json:"reverseAllParallelPaymentsOnError,omitempty"`

	ActionType      string          `json:"actionType"`
	CurrencyCode    string          `json:"currencyCode"`
	RequestEnvelope requestEnvelope `json:"requestEnvelope"`

	SenderEmail    string         `json:"senderEmail,omitempty"`
	PreapprovalKey string         `json:"preapprovalKey,omitempty"`
	ClientDetails  *clientDetails `json:"clientDetails,omitempty"`
}

type clientDetails struct {
	CustomerID string `json:"customerId"`
}

// Pay creates a payment. For preapproved and implicit payments the payment
// details are attached to the response, fetched with PaymentDetails when
// the Pay response does not carry them.
//
// The Pay call is sent once; transport retries do not apply to it.
func (s *AdaptivePaymentsService) Pay(ctx context.Context, req *PayRequest) (*PayResponse, error) {
	req = copyPayRequest(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := s.client
	payload := payPayload{
		ReturnURL:                         req.ReturnURL,
		CancelURL:                         req.CancelURL,
		IPNNotificationURL:                req.IPNNotificationURL,
		Memo:                              req.Memo,
		TrackingID:                        req.TrackingID,
		ReverseAllParallelPaymentsOnError: req.ReverseAllParallelPaymentsOnError,
		ActionType:                        ActionPay,
		CurrencyCode:                      currencyOrDefault(req.CurrencyCode),
		RequestEnvelope:                   defaultEnvelope(),
		PreapprovalKey:                    req.PreapprovalKey,
	}
	payload.ReceiverList.Receiver = req.Receivers
	if payload.TrackingID == "" {
		payload.TrackingID = c.newTrackingID()
	}
	if req.Implicit {
		payload.SenderEmail = req.SenderEmail
		if payload.SenderEmail == "" {
			payload.SenderEmail = c.config.UserID
		}
	}
	if req.CustomerID != "" {
		payload.ClientDetails = &clientDetails{CustomerID: req.CustomerID}
	}

	resp := &PayResponse{}
	if err := c.postJSON(ctx, "Pay", c.config.Environment.AdaptivePayments.Pay, payload, resp, api.NoRetry); err != nil {
		return nil, err
	}
	resp.trackingID = payload.TrackingID
	resp.redirect = c.config.Environment.AdaptivePayments.AuthorizationRedirect

	if req.approved() && resp.details == nil && resp.Success() {
		payKey, err := resp.PayKey()
		if err != nil {
			return nil, err
		}
		details, err := s.PaymentDetails(ctx, &PaymentDetailsRequest{PayKey: payKey})
		if err != nil {
			return nil, fmt.Errorf("fetch payment details: %w", err)
		}
		resp.details = details
	}
	return resp, nil
}

// PaySimple sends a single payment to a single receiver.
//
//	sender -> receiver
func (s *AdaptivePaymentsService) PaySimple(ctx context.Context, receiver Receiver, req *PayRequest) (*PayResponse, error) {
	r := copyPayRequest(req)
	r.Receivers = []Receiver{receiver}
	return s.Pay(ctx, r)
}

// PayParallel sends one payment split between several receivers.
//
//	sender -> receivers
func (s *AdaptivePaymentsService) PayParallel(ctx context.Context, receivers []Receiver, req *PayRequest) (*PayResponse, error) {
	r := copyPayRequest(req)
	r.Receivers = receivers
	return s.Pay(ctx, r)
}

// PayChained sends a payment to a primary receiver, who pays the secondary
// receivers. Exactly one receiver must be primary.
//
//	sender -> primary receiver -> secondary receivers
func (s *AdaptivePaymentsService) PayChained(ctx context.Context, receivers []Receiver, req *PayRequest) (*PayResponse, error) {
	if numberOfPrimary(receivers) < 1 {
		return nil, &ValidationError{Errors: []string{
			"you must specify one primary receiver to use chained payments",
		}}
	}
	r := copyPayRequest(req)
	r.Receivers = receivers
	return s.Pay(ctx, r)
}

func copyPayRequest(req *PayRequest) *PayRequest {
	if req == nil {
		return &PayRequest{}
	}
	r := *req
	return &r
}

func currencyOrDefault(code string) string {
	if code == "" {
		return defaultCurrency
	}
	return code
}

// PayError is a per-receiver failure of a Pay call.
type PayError struct {
	Receiver ReceiverInfo `json:"receiver"`
	Error    ErrorData    `json:"error"`
}

type payErrorList struct {
	PayError []PayError `json:"payError"`
}

// PayResponse is the result of Pay.
type PayResponse struct {
	JSONResponse

	PaymentExecStatus string
	PayErrors         []PayError

	payKey       *string
	hasPayErrors bool
	details      *PaymentDetailsResponse
	trackingID   string
	redirect     string
}

// UnmarshalJSON decodes the response and, when the payment information is
// inline, its payment details.
func (r *PayResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		JSONResponse
		PayKey            *string         `json:"payKey"`
		PaymentExecStatus string          `json:"paymentExecStatus"`
		PayErrorList      *payErrorList   `json:"payErrorList"`
		PaymentInfoList   json.RawMessage `json:"paymentInfoList"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.JSONResponse = wire.JSONResponse
	r.payKey = wire.PayKey
	r.PaymentExecStatus = wire.PaymentExecStatus
	if wire.PayErrorList != nil {
		r.hasPayErrors = true
		r.PayErrors = wire.PayErrorList.PayError
	}
	if len(wire.PaymentInfoList) > 0 && string(wire.PaymentInfoList) != "null" {
		details := &PaymentDetailsResponse{}
		if err := json.Unmarshal(data, details); err != nil {
			return err
		}
		r.details = details
	}
	return nil
}

// PayKey returns the key identifying the payment.
func (r *PayResponse) PayKey() (string, error) {
	return required("payKey", r.payKey)
}

// TrackingID returns the tracking id sent with the request.
func (r *PayResponse) TrackingID() string {
	return r.trackingID
}

// Success reports an acknowledged call with no per-receiver errors.
func (r *PayResponse) Success() bool {
	return r.JSONResponse.Success() && !r.hasPayErrors
}

// Err returns an *AckError when the call or any receiver payment failed.
func (r *PayResponse) Err() error {
	if r.Success() {
		return nil
	}
	errs := slices.Clone(r.ErrorList)
	for _, pe := range r.PayErrors {
		errs = append(errs, pe.Error)
	}
	return &AckError{Ack: r.Ack(), CorrelationID: r.CorrelationID(), Errors: errs}
}

// PaymentDetails returns the details of a completed payment. ok is false
// when the sender still has to authorize it.
func (r *PayResponse) PaymentDetails() (details *PaymentDetailsResponse, ok bool) {
	return r.details, r.details != nil
}

// RedirectURL returns the URL the sender must visit to authorize the
// payment, or "" when no authorization is needed.
func (r *PayResponse) RedirectURL() (string, error) {
	if r.details != nil {
		return "", nil
	}
	key, err := r.PayKey()
	if err != nil {
		return "", err
	}
	return r.redirect + "&paykey=" + url.QueryEscape(key), nil
}

// PaymentDetailsRequest selects a payment by pay key or tracking id. A
// transaction id narrows the result to one transaction.
type PaymentDetailsRequest struct {
	PayKey        string
	TrackingID    string
	TransactionID string
}

// Validate checks the request without contacting PayPal.
func (r *PaymentDetailsRequest) Validate() error {
	if r.PayKey == "" && r.TrackingID == "" && r.TransactionID == "" {
		return &ValidationError{Errors: []string{"one of pay key, tracking id or transaction id is required"}}
	}
	return nil
}

// PaymentDetails retrieves a payment.
func (s *AdaptivePaymentsService) PaymentDetails(ctx context.Context, req *PaymentDetailsRequest) (*PaymentDetailsResponse, error) {
	if req == nil {
		req = &PaymentDetailsRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload := struct {
		PayKey          string          `json:"payKey,omitempty"`
		TrackingID      string          `json:"trackingId,omitempty"`
		TransactionID   string          `json:"transactionId,omitempty"`
		RequestEnvelope requestEnvelope `json:"requestEnvelope"`
	}{req.PayKey, req.TrackingID, req.TransactionID, defaultEnvelope()}

	c := s.client
	resp := &PaymentDetailsResponse{}
	if err := c.postJSON(ctx, "PaymentDetails", c.config.Environment.AdaptivePayments.PaymentDetails, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PaymentInfo is one transaction of a payment.
type PaymentInfo struct {
	TransactionID           string              `json:"transactionId"`
	TransactionStatus       string              `json:"transactionStatus"`
	Receiver                ReceiverInfo        `json:"receiver"`
	RefundedAmount          decimal.NullDecimal `json:"refundedAmount"`
	PendingRefund           Flag                `json:"pendingRefund"`
	SenderTransactionID     string              `json:"senderTransactionId"`
	SenderTransactionStatus string              `json:"senderTransactionStatus"`
	PendingReason           string              `json:"pendingReason"`
}

type paymentInfoList struct {
	PaymentInfo []PaymentInfo `json:"paymentInfo"`
}

// PaymentDetailsResponse is the result of PaymentDetails.
type PaymentDetailsResponse struct {
	JSONResponse

	Status       string
	Memo         string
	TrackingID   string
	CurrencyCode string
	SenderEmail  string
	ActionType   string

	payKey   *string
	payments *[]PaymentInfo
}

type paymentDetailsWire struct {
	JSONResponse
	PayKey       *string `json:"payKey"`
	Status       string  `json:"status"`
	Memo         string  `json:"memo,omitempty"`
	TrackingID   string  `json:"trackingId,omitempty"`
	CurrencyCode string  `json:"currencyCode"`
	SenderEmail  string  `json:"senderEmail,omitempty"`
	ActionType   string  `json:"actionType"`

	PaymentInfoList *paymentInfoList `json:"paymentInfoList,omitempty"`
}

// UnmarshalJSON decodes the response.
func (r *PaymentDetailsResponse) UnmarshalJSON(data []byte) error {
	var wire paymentDetailsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = PaymentDetailsResponse{
		JSONResponse: wire.JSONResponse,
		Status:       wire.Status,
		Memo:         wire.Memo,
		TrackingID:   wire.TrackingID,
		CurrencyCode: wire.CurrencyCode,
		SenderEmail:  wire.SenderEmail,
		ActionType:   wire.ActionType,
		payKey:       wire.PayKey,
	}
	if wire.PaymentInfoList != nil {
		r.payments = &wire.PaymentInfoList.PaymentInfo
	}
	return nil
}

// MarshalJSON encodes the response in PayPal's wire shape.
func (r *PaymentDetailsResponse) MarshalJSON() ([]byte, error) {
	wire := paymentDetailsWire{
		JSONResponse: r.JSONResponse,
		PayKey:       r.payKey,
		Status:       r.Status,
		Memo:         r.Memo,
		TrackingID:   r.TrackingID,
		CurrencyCode: r.CurrencyCode,
		SenderEmail:  r.SenderEmail,
		ActionType:   r.ActionType,
	}
	if r.payments != nil {
		wire.PaymentInfoList = &paymentInfoList{PaymentInfo: *r.payments}
	}
	return json.Marshal(wire)
}

// PayKey returns the payment's pay key.
func (r *PaymentDetailsResponse) PayKey() (string, error) {
	return required("payKey", r.payKey)
}

// Payments returns the transactions of the payment.
func (r *PaymentDetailsResponse) Payments() ([]PaymentInfo, error) {
	if r.payments == nil {
		return nil, missing("paymentInfoList")
	}
	return *r.payments, nil
}

// FirstPayment returns the first transaction.
func (r *PaymentDetailsResponse) FirstPayment() (PaymentInfo, error) {
	payments, err := r.Payments()
	if err != nil {
		return PaymentInfo{}, err
	}
	if len(payments) == 0 {
		return PaymentInfo{}, missing("paymentInfoList.paymentInfo")
	}
	return payments[0], nil
}

// FirstReceiver returns the receiver of the first transaction.
func (r *PaymentDetailsResponse) FirstReceiver() (ReceiverInfo, error) {
	p, err := r.FirstPayment()
	if err != nil {
		return ReceiverInfo{}, err
	}
	return p.Receiver, nil
}

// PreapprovalRequest asks a sender to authorize future payments.
type PreapprovalRequest struct {
	// SenderEmail may be left empty to accept whoever logs in to approve.
	SenderEmail string

	ReturnURL          string
	CancelURL          string
	IPNNotificationURL string

	StartingDate time.Time
	EndingDate   time.Time

	// Zero amounts and counts are not sent.
	MaxTotalAmountOfAllPayments decimal.Decimal
	MaxAmountPerPayment         decimal.Decimal
	MaxNumberOfPayments         int

	CurrencyCode string // default USD
}

// Validate checks the request without contacting PayPal.
func (r *PreapprovalRequest) Validate() error {
	var problems []string
	if !r.StartingDate.IsZero() && !r.EndingDate.IsZero() && !r.EndingDate.After(r.StartingDate) {
		problems = append(problems, "ending date must be after starting date")
	}
	if r.MaxTotalAmountOfAllPayments.IsNegative() {
		problems = append(problems, "max total amount must not be negative")
	}
	if r.MaxAmountPerPayment.IsNegative() {
		problems = append(problems, "max amount per payment must not be negative")
	}
	if r.MaxNumberOfPayments < 0 {
		problems = append(problems, "max number of payments must not be negative")
	}
	if r.MaxTotalAmountOfAllPayments.IsPositive() && r.MaxAmountPerPayment.GreaterThan(r.MaxTotalAmountOfAllPayments) {
		problems = append(problems, "max amount per payment must not exceed max total amount")
	}
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// Preapproval requests a preapproval key.
func (s *AdaptivePaymentsService) Preapproval(ctx context.Context, req *PreapprovalRequest) (*PreapprovalResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := struct {
		SenderEmail                 string          `json:"senderEmail,omitempty"`
		ReturnURL                   string          `json:"returnUrl,omitempty"`
		CancelURL                   string          `json:"cancelUrl,omitempty"`
		IPNNotificationURL          string          `json:"ipnNotificationUrl,omitempty"`
		StartingDate                string          `json:"startingDate,omitempty"`
		EndingDate                  string          `json:"endingDate,omitempty"`
		MaxTotalAmountOfAllPayments string          `json:"maxTotalAmountOfAllPayments,omitempty"`
		MaxAmountPerPayment         string          `json:"maxAmountPerPayment,omitempty"`
		MaxNumberOfPayments         string          `json:"maxNumberOfPayments,omitempty"`
		CurrencyCode                string          `json:"currencyCode"`
		RequestEnvelope             requestEnvelope `json:"requestEnvelope"`
	}{
		SenderEmail:                 req.SenderEmail,
		ReturnURL:                   req.ReturnURL,
		CancelURL:                   req.CancelURL,
		IPNNotificationURL:          req.IPNNotificationURL,
		StartingDate:                formatDate(req.StartingDate),
		EndingDate:                  formatDate(req.EndingDate),
		MaxTotalAmountOfAllPayments: formatAmount(req.MaxTotalAmountOfAllPayments),
		MaxAmountPerPayment:         formatAmount(req.MaxAmountPerPayment),
		CurrencyCode:                currencyOrDefault(req.CurrencyCode),
		RequestEnvelope:             defaultEnvelope(),
	}
	if req.MaxNumberOfPayments > 0 {
		payload.MaxNumberOfPayments = fmt.Sprint(req.MaxNumberOfPayments)
	}

	c := s.client
	resp := &PreapprovalResponse{}
	if err := c.postJSON(ctx, "Preapproval", c.config.Environment.AdaptivePayments.Preapproval, payload, resp); err != nil {
		return nil, err
	}
	resp.redirect = c.config.Environment.AdaptivePayments.PreapprovalRedirect
	return resp, nil
}

// PreapprovalResponse is the result of Preapproval.
type PreapprovalResponse struct {
	JSONResponse

	PreapprovalKeyValue *string `json:"preapprovalKey"`

	redirect string
}

// PreapprovalKey returns the key to pass to later Pay calls.
func (r *PreapprovalResponse) PreapprovalKey() (string, error) {
	return required("preapprovalKey", r.PreapprovalKeyValue)
}

// RedirectURL returns the URL where the sender confirms the preapproval.
func (r *PreapprovalResponse) RedirectURL() (string, error) {
	key, err := r.PreapprovalKey()
	if err != nil {
		return "", err
	}
	return r.redirect + "&preapprovalkey=" + url.QueryEscape(key), nil
}

type preapprovalKeyPayload struct {
	PreapprovalKey  string          `json:"preapprovalKey"`
	RequestEnvelope requestEnvelope `json:"requestEnvelope"`
}

func preapprovalKeyRequired(key string) error {
	if key == "" {
		return &ValidationError{Errors: []string{"preapproval key is required"}}
	}
	return nil
}

// PreapprovalDetails retrieves a preapproval.
func (s *AdaptivePaymentsService) PreapprovalDetails(ctx context.Context, preapprovalKey string) (*PreapprovalDetailsResponse, error) {
	if err := preapprovalKeyRequired(preapprovalKey); err != nil {
		return nil, err
	}
	c := s.client
	resp := &PreapprovalDetailsResponse{}
	payload := preapprovalKeyPayload{PreapprovalKey: preapprovalKey, RequestEnvelope: defaultEnvelope()}
	if err := c.postJSON(ctx, "PreapprovalDetails", c.config.Environment.AdaptivePayments.PreapprovalDetails, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PreapprovalDetailsResponse is the result of PreapprovalDetails.
type PreapprovalDetailsResponse struct {
	JSONResponse

	Status              string              `json:"status"`
	ApprovalFlag        Flag                `json:"approved"`
	CurrencyCode        string              `json:"currencyCode"`
	CurPayments         json.Number         `json:"curPayments"`
	CurPaymentsAmount   decimal.NullDecimal `json:"curPaymentsAmount"`
	MaxNumberOfPayments json.Number         `json:"maxNumberOfPayments"`
	MaxAmountPerPayment decimal.NullDecimal `json:"maxAmountPerPayment"`

	MaxTotalAmountOfAllPayments decimal.NullDecimal `json:"maxTotalAmountOfAllPayments"`

	SenderEmailValue  *string `json:"senderEmail"`
	StartingDateValue *string `json:"startingDate"`
	EndingDateValue   *string `json:"endingDate"`
}

// SenderEmail returns the account that approved.
func (r *PreapprovalDetailsResponse) SenderEmail() (string, error) {
	return required("senderEmail", r.SenderEmailValue)
}

// StartingDate returns the start of the preapproval period as sent.
func (r *PreapprovalDetailsResponse) StartingDate() (string, error) {
	return required("startingDate", r.StartingDateValue)
}

// EndingDate returns the end of the preapproval period as sent.
func (r *PreapprovalDetailsResponse) EndingDate() (string, error) {
	return required("endingDate", r.EndingDateValue)
}

// Approved reports whether the preapproval is active and approved.
func (r *PreapprovalDetailsResponse) Approved() bool {
	return r.Status == PreapprovalActive && bool(r.ApprovalFlag)
}

// CancelPreapproval cancels a preapproval.
func (s *AdaptivePaymentsService) CancelPreapproval(ctx context.Context, preapprovalKey string) (*JSONResponse, error) {
	if err := preapprovalKeyRequired(preapprovalKey); err != nil {
		return nil, err
	}
	c := s.client
	resp := &JSONResponse{}
	payload := preapprovalKeyPayload{PreapprovalKey: preapprovalKey, RequestEnvelope: defaultEnvelope()}
	if err := c.postJSON(ctx, "CancelPreapproval", c.config.Environment.AdaptivePayments.CancelPreapproval, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RefundRequest selects a payment to refund. Without receivers the whole
// payment is refunded.
type RefundRequest struct {
	PayKey        string
	TrackingID    string
	TransactionID string

	Receivers    []Receiver
	CurrencyCode string // default USD
}

// Validate checks the request without contacting PayPal.
func (r *RefundRequest) Validate() error {
	var problems []string
	if r.PayKey == "" && r.TrackingID == "" && r.TransactionID == "" {
		problems = append(problems, "one of pay key, tracking id or transaction id is required")
	}
	if len(r.Receivers) > MaxReceivers {
		problems = append(problems, fmt.Sprintf("you can refund a maximum of %d receivers", MaxReceivers))
	}
	for _, recv := range r.Receivers {
		problems = append(problems, recv.validate()...)
	}
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

// Refund refunds all or part of a payment. Like Pay, it is never retried.
func (s *AdaptivePaymentsService) Refund(ctx context.Context, req *RefundRequest) (*RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	type receiverList struct {
		Receiver []Receiver `json:"receiver"`
	}
	payload := struct {
		PayKey          string          `json:"payKey,omitempty"`
		TrackingID      string          `json:"trackingId,omitempty"`
		TransactionID   string          `json:"transactionId,omitempty"`
		ReceiverList    *receiverList   `json:"receiverList,omitempty"`
		CurrencyCode    string          `json:"currencyCode"`
		RequestEnvelope requestEnvelope `json:"requestEnvelope"`
	}{
		PayKey:          req.PayKey,
		TrackingID:      req.TrackingID,
		TransactionID:   req.TransactionID,
		CurrencyCode:    currencyOrDefault(req.CurrencyCode),
		RequestEnvelope: defaultEnvelope(),
	}
	if len(req.Receivers) > 0 {
		payload.ReceiverList = &receiverList{Receiver: req.Receivers}
	}

	c := s.client
	resp := &RefundResponse{}
	if err := c.postJSON(ctx, "Refund", c.config.Environment.AdaptivePayments.Refund, payload, resp, api.NoRetry); err != nil {
		return nil, err
	}
	return resp, nil
}

// RefundInfo is the outcome of a refund to one receiver.
type RefundInfo struct {
	Receiver                     ReceiverInfo        `json:"receiver"`
	RefundStatus                 string              `json:"refundStatus"`
	RefundNetAmount              decimal.NullDecimal `json:"refundNetAmount"`
	RefundFeeAmount              decimal.NullDecimal `json:"refundFeeAmount"`
	RefundGrossAmount            decimal.NullDecimal `json:"refundGrossAmount"`
	TotalOfAllRefunds            decimal.NullDecimal `json:"totalOfAllRefunds"`
	RefundHasBecomeFull          Flag                `json:"refundHasBecomeFull"`
	EncryptedRefundTransactionID string              `json:"encryptedRefundTransactionId"`
	RefundTransactionStatus      string              `json:"refundTransactionStatus"`
}

// RefundResponse is the result of Refund.
type RefundResponse struct {
	JSONResponse

	CurrencyCode   string          `json:"currencyCode"`
	RefundInfoList *refundInfoList `json:"refundInfoList"`
}

type refundInfoList struct {
	RefundInfo []RefundInfo `json:"refundInfo"`
}

// Refunds returns the per-receiver refund outcomes.
func (r *RefundResponse) Refunds() ([]RefundInfo, error) {
	if r.RefundInfoList == nil {
		return nil, missing("refundInfoList")
	}
	return r.RefundInfoList.RefundInfo, nil
}

func required(field string, v *string) (string, error) {
	if v == nil {
		return "", missing(field)
	}
	return *v, nil
}
