package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func receiver(t *testing.T, email, amount string) Receiver {
	t.Helper()
	r, err := NewReceiver(email, decimal.RequireFromString(amount))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPayRequest_Validate(t *testing.T) {
	one := Receiver{Email: "a@example.com", Amount: decimal.NewFromInt(1)}
	primary := Receiver{Email: "p@example.com", Amount: decimal.NewFromInt(1), Primary: true}

	seven := make([]Receiver, 7)
	for i := range seven {
		seven[i] = one
	}

	tests := []struct {
		name string
		req  PayRequest
		want string
	}{
		{"no receivers", PayRequest{}, "receivers must not be empty"},
		{"too many receivers", PayRequest{Receivers: seven}, "maximum of 6 receivers"},
		{"two primaries", PayRequest{Receivers: []Receiver{primary, primary}}, "maximum 1 primary"},
		{"preapproved and implicit", PayRequest{Receivers: []Receiver{one}, PreapprovalKey: "PA-1", Implicit: true}, "same time"},
		{"bad receiver", PayRequest{Receivers: []Receiver{{Email: "x@example.com"}}}, "amount must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("Validate() = %v, want ErrInvalidRequest", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	six := PayRequest{Receivers: seven[:6]}
	if err := six.Validate(); err != nil {
		t.Errorf("six receivers should be valid: %v", err)
	}
}

func TestPay_Validation_SendsNothing(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newTestClient(t, ts.URL)

	if _, err := c.AdaptivePayments().Pay(context.Background(), nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Pay(nil) error = %v", err)
	}
	if ts.count() != 0 {
		t.Errorf("requests = %d, want 0", ts.count())
	}
}

func TestPay_Redirect(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-7XU46719PJ930422H","paymentExecStatus":"CREATED"}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().PaySimple(context.Background(), receiver(t, "r@example.com", "10"), &PayRequest{
		ReturnURL:  "https://shop.example.com/ok",
		CancelURL:  "https://shop.example.com/cancel",
		Memo:       "order 42",
		CustomerID: "cust-9",
	})
	if err != nil {
		t.Fatalf("PaySimple() error = %v", err)
	}

	if !resp.Success() || resp.Err() != nil {
		t.Errorf("Success() = false, Err() = %v", resp.Err())
	}
	if key, _ := resp.PayKey(); key != "AP-7XU46719PJ930422H" {
		t.Errorf("PayKey() = %q", key)
	}
	if _, ok := resp.PaymentDetails(); ok {
		t.Error("PaymentDetails() should be absent before authorization")
	}
	redirect, err := resp.RedirectURL()
	if err != nil {
		t.Fatal(err)
	}
	if redirect != "https://www.paypal.test/cgi-bin/webscr?cmd=_ap-payment&paykey=AP-7XU46719PJ930422H" {
		t.Errorf("RedirectURL() = %q", redirect)
	}
	if resp.TrackingID() != "track-1" {
		t.Errorf("TrackingID() = %q", resp.TrackingID())
	}

	body := ts.last(t).JSON(t)
	if body["actionType"] != "PAY" || body["currencyCode"] != "USD" {
		t.Errorf("actionType/currencyCode = %v/%v", body["actionType"], body["currencyCode"])
	}
	if body["trackingId"] != "track-1" || body["memo"] != "order 42" {
		t.Errorf("trackingId/memo = %v/%v", body["trackingId"], body["memo"])
	}
	if _, ok := body["senderEmail"]; ok {
		t.Error("senderEmail should not be sent for explicit payments")
	}
	if _, ok := body["preapprovalKey"]; ok {
		t.Error("preapprovalKey should not be sent")
	}
	client := body["clientDetails"].(map[string]any)
	if client["customerId"] != "cust-9" {
		t.Errorf("clientDetails = %v", client)
	}
	env := body["requestEnvelope"].(map[string]any)
	if env["errorLanguage"] != "en_US" || env["detailLevel"] != "ReturnAll" {
		t.Errorf("requestEnvelope = %v", env)
	}
	receivers := body["receiverList"].(map[string]any)["receiver"].([]any)
	if len(receivers) != 1 {
		t.Fatalf("receivers = %v", receivers)
	}
	first := receivers[0].(map[string]any)
	if first["email"] != "r@example.com" || first["amount"] != "10.00" {
		t.Errorf("receiver = %v", first)
	}
}

func TestPay_DefaultTrackingIDIsUUID(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-1"}`,
	})
	c, err := New(testConfig(ts.URL), WithRetries(-1))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.AdaptivePayments().PaySimple(context.Background(), receiver(t, "r@example.com", "1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(resp.TrackingID()); err != nil {
		t.Errorf("TrackingID() = %q, not a UUID: %v", resp.TrackingID(), err)
	}
}

func TestPay_ImplicitInlineDetails(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-2","paymentExecStatus":"COMPLETED",
			"paymentInfoList":{"paymentInfo":[{"transactionId":"6X1","transactionStatus":"COMPLETED",
			"receiver":{"amount":"3.00","email":"r@example.com","primary":"false"},"pendingRefund":"false"}]}}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().Pay(context.Background(), &PayRequest{
		Receivers: []Receiver{receiver(t, "r@example.com", "3")},
		Implicit:  true,
	})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if ts.count() != 1 {
		t.Errorf("requests = %d, want 1 (details were inline)", ts.count())
	}
	if got := ts.last(t).JSON(t)["senderEmail"]; got != "seller_api1.example.com" {
		t.Errorf("senderEmail = %v", got)
	}

	details, ok := resp.PaymentDetails()
	if !ok {
		t.Fatal("PaymentDetails() should be present")
	}
	p, err := details.FirstPayment()
	if err != nil {
		t.Fatal(err)
	}
	if p.TransactionID != "6X1" || !p.Receiver.Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("payment = %+v", p)
	}
	if redirect, _ := resp.RedirectURL(); redirect != "" {
		t.Errorf("RedirectURL() = %q, want empty", redirect)
	}
}

func TestPay_PreapprovedFetchesDetails(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-3","paymentExecStatus":"COMPLETED"}`,
		"/AdaptivePayments/PaymentDetails": `{` + testEnvelope + `,"payKey":"AP-3","status":"COMPLETED","memo":"m",
			"paymentInfoList":{"paymentInfo":[{"transactionId":"9Y2","receiver":{"amount":"4.00","email":"r@example.com"}}]}}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().PayParallel(context.Background(),
		[]Receiver{receiver(t, "r@example.com", "4")},
		&PayRequest{PreapprovalKey: "PA-9"})
	if err != nil {
		t.Fatalf("PayParallel() error = %v", err)
	}
	if ts.count() != 2 {
		t.Fatalf("requests = %d, want 2", ts.count())
	}
	last := ts.last(t)
	if last.Path != "/AdaptivePayments/PaymentDetails" || last.JSON(t)["payKey"] != "AP-3" {
		t.Errorf("details request = %s %s", last.Path, last.Body)
	}

	details, ok := resp.PaymentDetails()
	if !ok {
		t.Fatal("PaymentDetails() should be present")
	}
	if details.Status != "COMPLETED" || details.Memo != "m" {
		t.Errorf("details = %+v", details)
	}
	recv, err := details.FirstReceiver()
	if err != nil || recv.Email != "r@example.com" {
		t.Errorf("FirstReceiver() = %+v, %v", recv, err)
	}
}

func TestPay_PayErrors(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-4","paymentExecStatus":"ERROR",
			"payErrorList":{"payError":[{"receiver":{"amount":"1.00","email":"r@example.com"},
			"error":{"errorId":"520009","message":"Account is restricted"}}]}}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().PaySimple(context.Background(), receiver(t, "r@example.com", "1"), nil)
	if err != nil {
		t.Fatalf("PaySimple() error = %v", err)
	}
	if resp.Success() {
		t.Error("Success() should be false with payErrorList")
	}
	var ackErr *AckError
	if !errors.As(resp.Err(), &ackErr) {
		t.Fatalf("Err() = %v", resp.Err())
	}
	if len(ackErr.Errors) != 1 || ackErr.Errors[0].ErrorID != "520009" {
		t.Errorf("ackErr = %+v", ackErr)
	}
}

// unavailableServer answers every request with a 503 and counts them per
// path.
func unavailableServer(t *testing.T) (*httptest.Server, map[string]*atomic.Int32) {
	t.Helper()
	hits := map[string]*atomic.Int32{
		"/AdaptivePayments/Pay":            {},
		"/AdaptivePayments/Refund":         {},
		"/AdaptivePayments/PaymentDetails": {},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n, ok := hits[r.URL.Path]; ok {
			n.Add(1)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	return server, hits
}

func TestPayAndRefund_SentOnce(t *testing.T) {
	server, hits := unavailableServer(t)
	c := newTestClient(t, server.URL, WithRetries(3), WithRetryDelay(time.Millisecond))
	ctx := context.Background()

	_, err := c.AdaptivePayments().PaySimple(ctx, receiver(t, "r@example.com", "1"), nil)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("PaySimple() error = %v, want ErrServiceUnavailable", err)
	}
	if got := hits["/AdaptivePayments/Pay"].Load(); got != 1 {
		t.Errorf("Pay requests = %d, want 1", got)
	}

	_, err = c.AdaptivePayments().Refund(ctx, &RefundRequest{PayKey: "AP-1"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Refund() error = %v, want ErrServiceUnavailable", err)
	}
	if got := hits["/AdaptivePayments/Refund"].Load(); got != 1 {
		t.Errorf("Refund requests = %d, want 1", got)
	}

	_, err = c.AdaptivePayments().PaymentDetails(ctx, &PaymentDetailsRequest{PayKey: "AP-1"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("PaymentDetails() error = %v, want ErrServiceUnavailable", err)
	}
	if got := hits["/AdaptivePayments/PaymentDetails"].Load(); got != 4 {
		t.Errorf("PaymentDetails requests = %d, want 4", got)
	}
}

func TestPay_MissingPayKey(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().PaySimple(context.Background(), receiver(t, "r@example.com", "1"), nil)
	if err != nil {
		t.Fatalf("envelope is valid, Pay should succeed: %v", err)
	}
	if _, err := resp.PayKey(); !errors.Is(err, ErrMissingField) {
		t.Errorf("PayKey() error = %v, want ErrMissingField", err)
	}
	if _, err := resp.RedirectURL(); !errors.Is(err, ErrResponseParse) {
		t.Errorf("RedirectURL() error = %v, want ErrResponseParse", err)
	}
}

func TestPayChained(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-5"}`,
	})
	c := newTestClient(t, ts.URL)
	ap := c.AdaptivePayments()
	ctx := context.Background()

	secondary := receiver(t, "s@example.com", "2")
	if _, err := ap.PayChained(ctx, []Receiver{secondary}, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("PayChained() without primary error = %v", err)
	}

	primary, err := PrimaryReceiver("p@example.com", decimal.NewFromInt(10))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ap.PayChained(ctx, []Receiver{primary, primary}, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("PayChained() with two primaries error = %v", err)
	}
	if ts.count() != 0 {
		t.Fatalf("requests = %d, want 0", ts.count())
	}

	if _, err := ap.PayChained(ctx, []Receiver{primary, secondary}, nil); err != nil {
		t.Fatalf("PayChained() error = %v", err)
	}
	receivers := ts.last(t).JSON(t)["receiverList"].(map[string]any)["receiver"].([]any)
	if receivers[0].(map[string]any)["primary"] != true {
		t.Errorf("first receiver = %v, want primary", receivers[0])
	}
	if _, ok := receivers[1].(map[string]any)["primary"]; ok {
		t.Errorf("second receiver = %v, want no primary flag", receivers[1])
	}
}

func TestPaySimple_DoesNotMutateRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Pay": `{` + testEnvelope + `,"payKey":"AP-6"}`,
	})
	c := newTestClient(t, ts.URL)

	req := &PayRequest{Memo: "shared"}
	if _, err := c.AdaptivePayments().PaySimple(context.Background(), receiver(t, "r@example.com", "1"), req); err != nil {
		t.Fatal(err)
	}
	if req.Receivers != nil || req.TrackingID != "" {
		t.Errorf("request was mutated: %+v", req)
	}
}

func TestPaymentDetails(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/PaymentDetails": `{` + testEnvelope + `,"payKey":"AP-1","status":"COMPLETED","trackingId":"t-1"}`,
	})
	c := newTestClient(t, ts.URL)
	ap := c.AdaptivePayments()

	if _, err := ap.PaymentDetails(context.Background(), &PaymentDetailsRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty request error = %v", err)
	}

	resp, err := ap.PaymentDetails(context.Background(), &PaymentDetailsRequest{TrackingID: "t-1"})
	if err != nil {
		t.Fatal(err)
	}
	body := ts.last(t).JSON(t)
	if body["trackingId"] != "t-1" {
		t.Errorf("trackingId = %v", body["trackingId"])
	}
	if _, ok := body["payKey"]; ok {
		t.Error("empty payKey should not be sent")
	}
	if key, err := resp.PayKey(); err != nil || key != "AP-1" {
		t.Errorf("PayKey() = %q, %v", key, err)
	}
	if _, err := resp.Payments(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Payments() error = %v, want ErrMissingField", err)
	}
	if _, err := resp.FirstReceiver(); err == nil {
		t.Error("FirstReceiver() should fail without payments")
	}
}

func TestPaymentDetails_EmptyPaymentList(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/PaymentDetails": `{` + testEnvelope + `,"paymentInfoList":{"paymentInfo":[]}}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().PaymentDetails(context.Background(), &PaymentDetailsRequest{PayKey: "AP-1"})
	if err != nil {
		t.Fatal(err)
	}
	payments, err := resp.Payments()
	if err != nil || len(payments) != 0 {
		t.Errorf("Payments() = %v, %v", payments, err)
	}
	if _, err := resp.FirstPayment(); !errors.Is(err, ErrMissingField) {
		t.Errorf("FirstPayment() error = %v", err)
	}
}

func TestPaymentDetailsResponse_MarshalJSON(t *testing.T) {
	body := `{` + testEnvelope + `,"payKey":"AP-1","status":"COMPLETED","currencyCode":"USD","actionType":"PAY",
		"paymentInfoList":{"paymentInfo":[{"transactionId":"9T","transactionStatus":"COMPLETED",
		"receiver":{"email":"a@example.com","amount":"3.00","primary":"true"}}]}}`

	var resp PaymentDetailsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(&resp)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var again PaymentDetailsResponse
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if key, err := again.PayKey(); err != nil || key != "AP-1" {
		t.Errorf("PayKey() = %q, %v", key, err)
	}
	r, err := again.FirstReceiver()
	if err != nil {
		t.Fatal(err)
	}
	if r.Email != "a@example.com" || !bool(r.Primary) || !r.Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("FirstReceiver() = %+v", r)
	}
	if again.CorrelationID() != "c0ffee" {
		t.Errorf("CorrelationID() = %q", again.CorrelationID())
	}
}

func TestPreapproval(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Preapproval": `{` + testEnvelope + `,"preapprovalKey":"PA-8U0"}`,
	})
	c := newTestClient(t, ts.URL)

	start := time.Date(2014, 10, 24, 0, 0, 0, 0, time.UTC)
	resp, err := c.AdaptivePayments().Preapproval(context.Background(), &PreapprovalRequest{
		SenderEmail:                 "buyer@example.com",
		StartingDate:                start,
		EndingDate:                  start.AddDate(1, 0, 0),
		MaxTotalAmountOfAllPayments: decimal.NewFromInt(5),
		MaxAmountPerPayment:         decimal.NewFromInt(1),
		MaxNumberOfPayments:         5,
	})
	if err != nil {
		t.Fatalf("Preapproval() error = %v", err)
	}

	key, err := resp.PreapprovalKey()
	if err != nil || key != "PA-8U0" {
		t.Errorf("PreapprovalKey() = %q, %v", key, err)
	}
	redirect, _ := resp.RedirectURL()
	if redirect != "https://www.paypal.test/cgi-bin/webscr?cmd=_ap-preapproval&preapprovalkey=PA-8U0" {
		t.Errorf("RedirectURL() = %q", redirect)
	}

	body := ts.last(t).JSON(t)
	want := map[string]any{
		"senderEmail":                 "buyer@example.com",
		"startingDate":                "2014-10-24T00:00:00Z",
		"endingDate":                  "2015-10-24T00:00:00Z",
		"maxTotalAmountOfAllPayments": "5.00",
		"maxAmountPerPayment":         "1.00",
		"maxNumberOfPayments":         "5",
		"currencyCode":                "USD",
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("%s = %v, want %v", k, body[k], v)
		}
	}
	if _, ok := body["returnUrl"]; ok {
		t.Error("empty returnUrl should not be sent")
	}
}

func TestPreapprovalRequest_Validate(t *testing.T) {
	start := time.Date(2014, 10, 24, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  PreapprovalRequest
	}{
		{"ending before start", PreapprovalRequest{StartingDate: start, EndingDate: start.Add(-time.Hour)}},
		{"negative total", PreapprovalRequest{MaxTotalAmountOfAllPayments: decimal.NewFromInt(-1)}},
		{"negative per payment", PreapprovalRequest{MaxAmountPerPayment: decimal.NewFromInt(-1)}},
		{"negative count", PreapprovalRequest{MaxNumberOfPayments: -1}},
		{"per payment above total", PreapprovalRequest{MaxTotalAmountOfAllPayments: decimal.NewFromInt(1), MaxAmountPerPayment: decimal.NewFromInt(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Validate() = %v, want ErrInvalidRequest", err)
			}
		})
	}

	if err := (&PreapprovalRequest{}).Validate(); err != nil {
		t.Errorf("empty request should be valid: %v", err)
	}
}

func TestPreapprovalDetails(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		approved bool
	}{
		{"active approved", `"status":"ACTIVE","approved":"true"`, true},
		{"active boolean", `"status":"ACTIVE","approved":true`, true},
		{"canceled", `"status":"CANCELED","approved":"true"`, false},
		{"not approved", `"status":"ACTIVE","approved":"false"`, false},
		{"no status", `"approved":"true"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, map[string]string{
				"/AdaptivePayments/PreapprovalDetails": `{` + testEnvelope + `,` + tt.body + `}`,
			})
			c := newTestClient(t, ts.URL)

			resp, err := c.AdaptivePayments().PreapprovalDetails(context.Background(), "PA-1")
			if err != nil {
				t.Fatal(err)
			}
			if resp.Approved() != tt.approved {
				t.Errorf("Approved() = %v, want %v", resp.Approved(), tt.approved)
			}
		})
	}
}

func TestPreapprovalDetails_Fields(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/PreapprovalDetails": `{` + testEnvelope + `,"senderEmail":"buyer@example.com",
			"startingDate":"2014-10-24T00:00:00.000Z","curPayments":"2","curPaymentsAmount":"3.50"}`,
	})
	c := newTestClient(t, ts.URL)
	ap := c.AdaptivePayments()

	if _, err := ap.PreapprovalDetails(context.Background(), ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty key error = %v", err)
	}

	resp, err := ap.PreapprovalDetails(context.Background(), "PA-1")
	if err != nil {
		t.Fatal(err)
	}
	if got := ts.last(t).JSON(t)["preapprovalKey"]; got != "PA-1" {
		t.Errorf("preapprovalKey = %v", got)
	}
	if email, err := resp.SenderEmail(); err != nil || email != "buyer@example.com" {
		t.Errorf("SenderEmail() = %q, %v", email, err)
	}
	if _, err := resp.StartingDate(); err != nil {
		t.Errorf("StartingDate() error = %v", err)
	}
	if _, err := resp.EndingDate(); !errors.Is(err, ErrMissingField) {
		t.Errorf("EndingDate() error = %v, want ErrMissingField", err)
	}
	if resp.CurPayments.String() != "2" || !resp.CurPaymentsAmount.Valid {
		t.Errorf("CurPayments = %v, CurPaymentsAmount = %v", resp.CurPayments, resp.CurPaymentsAmount)
	}
}

func TestCancelPreapproval(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/CancelPreapproval": `{` + testEnvelope + `}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().CancelPreapproval(context.Background(), "PA-1")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success() {
		t.Error("Success() should be true")
	}
	if got := ts.last(t).Path; got != "/AdaptivePayments/CancelPreapproval" {
		t.Errorf("path = %s", got)
	}
}

func TestRefund(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Refund": `{` + testEnvelope + `,"currencyCode":"USD","refundInfoList":{"refundInfo":[
			{"receiver":{"amount":"1.00","email":"r@example.com"},"refundStatus":"REFUNDED","refundGrossAmount":"1.00",
			"refundHasBecomeFull":"true"}]}}`,
	})
	c := newTestClient(t, ts.URL)
	ap := c.AdaptivePayments()

	if _, err := ap.Refund(context.Background(), &RefundRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty refund error = %v", err)
	}

	resp, err := ap.Refund(context.Background(), &RefundRequest{
		PayKey:    "AP-1",
		Receivers: []Receiver{receiver(t, "r@example.com", "1")},
	})
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}

	body := ts.last(t).JSON(t)
	if body["payKey"] != "AP-1" || body["currencyCode"] != "USD" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["receiverList"]; !ok {
		t.Error("receiverList should be sent")
	}

	refunds, err := resp.Refunds()
	if err != nil || len(refunds) != 1 {
		t.Fatalf("Refunds() = %v, %v", refunds, err)
	}
	r := refunds[0]
	if r.RefundStatus != "REFUNDED" || !bool(r.RefundHasBecomeFull) || !r.RefundGrossAmount.Valid {
		t.Errorf("refund = %+v", r)
	}
	if r.RefundNetAmount.Valid {
		t.Error("absent RefundNetAmount should not be Valid")
	}
}

func TestRefund_WholePayment(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/AdaptivePayments/Refund": `{` + testEnvelope + `}`,
	})
	c := newTestClient(t, ts.URL)

	resp, err := c.AdaptivePayments().Refund(context.Background(), &RefundRequest{TransactionID: "6X1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ts.last(t).JSON(t)["receiverList"]; ok {
		t.Error("receiverList should be omitted for a full refund")
	}
	if _, err := resp.Refunds(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Refunds() error = %v", err)
	}
}
