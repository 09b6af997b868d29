package paypal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxReceivers is the largest receiver list a single Pay call accepts.
const MaxReceivers = 6

// Receiver is one recipient of a payment.
type Receiver struct {
	Email     string
	Amount    decimal.Decimal
	Primary   bool
	InvoiceID string
}

// NewReceiver returns a validated receiver.
func NewReceiver(email string, amount decimal.Decimal) (Receiver, error) {
	r := Receiver{Email: email, Amount: amount}
	if problems := r.validate(); len(problems) > 0 {
		return Receiver{}, &ValidationError{Errors: problems}
	}
	return r, nil
}

// PrimaryReceiver returns a validated primary receiver of a chained
// payment.
func PrimaryReceiver(email string, amount decimal.Decimal) (Receiver, error) {
	r, err := NewReceiver(email, amount)
	if err != nil {
		return Receiver{}, err
	}
	r.Primary = true
	return r, nil
}

func (r Receiver) String() string {
	s := fmt.Sprintf("receiver %s for %s", r.Email, r.Amount.StringFixed(2))
	if r.Primary {
		s += " (primary)"
	}
	return s
}

func (r Receiver) validate() []string {
	var problems []string
	if strings.TrimSpace(r.Email) == "" {
		problems = append(problems, "receiver email must not be empty")
	}
	if !r.Amount.IsPositive() {
		problems = append(problems, fmt.Sprintf("receiver %q amount must be positive", r.Email))
	}
	return problems
}

// MarshalJSON encodes the receiver in the shape PayPal expects, with the
// amount as a two-decimal string.
func (r Receiver) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Email     string `json:"email"`
		Amount    string `json:"amount"`
		Primary   bool   `json:"primary,omitempty"`
		InvoiceID string `json:"invoiceId,omitempty"`
	}{r.Email, r.Amount.StringFixed(2), r.Primary, r.InvoiceID})
}

func numberOfPrimary(receivers []Receiver) int {
	n := 0
	for _, r := range receivers {
		if r.Primary {
			n++
		}
	}
	return n
}

// ReceiverInfo is a receiver as reported back by PayPal.
type ReceiverInfo struct {
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	Primary     Flag            `json:"primary"`
	InvoiceID   string          `json:"invoiceId,omitempty"`
	AccountID   string          `json:"accountId,omitempty"`
	PaymentType string          `json:"paymentType,omitempty"`
}

// Flag is a boolean PayPal may encode as true or as the string "true".
type Flag bool

// UnmarshalJSON accepts booleans and the strings "true" and "false".
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*f = true
	case "false", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
