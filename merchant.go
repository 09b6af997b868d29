package paypal

import (
	"context"
	"iter"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brstrat/paypal-go/nvp"
)

// MerchantService calls the classic NVP API on behalf of an account that
// granted a permission token.
type MerchantService struct {
	client *Client
}

func nvpParams(method string, fields map[string]string) url.Values {
	params := url.Values{
		"METHOD":  {method},
		"VERSION": {merchantAPIVersion},
	}
	for k, v := range fields {
		if v != "" {
			params.Set(k, v)
		}
	}
	return params
}

func formatNVPTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func tokenProblems(token Token) []string {
	var problems []string
	if token.Token == "" {
		problems = append(problems, "access token is required")
	}
	if token.Secret == "" {
		problems = append(problems, "access token secret is required")
	}
	return problems
}

// TransactionSearchRequest filters the transaction history. Zero fields are
// not sent.
type TransactionSearchRequest struct {
	StartDate time.Time
	EndDate   time.Time

	Email         string
	Receiver      string
	TransactionID string
	InvoiceNumber string
}

// TransactionSearch searches the history of the account that issued token.
func (s *MerchantService) TransactionSearch(ctx context.Context, token Token, req *TransactionSearchRequest) (*TransactionSearchResponse, error) {
	if req == nil {
		req = &TransactionSearchRequest{}
	}
	problems := tokenProblems(token)
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		problems = append(problems, "end date must not be before start date")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}

	params := nvpParams("TransactionSearch", map[string]string{
		"STARTDATE":     formatNVPTime(req.StartDate),
		"ENDDATE":       formatNVPTime(req.EndDate),
		"EMAIL":         req.Email,
		"RECEIVER":      req.Receiver,
		"TRANSACTIONID": req.TransactionID,
		"INVNUM":        req.InvoiceNumber,
	})

	r, err := s.client.postNVP(ctx, "TransactionSearch", token, params)
	if err != nil {
		return nil, err
	}
	return &TransactionSearchResponse{NVPResponse: r}, nil
}

// TransactionSearchResponse is the result of TransactionSearch.
type TransactionSearchResponse struct {
	*NVPResponse
}

// Fields of one search result, without the L_ prefix.
var transactionFields = []string{
	"TIMESTAMP", "TIMEZONE", "TYPE", "EMAIL", "NAME", "TRANSACTIONID",
	"STATUS", "AMT", "CURRENCYCODE", "FEEAMT", "NETAMT",
}

// Transactions yields one entry per search result, keyed by field name
// without the L_ prefix (TRANSACTIONID, AMT, ...).
func (r *TransactionSearchResponse) Transactions() (iter.Seq[nvp.Entry], error) {
	c, err := r.Collapsed()
	if err != nil {
		return nil, err
	}
	return c.ZipFields(transactionFields...), nil
}

// Transaction is a typed search result. Fields PayPal omitted are zero;
// absent amounts are not Valid.
type Transaction struct {
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
	TimeZone      string    `json:"timeZone,omitempty"`
	Type          string    `json:"type,omitempty"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Status        string    `json:"status,omitempty"`
	CurrencyCode  string    `json:"currencyCode,omitempty"`

	Amount    decimal.NullDecimal `json:"amount"`
	FeeAmount decimal.NullDecimal `json:"feeAmount"`
	NetAmount decimal.NullDecimal `json:"netAmount"`
}

// TransactionList returns the search results as typed transactions.
func (r *TransactionSearchResponse) TransactionList() ([]Transaction, error) {
	seq, err := r.Transactions()
	if err != nil {
		return nil, err
	}

	var out []Transaction
	for e := range seq {
		t, err := transactionFromEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func transactionFromEntry(e nvp.Entry) (Transaction, error) {
	get := func(name string) string {
		v, _ := e.Get(name)
		return v
	}

	t := Transaction{
		TransactionID: get("TRANSACTIONID"),
		TimeZone:      get("TIMEZONE"),
		Type:          get("TYPE"),
		Email:         get("EMAIL"),
		Name:          get("NAME"),
		Status:        get("STATUS"),
		CurrencyCode:  get("CURRENCYCODE"),
	}

	if ts := get("TIMESTAMP"); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return Transaction{}, &ResponseParseError{Field: "L_TIMESTAMP", Err: err}
		}
		t.Timestamp = parsed
	}

	var err error
	if t.Amount, err = parseAmount(e, "AMT"); err != nil {
		return Transaction{}, err
	}
	if t.FeeAmount, err = parseAmount(e, "FEEAMT"); err != nil {
		return Transaction{}, err
	}
	if t.NetAmount, err = parseAmount(e, "NETAMT"); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func parseAmount(e nvp.Entry, name string) (decimal.NullDecimal, error) {
	v, ok := e.Get(name)
	if !ok || v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, &ResponseParseError{Field: nvp.ArrayPrefix + name, Err: err}
	}
	return decimal.NewNullDecimal(d), nil
}

// GetTransactionDetails fetches one transaction of the account that issued
// token.
func (s *MerchantService) GetTransactionDetails(ctx context.Context, token Token, transactionID string) (*TransactionDetailsResponse, error) {
	problems := tokenProblems(token)
	if transactionID == "" {
		problems = append(problems, "transaction id is required")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}

	params := nvpParams("GetTransactionDetails", map[string]string{
		"TRANSACTIONID": transactionID,
	})

	r, err := s.client.postNVP(ctx, "GetTransactionDetails", token, params)
	if err != nil {
		return nil, err
	}
	return &TransactionDetailsResponse{NVPResponse: r}, nil
}

// TransactionDetailsResponse is the result of GetTransactionDetails.
type TransactionDetailsResponse struct {
	*NVPResponse
}

// TransactionID returns TRANSACTIONID.
func (r *TransactionDetailsResponse) TransactionID() (string, error) {
	return r.Lookup("TRANSACTIONID")
}

// PaymentStatus returns PAYMENTSTATUS.
func (r *TransactionDetailsResponse) PaymentStatus() (string, error) {
	return r.Lookup("PAYMENTSTATUS")
}

// Amount returns AMT.
func (r *TransactionDetailsResponse) Amount() (decimal.Decimal, error) {
	return r.decimal("AMT")
}

// FeeAmount returns FEEAMT.
func (r *TransactionDetailsResponse) FeeAmount() (decimal.Decimal, error) {
	return r.decimal("FEEAMT")
}

// CurrencyCode returns CURRENCYCODE.
func (r *TransactionDetailsResponse) CurrencyCode() (string, error) {
	return r.Lookup("CURRENCYCODE")
}

// PayerEmail returns EMAIL.
func (r *TransactionDetailsResponse) PayerEmail() (string, error) {
	return r.Lookup("EMAIL")
}

// OrderTime returns ORDERTIME.
func (r *TransactionDetailsResponse) OrderTime() (time.Time, error) {
	v, err := r.Lookup("ORDERTIME")
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, &ResponseParseError{Field: "ORDERTIME", Err: err}
	}
	return t, nil
}

func (r *TransactionDetailsResponse) decimal(key string) (decimal.Decimal, error) {
	v, err := r.Lookup(key)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, &ResponseParseError{Field: key, Err: err}
	}
	return d, nil
}

// Item is one line of a transaction's cart.
type Item struct {
	Name     string              `json:"name"`
	Number   string              `json:"number,omitempty"`
	Quantity string              `json:"quantity,omitempty"`
	Amount   decimal.NullDecimal `json:"amount"`
}

// Items returns the L_NAME/L_NUMBER/L_QTY/L_AMT cart lines.
func (r *TransactionDetailsResponse) Items() ([]Item, error) {
	c, err := r.Collapsed()
	if err != nil {
		return nil, err
	}
	var items []Item
	for e := range c.ZipFields("NAME", "NUMBER", "QTY", "AMT") {
		name, _ := e.Get("NAME")
		number, _ := e.Get("NUMBER")
		qty, _ := e.Get("QTY")
		amount, err := parseAmount(e, "AMT")
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Name: name, Number: number, Quantity: qty, Amount: amount})
	}
	return items, nil
}
