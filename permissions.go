package paypal

import (
	"context"
	"net/url"
	"slices"
)

// Scope is a permission a third-party account can grant.
type Scope string

// Scopes used by the merchant API.
const (
	ScopeTransactionSearch  Scope = "TRANSACTION_SEARCH"
	ScopeTransactionDetails Scope = "TRANSACTION_DETAILS"
)

// Token is a permission access token with its secret. It authorizes calls
// on behalf of the account that granted it.
type Token struct {
	Token  string
	Secret string
}

// PermissionsService calls the Permissions API.
type PermissionsService struct {
	client *Client
}

// RequestPermissions starts a permission grant. The account holder must be
// sent to the response's RedirectURL; PayPal then redirects to callback
// with a request token and verifier for GetAccessToken.
func (s *PermissionsService) RequestPermissions(ctx context.Context, callback string, scopes ...Scope) (*RequestPermissionsResponse, error) {
	var problems []string
	if len(scopes) == 0 {
		problems = append(problems, "at least one scope is required")
	}
	if callback == "" {
		problems = append(problems, "callback is required")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}

	payload := struct {
		Scope           []Scope         `json:"scope"`
		Callback        string          `json:"callback"`
		RequestEnvelope requestEnvelope `json:"requestEnvelope"`
	}{scopes, callback, defaultEnvelope()}

	c := s.client
	resp := &RequestPermissionsResponse{}
	if err := c.postJSON(ctx, "RequestPermissions", c.config.Environment.Permissions.RequestPermissions, payload, resp); err != nil {
		return nil, err
	}
	resp.redirect = c.config.Environment.Permissions.GrantPermissionRedirect
	return resp, nil
}

// RequestPermissionsResponse is the result of RequestPermissions.
type RequestPermissionsResponse struct {
	JSONResponse

	TokenValue *string `json:"token"`

	redirect string
}

// Token returns the request token.
func (r *RequestPermissionsResponse) Token() (string, error) {
	return required("token", r.TokenValue)
}

// RedirectURL returns the URL where the account holder grants permission.
func (r *RequestPermissionsResponse) RedirectURL() (string, error) {
	token, err := r.Token()
	if err != nil {
		return "", err
	}
	return r.redirect + "&request_token=" + url.QueryEscape(token), nil
}

// GetAccessToken exchanges a request token and verifier for an access
// token.
func (s *PermissionsService) GetAccessToken(ctx context.Context, requestToken, verifier string) (*GetAccessTokenResponse, error) {
	var problems []string
	if requestToken == "" {
		problems = append(problems, "request token is required")
	}
	if verifier == "" {
		problems = append(problems, "verifier is required")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}

	payload := struct {
		Token           string          `json:"token"`
		Verifier        string          `json:"verifier"`
		RequestEnvelope requestEnvelope `json:"requestEnvelope"`
	}{requestToken, verifier, defaultEnvelope()}

	c := s.client
	resp := &GetAccessTokenResponse{}
	if err := c.postJSON(ctx, "GetAccessToken", c.config.Environment.Permissions.GetAccessToken, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAccessTokenResponse is the result of GetAccessToken.
type GetAccessTokenResponse struct {
	JSONResponse

	TokenValue       *string `json:"token"`
	TokenSecretValue *string `json:"tokenSecret"`
}

// Token returns the access token.
func (r *GetAccessTokenResponse) Token() (string, error) {
	return required("token", r.TokenValue)
}

// TokenSecret returns the access token's secret.
func (r *GetAccessTokenResponse) TokenSecret() (string, error) {
	return required("tokenSecret", r.TokenSecretValue)
}

// AccessToken returns both parts of the token.
func (r *GetAccessTokenResponse) AccessToken() (Token, error) {
	token, err := r.Token()
	if err != nil {
		return Token{}, err
	}
	secret, err := r.TokenSecret()
	if err != nil {
		return Token{}, err
	}
	return Token{Token: token, Secret: secret}, nil
}

type tokenPayload struct {
	Token           string          `json:"token"`
	RequestEnvelope requestEnvelope `json:"requestEnvelope"`
}

func tokenRequired(token string) error {
	if token == "" {
		return &ValidationError{Errors: []string{"access token is required"}}
	}
	return nil
}

// GetPermissions lists the scopes granted to an access token.
func (s *PermissionsService) GetPermissions(ctx context.Context, accessToken string) (*GetPermissionsResponse, error) {
	if err := tokenRequired(accessToken); err != nil {
		return nil, err
	}
	c := s.client
	resp := &GetPermissionsResponse{}
	payload := tokenPayload{Token: accessToken, RequestEnvelope: defaultEnvelope()}
	if err := c.postJSON(ctx, "GetPermissions", c.config.Environment.Permissions.GetPermissions, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetPermissionsResponse is the result of GetPermissions.
type GetPermissionsResponse struct {
	JSONResponse

	ScopeValue *[]Scope `json:"scope"`
}

// Scope returns the granted scopes.
func (r *GetPermissionsResponse) Scope() ([]Scope, error) {
	if r.ScopeValue == nil {
		return nil, missing("scope")
	}
	return *r.ScopeValue, nil
}

// Has reports whether scope was granted.
func (r *GetPermissionsResponse) Has(scope Scope) bool {
	if r.ScopeValue == nil {
		return false
	}
	return slices.Contains(*r.ScopeValue, scope)
}

// CancelPermissions revokes an access token.
func (s *PermissionsService) CancelPermissions(ctx context.Context, accessToken string) (*JSONResponse, error) {
	if err := tokenRequired(accessToken); err != nil {
		return nil, err
	}
	c := s.client
	resp := &JSONResponse{}
	payload := tokenPayload{Token: accessToken, RequestEnvelope: defaultEnvelope()}
	if err := c.postJSON(ctx, "CancelPermissions", c.config.Environment.Permissions.CancelPermissions, payload, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
