package paypal

import (
	"fmt"
	"strings"
)

// Environment names accepted by ParseEnvironment.
const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// SandboxApplicationID is the global application id PayPal issues for the
// sandbox. Production applications get their own id.
const SandboxApplicationID = "APP-80W284485P519543T"

// Environment holds the endpoint table of one PayPal environment.
type Environment struct {
	Name          string
	ApplicationID string

	AdaptivePayments AdaptivePaymentsEndpoints
	Permissions      PermissionsEndpoints
	Merchant         MerchantEndpoints
}

// AdaptivePaymentsEndpoints lists the Adaptive Payments URLs.
type AdaptivePaymentsEndpoints struct {
	AuthorizationRedirect string
	PreapprovalRedirect   string

	Pay                string
	PaymentDetails     string
	Preapproval        string
	PreapprovalDetails string
	CancelPreapproval  string
	Refund             string
}

// PermissionsEndpoints lists the Permissions service URLs.
type PermissionsEndpoints struct {
	GrantPermissionRedirect string

	RequestPermissions string
	GetAccessToken     string
	GetPermissions     string
	CancelPermissions  string
}

// MerchantEndpoints lists the classic NVP API URL.
type MerchantEndpoints struct {
	NVP string
}

// Sandbox returns the sandbox endpoint table.
func Sandbox() Environment {
	env := NewEnvironment(EnvironmentSandbox,
		"https://svcs.sandbox.paypal.com",
		"https://www.sandbox.paypal.com",
		"https://api-3t.sandbox.paypal.com/nvp",
	)
	env.ApplicationID = SandboxApplicationID
	return env
}

// Production returns the live endpoint table. It has no default
// application id.
func Production() Environment {
	return NewEnvironment(EnvironmentProduction,
		"https://svcs.paypal.com",
		"https://www.paypal.com",
		"https://api-3t.paypal.com/nvp",
	)
}

// NewEnvironment builds an endpoint table from the service base URL
// (svcs.*), the web base URL used for redirects (www.*) and the NVP URL.
// It is useful for proxies and test servers.
func NewEnvironment(name, serviceBase, webBase, nvpURL string) Environment {
	serviceBase = strings.TrimRight(serviceBase, "/")
	webBase = strings.TrimRight(webBase, "/")

	ap := serviceBase + "/AdaptivePayments/"
	perm := serviceBase + "/Permissions/"
	webscr := webBase + "/cgi-bin/webscr?cmd="

	return Environment{
		Name: name,
		AdaptivePayments: AdaptivePaymentsEndpoints{
			AuthorizationRedirect: webscr + "_ap-payment",
			PreapprovalRedirect:   webscr + "_ap-preapproval",
			Pay:                   ap + "Pay",
			PaymentDetails:        ap + "PaymentDetails",
			Preapproval:           ap + "Preapproval",
			PreapprovalDetails:    ap + "PreapprovalDetails",
			CancelPreapproval:     ap + "CancelPreapproval",
			Refund:                ap + "Refund",
		},
		Permissions: PermissionsEndpoints{
			GrantPermissionRedirect: webscr + "_grant-permission",
			RequestPermissions:      perm + "RequestPermissions/",
			GetAccessToken:          perm + "GetAccessToken/",
			GetPermissions:          perm + "GetPermissions/",
			CancelPermissions:       perm + "CancelPermissions/",
		},
		Merchant: MerchantEndpoints{
			NVP: nvpURL,
		},
	}
}

// ParseEnvironment returns the endpoint table for "sandbox" or
// "production" (case-insensitive).
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EnvironmentSandbox:
		return Sandbox(), nil
	case EnvironmentProduction, "live":
		return Production(), nil
	}
	return Environment{}, fmt.Errorf("unknown PayPal environment %q", name)
}
