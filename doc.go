// Package paypal provides a Go client for PayPal's classic APIs: Adaptive
// Payments, Permissions and the merchant NVP API.
//
// Basic usage:
//
//	client, err := paypal.New(paypal.Config{
//	    Environment: paypal.Sandbox(),
//	    UserID:      "seller_api1.example.com",
//	    Password:    "...",
//	    Signature:   "...",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	receiver, _ := paypal.NewReceiver("buyer@example.com", decimal.RequireFromString("10.00"))
//	resp, err := client.AdaptivePayments().PaySimple(ctx, receiver, &paypal.PayRequest{
//	    ReturnURL: "https://shop.example.com/return",
//	    CancelURL: "https://shop.example.com/cancel",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := resp.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send the buyer to PayPal to approve the payment
//	redirect, err := resp.RedirectURL()
//
// Calls return an error only when the request could not be made or the
// response could not be read. A response whose ack is Failure is returned
// normally; check Success or Err.
//
// The nvp subpackage decodes PayPal's name-value-pair responses on its own.
package paypal
