package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	paypal "github.com/brstrat/paypal-go"
)

// Date layouts accepted by --start and --end.
var dateLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD or RFC 3339", s)
}

type tokenFlags struct {
	token  string
	secret string
}

func (f *tokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.token, "token", "", "permission access token")
	cmd.Flags().StringVar(&f.secret, "secret", "", "permission access token secret")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("secret")
}

func (f *tokenFlags) value() paypal.Token {
	return paypal.Token{Token: f.token, Secret: f.secret}
}

func transactionsCmd(g *globalFlags) *cobra.Command {
	var (
		tokens     tokenFlags
		start, end string
		req        paypal.TransactionSearchRequest
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Search the transaction history of an account that granted permission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.StartDate, err = parseDate(start); err != nil {
				return err
			}
			if req.EndDate, err = parseDate(end); err != nil {
				return err
			}

			client, err := g.client()
			if err != nil {
				return err
			}
			resp, err := client.Merchant().TransactionSearch(cmd.Context(), tokens.value(), &req)
			if err != nil {
				return err
			}
			if err := resp.Err(); err != nil {
				return err
			}
			list, err := resp.TransactionList()
			if err != nil {
				return err
			}
			if list == nil {
				list = []paypal.Transaction{}
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}

	tokens.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "earliest transaction date")
	cmd.Flags().StringVar(&end, "end", "", "latest transaction date")
	cmd.Flags().StringVar(&req.Email, "email", "", "payer email")
	cmd.Flags().StringVar(&req.Receiver, "receiver", "", "receiver email")
	cmd.Flags().StringVar(&req.TransactionID, "transaction-id", "", "transaction id")
	cmd.Flags().StringVar(&req.InvoiceNumber, "invoice", "", "invoice number")
	return cmd
}

func transactionCmd(g *globalFlags) *cobra.Command {
	var tokens tokenFlags

	cmd := &cobra.Command{
		Use:   "transaction <id>",
		Short: "Show one transaction of an account that granted permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			resp, err := client.Merchant().GetTransactionDetails(cmd.Context(), tokens.value(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, resp, resp.Err())
		},
	}

	tokens.register(cmd)
	return cmd
}

// printResult writes the response and then reports a failed ack.
func printResult(cmd *cobra.Command, resp any, ackErr error) error {
	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	return ackErr
}
