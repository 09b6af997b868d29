package cli

import (
	"github.com/spf13/cobra"

	paypal "github.com/brstrat/paypal-go"
)

func paymentDetailsCmd(g *globalFlags) *cobra.Command {
	var req paypal.PaymentDetailsRequest

	cmd := &cobra.Command{
		Use:   "payment-details [pay-key]",
		Short: "Show an Adaptive Payments payment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.PayKey = args[0]
			}
			client, err := g.client()
			if err != nil {
				return err
			}
			resp, err := client.AdaptivePayments().PaymentDetails(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printResult(cmd, resp, resp.Err())
		},
	}

	cmd.Flags().StringVar(&req.TrackingID, "tracking-id", "", "look up by tracking id")
	cmd.Flags().StringVar(&req.TransactionID, "transaction-id", "", "look up by transaction id")
	return cmd
}

func preapprovalDetailsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preapproval-details <preapproval-key>",
		Short: "Show a preapproval and whether it can be charged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			resp, err := client.AdaptivePayments().PreapprovalDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, resp, resp.Err())
		},
	}
}

func permissionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions <access-token>",
		Short: "List the scopes granted to an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			resp, err := client.Permissions().GetPermissions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, resp, resp.Err())
		},
	}
}
