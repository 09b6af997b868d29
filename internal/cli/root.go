// Package cli implements the paypal command line tool.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	paypal "github.com/brstrat/paypal-go"
)

type globalFlags struct {
	configPath string
	envFile    string
	verbose    bool
}

// newRootCmd builds the command tree. Tests build their own tree so flags do
// not leak between runs.
func newRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "paypal",
		Short: "Call PayPal's classic APIs and decode NVP responses",
		Long: `paypal talks to PayPal's Adaptive Payments, Permissions and merchant NVP APIs.

Credentials come from a YAML file (--config) or from PAYPAL_* environment
variables, optionally loaded from a .env file (--env-file).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file with PAYPAL_* variables")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log requests and responses")

	root.AddCommand(decodeCmd())
	root.AddCommand(transactionsCmd(flags))
	root.AddCommand(transactionCmd(flags))
	root.AddCommand(paymentDetailsCmd(flags))
	root.AddCommand(preapprovalDetailsCmd(flags))
	root.AddCommand(permissionsCmd(flags))
	root.AddCommand(versionCmd(version))

	return root
}

// Execute runs the root command.
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paypal %s\n", version)
		},
	}
}

func (f *globalFlags) loadConfig() (paypal.Config, error) {
	if f.configPath != "" {
		return paypal.LoadConfig(f.configPath)
	}
	if f.envFile != "" {
		// A missing default .env is fine; the environment may already be set.
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return paypal.Config{}, fmt.Errorf("load %s: %w", f.envFile, err)
		}
	}
	return paypal.ConfigFromEnv()
}

func (f *globalFlags) logger() (*zap.Logger, error) {
	if !f.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func (f *globalFlags) client(opts ...paypal.Option) (*paypal.Client, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := f.logger()
	if err != nil {
		return nil, err
	}
	return paypal.New(cfg, append([]paypal.Option{paypal.WithLogger(logger)}, opts...)...)
}
