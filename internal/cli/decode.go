package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brstrat/paypal-go/nvp"
)

// Output shapes for decode.
const (
	formatFlat      = "flat"
	formatCollapsed = "collapsed"
	formatZip       = "zip"
)

func decodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode an NVP response body to JSON",
		Long: `decode reads a raw NVP body from a file or stdin and prints it as JSON.

  flat       every key as sent
  collapsed  L_ arrays grouped into lists (default)
  zip        one object per array position`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			out, err := decode(nvp.DecodeBytes(raw), format)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatCollapsed, "output shape: flat, collapsed or zip")
	return cmd
}

func decode(r *nvp.Record, format string) (any, error) {
	switch format {
	case formatFlat:
		return r, nil
	case formatCollapsed:
		return r.Collapse()
	case formatZip:
		c, err := r.Collapse()
		if err != nil {
			return nil, err
		}
		return c.Entries(), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
