package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/dto"
)

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	var from, to string
	c := &cobra.Command{
		Use:       "ledger (customer|entity) ID | ledger (cash|bank)",
		Short:     "Print a reconstructed ledger as JSON",
		ValidArgs: []string{"customer", "entity", "cash", "bank"},
		Args:      cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(from, to)
			if err != nil {
				return err
			}
			kind := args[0]
			var id int64
			switch kind {
			case "customer", "entity":
				if len(args) != 2 {
					return fmt.Errorf("%s ledger needs an id", kind)
				}
				id, err = strconv.ParseInt(args[1], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid id %q", args[1])
				}
			case "cash", "bank":
				if len(args) != 1 {
					return fmt.Errorf("%s ledger takes no id", kind)
				}
			default:
				return fmt.Errorf("unknown ledger %q", kind)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var snap *domain.LedgerSnapshot
			switch kind {
			case "customer":
				snap, err = a.Services.Ledger.CustomerLedger(ctx, id, window)
			case "entity":
				snap, err = a.Services.Ledger.EntityLedger(ctx, id, window)
			case "cash":
				snap, err = a.Services.Ledger.CashLedger(ctx, window)
			default:
				snap, err = a.Services.Ledger.BankLedger(ctx, window)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
	c.Flags().StringVar(&from, "from", "", "first day of the window (YYYY-MM-DD)")
	c.Flags().StringVar(&to, "to", "", "last day of the window (YYYY-MM-DD)")
	return c
}

func parseWindow(from, to string) (domain.Window, error) {
	start, err := dto.ParseDate(from)
	if err != nil {
		return domain.Window{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := dto.ParseDate(to)
	if err != nil {
		return domain.Window{}, fmt.Errorf("invalid --to: %w", err)
	}
	return domain.Window{Start: start, End: end}, nil
}
