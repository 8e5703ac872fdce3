package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStockAuditCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "stock-audit",
		Short: "Compare stored stock levels with the transaction log",
		Long: `Recomputes every product's stock from its opening stock and the line items of
the transaction log, and lists the products whose stored level disagrees.
Exits non-zero when any discrepancy is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			discrepancies, err := a.Services.Reporting.StockAudit(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, discrepancies); err != nil {
					return err
				}
			} else if len(discrepancies) == 0 {
				fmt.Fprintln(out, "stock levels agree with the transaction log")
			} else {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PRODUCT\tNAME\tSTORED\tEXPECTED")
				for _, d := range discrepancies {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", d.ProductID, d.Name, d.CurrentStock, d.ExpectedStock)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if len(discrepancies) > 0 {
				return fmt.Errorf("%d product(s) out of step with the log", len(discrepancies))
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print discrepancies as JSON")
	return c
}
