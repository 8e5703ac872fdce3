package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func newAccrualCmd(opts *rootOptions) *cobra.Command {
	var asOf string
	c := &cobra.Command{
		Use:   "accrual AGREEMENT_ID",
		Short: "Print the interest position of an agreement as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid agreement id %q", args[0])
			}
			date := domain.DateOnly(time.Now().UTC())
			if asOf != "" {
				if date, err = time.Parse(domain.DateLayout, asOf); err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Services.Loan.AccrueInterest(cmd.Context(), id, date)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	c.Flags().StringVar(&asOf, "as-of", "", "accrue up to this day (YYYY-MM-DD), defaults to today")
	return c
}
