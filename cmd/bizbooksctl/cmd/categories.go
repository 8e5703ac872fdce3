package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	var group string
	c := &cobra.Command{
		Use:   "categories",
		Short: "List the transaction categories in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "# taxonomy version %d\n", a.Categories.Version())
			fmt.Fprintln(tw, "NAME\tGROUP\tEFFECT\tPARTY\tNATURE\tSIGN")
			for _, cat := range a.Categories.All() {
				if group != "" && cat.Group != group {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", cat.Name, cat.Group, cat.LedgerEffect, cat.RelevantTo, cat.NatureHint, cat.AmountSign)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&group, "group", "", "only list categories of this group")
	return c
}
