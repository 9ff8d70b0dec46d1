package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every badge with its trigger and XP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tXP\tTRIGGER")
			total := 0
			for _, b := range services.DefaultCatalog().All() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", b.ID, b.Category, b.XP, b.Trigger)
				total += b.XP
			}
			fmt.Fprintf(w, "\t\t%d\ttotal\n", total)
			return w.Flush()
		},
	}
}
