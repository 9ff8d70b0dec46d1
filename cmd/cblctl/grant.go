package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <userID> <badgeID>",
		Short: "Grant a badge by id, ignoring its trigger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack()
			if err != nil {
				return err
			}
			granted, err := s.engine.Grant(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if granted {
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", args[1], args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already has %s\n", args[0], args[1])
			}
			return nil
		},
	}
}
