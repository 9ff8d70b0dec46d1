package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newXPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xp <userID>",
		Short: "Show a user's XP, level and earned badges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack()
			if err != nil {
				return err
			}
			profile, err := s.engine.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sum := profile.Summary
			fmt.Fprintf(out, "xp=%d level=%d progress=%d%% next=%d\n", sum.TotalXP, sum.Level, sum.Progress, sum.XPForNextLevel)
			for _, b := range profile.Earned {
				fmt.Fprintf(out, "  %s (+%d) %s\n", b.ID, b.XP, b.EarnedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}
