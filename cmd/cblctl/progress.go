package main

import (
	"fmt"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <projectID>",
		Short: "Show a project's phase flags and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack()
			if err != nil {
				return err
			}
			var project models.Project
			if err := s.projects.DB().WithContext(cmd.Context()).First(&project, "id = ?", args[0]).Error; err != nil {
				return fmt.Errorf("project %s: %w", args[0], err)
			}
			flags := services.FlagsOf(&project)
			fmt.Fprintf(cmd.OutOrStdout(), "%s phase=%s engage=%t investigate=%t act=%t progress=%d%% content=%d%%\n",
				project.Title, project.Phase, flags.Engage, flags.Investigate, flags.Act,
				services.ProjectProgress(flags), services.ContentCompleteness(&project))
			return nil
		},
	}
}
