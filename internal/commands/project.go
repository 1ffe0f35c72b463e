package commands

import (
	"github.com/iwvelando/networth-forecast/internal/forecast"
	"github.com/iwvelando/networth-forecast/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Show the dashboard: summary, projection and milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStores(func(s *stores) error {
				dash, err := forecast.GetDashboard(cmd.Context(), a.logger, s.records, s.settings, a.conf.Milestones...)
				if err != nil {
					return err
				}
				return output.Dashboard(cmd.OutOrStdout(), a.conf.Output.Format, dash)
			})
		},
	}
}
