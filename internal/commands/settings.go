package commands

import (
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change projection settings",
	}
	cmd.AddCommand(a.newSettingsShowCommand(), a.newSettingsSetCommand())
	return cmd
}

func (a *app) newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the settings projections run with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStores(func(s *stores) error {
				stored, err := s.settings.Get(cmd.Context())
				if err != nil {
					return err
				}
				effective := s.settings.Defaults()
				if stored != nil {
					effective = *stored
				}
				return output.Settings(cmd.OutOrStdout(), a.conf.Output.Format, effective, stored != nil)
			})
		},
	}
}

func (a *app) newSettingsSetCommand() *cobra.Command {
	var (
		years        int
		growth       string
		contribution string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the projection settings",
		Long: "Replace the projection settings. An omitted --growth-percentage falls back to the " +
			"historical average and an omitted --contribution means no contribution.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			next := storage.Settings{ProjectionYears: years}
			var err error
			if next.CustomGrowthPercentage, err = optionalAmount(cmd.Flags(), "growth-percentage", growth); err != nil {
				return err
			}
			if next.AnnualContribution, err = optionalAmount(cmd.Flags(), "contribution", contribution); err != nil {
				return err
			}

			return a.withStores(func(s *stores) error {
				if err := s.settings.Update(cmd.Context(), next); err != nil {
					return err
				}
				return output.Settings(cmd.OutOrStdout(), a.conf.Output.Format, next, true)
			})
		},
	}
	cmd.Flags().IntVar(&years, "projection-years", 0, "number of years to project")
	cmd.Flags().StringVar(&growth, "growth-percentage", "", "custom annual growth in percent")
	cmd.Flags().StringVar(&contribution, "contribution", "", "annual contribution in dollars")
	_ = cmd.MarkFlagRequired("projection-years")
	return cmd
}
