package commands

import (
	"fmt"

	"github.com/iwvelando/networth-forecast/internal/records"
	"github.com/iwvelando/networth-forecast/pkg/output"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// entryFlags holds the flags shared by records add and records update.
type entryFlags struct {
	year             int
	age              int
	netWorth         string
	growthPercentage string
	growthAmount     string
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.year, "year", 0, "calendar year of the record")
	fs.IntVar(&f.age, "age", 0, "age at the time of the record")
	fs.StringVar(&f.netWorth, "net-worth", "", "net worth, e.g. 1,250,000")
	fs.StringVar(&f.growthPercentage, "growth-percentage", "", "growth over the previous year in percent")
	fs.StringVar(&f.growthAmount, "growth-amount", "", "growth over the previous year in dollars")
}

func (f *entryFlags) entry(fs *pflag.FlagSet) (records.Entry, error) {
	netWorth, err := validation.ParseAmount(f.netWorth)
	if err != nil {
		return records.Entry{}, fmt.Errorf("--net-worth: %w", err)
	}
	e := records.Entry{Year: f.year, Age: f.age, NetWorth: netWorth}

	if e.GrowthPercentage, err = optionalAmount(fs, "growth-percentage", f.growthPercentage); err != nil {
		return records.Entry{}, err
	}
	if e.GrowthAmount, err = optionalAmount(fs, "growth-amount", f.growthAmount); err != nil {
		return records.Entry{}, err
	}
	return e, nil
}

// optionalAmount parses a flag value only when the flag was given.
func optionalAmount(fs *pflag.FlagSet, name, value string) (*float64, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	v, err := validation.ParseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &v, nil
}

func (a *app) newRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage yearly net worth records",
	}
	cmd.AddCommand(
		a.newRecordsListCommand(),
		a.newRecordsAddCommand(),
		a.newRecordsAppendCommand(),
		a.newRecordsUpdateCommand(),
		a.newRecordsRemoveCommand(),
		a.newRecordsSeedCommand(),
		a.newRecordsRederiveCommand(),
	)
	return cmd
}

func (a *app) newRecordsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records in year order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStores(func(s *stores) error {
				list, err := s.records.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.Records(cmd.OutOrStdout(), a.conf.Output.Format, list)
			})
		},
	}
}

func (a *app) newRecordsAddCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record, replacing any record for the same year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := f.entry(cmd.Flags())
			if err != nil {
				return err
			}
			return a.withStores(func(s *stores) error {
				id, err := s.records.Add(cmd.Context(), e)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("net-worth")
	return cmd
}

func (a *app) newRecordsAppendCommand() *cobra.Command {
	var (
		year     int
		age      int
		netWorth string
	)
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Add a record with growth derived from the previous year",
		Long: "Add a record whose growth amount and percentage are computed from the closest earlier record. " +
			"Year and age default to one past the latest record.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := validation.ParseAmount(netWorth)
			if err != nil {
				return fmt.Errorf("--net-worth: %w", err)
			}
			return a.withStores(func(s *stores) error {
				nextYear, nextAge, err := s.records.NextEntry(cmd.Context())
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("year") {
					year = nextYear
				}
				if !cmd.Flags().Changed("age") {
					age = nextAge
				}

				id, err := s.records.Append(cmd.Context(), year, age, value)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year of the record (default: next year)")
	cmd.Flags().IntVar(&age, "age", 0, "age at the time of the record (default: next age)")
	cmd.Flags().StringVar(&netWorth, "net-worth", "", "net worth, e.g. 1,250,000")
	_ = cmd.MarkFlagRequired("net-worth")
	return cmd
}

func (a *app) newRecordsUpdateCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a record",
		Long:  "Replace every field of a record. Growth of later records is not recomputed; run `records rederive` for that.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.entry(cmd.Flags())
			if err != nil {
				return err
			}
			return a.withStores(func(s *stores) error {
				if err := s.records.Update(cmd.Context(), args[0], e); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
				return err
			})
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("net-worth")
	return cmd
}

func (a *app) newRecordsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStores(func(s *stores) error {
				if err := s.records.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return err
			})
		},
	}
}

func (a *app) newRecordsSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the reference history into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStores(func(s *stores) error {
				status, err := s.records.Seed(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
				return err
			})
		},
	}
}

func (a *app) newRecordsRederiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rederive",
		Short: "Recompute every record's growth from adjacent years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStores(func(s *stores) error {
				changed, err := s.records.Rederive(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Rederived %d records\n", changed)
				return err
			})
		},
	}
}
