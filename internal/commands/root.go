// Package commands implements the networth-forecast command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/iwvelando/networth-forecast/internal/config"
	"github.com/iwvelando/networth-forecast/internal/records"
	"github.com/iwvelando/networth-forecast/internal/settings"
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	version    string

	conf   *config.Configuration
	logger *zap.Logger
}

// stores bundles the services opened on one storage backend.
type stores struct {
	backend  storage.Backend
	records  *records.Service
	settings *settings.Service
}

func (s *stores) Close() error {
	return s.backend.Close()
}

// Execute is the main entry point called from main.go.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the full command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{v: viper.New(), version: version}

	root := &cobra.Command{
		Use:               "networth-forecast",
		Short:             "Track yearly net worth and project it forward",
		Long:              "Record your net worth once a year, then project growth and estimate when you reach $5M and $10M.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("output-format", "", "type of output override: pretty, csv, json")
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("output-format"))

	root.AddCommand(
		a.newRecordsCommand(),
		a.newSettingsCommand(),
		a.newProjectCommand(),
		a.newServeCommand(),
		a.newVersionCommand(),
	)
	return root
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	conf, err := config.Load(a.v, a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := newLogger(conf.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "commands.setup"),
		)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) openStores() (*stores, error) {
	backend, err := storage.Open(a.conf.Storage.Driver, a.conf.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", a.conf.Storage.Driver, err)
	}
	a.logger.Debug("opened storage",
		zap.String("op", "commands.openStores"),
		zap.String("driver", a.conf.Storage.Driver),
		zap.String("path", a.conf.Storage.Path),
	)

	return &stores{
		backend:  backend,
		records:  records.NewService(backend, a.logger, records.WithStartingAge(a.conf.Defaults.StartingAge)),
		settings: settings.NewService(backend, a.logger, settings.WithDefaultProjectionYears(a.conf.Defaults.ProjectionYears)),
	}, nil
}

// withStores opens the configured backend for the duration of fn.
func (a *app) withStores(fn func(*stores) error) error {
	s, err := a.openStores()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			a.logger.Warn("failed to close storage",
				zap.String("op", "commands.withStores"),
				zap.Error(closeErr),
			)
		}
	}()
	return fn(s)
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.version)
			return err
		},
	}
}
