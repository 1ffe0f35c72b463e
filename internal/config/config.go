// Package config defines the application configuration and loads it from a
// YAML file, environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for networth-forecast.
type Configuration struct {
	Storage    StorageConfig  `yaml:"storage"`
	Logging    LoggingConfig  `yaml:"logging,omitempty"`
	Output     OutputConfig   `yaml:"output,omitempty"`
	Server     ServerConfig   `yaml:"server,omitempty"`
	Defaults   DefaultsConfig `yaml:"defaults,omitempty"`
	Milestones []float64      `yaml:"milestones,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite, memory
	Path   string `yaml:"path"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ServerConfig holds the JSON API listener options.
type ServerConfig struct {
	Address     string `yaml:"address,omitempty"`
	MaxBodySize string `yaml:"maxBodySize,omitempty"` // e.g. 256K, 1M
}

// DefaultsConfig holds the values used before anything has been stored.
type DefaultsConfig struct {
	ProjectionYears int `yaml:"projectionYears,omitempty"`
	StartingAge     int `yaml:"startingAge,omitempty"`
}

// SetDefaults registers the default value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", constants.StorageDriverSQLite)
	v.SetDefault("storage.path", constants.DefaultStoragePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", "256K")
	v.SetDefault("defaults.projectionYears", constants.DefaultProjectionYears)
	v.SetDefault("defaults.startingAge", constants.DefaultStartingAge)
	v.SetDefault("milestones", []float64{constants.FiveMillion, constants.TenMillion})
}

// Load reads configPath into v and decodes the result. A missing file is not
// an error: defaults and NETWORTH_* environment variables still apply.
func Load(v *viper.Viper, configPath string) (*Configuration, error) {
	SetDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")

		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !fileMissing(configPath) {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func fileMissing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

// Validate rejects configuration values the application cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateStorageDriver(c.Storage.Driver); err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Defaults.ProjectionYears < 1 || c.Defaults.ProjectionYears > constants.MaxProjectionYears {
		return fmt.Errorf("defaults.projectionYears must be between 1 and %d, got %d: %w",
			constants.MaxProjectionYears, c.Defaults.ProjectionYears, validation.ErrInvalidSettings)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		StorageDriver:   c.Storage.Driver,
		StoragePath:     c.Storage.Path,
		ProjectionYears: c.Defaults.ProjectionYears,
		StartingAge:     c.Defaults.StartingAge,
		Milestones:      c.Milestones,
	}
	return validator.ValidateAll()
}
