package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/networth-forecast/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapPresets maps logging.format to the zap preset it starts from.
var zapPresets = map[string]func() zap.Config{
	"":        zap.NewProductionConfig,
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// zapConfig translates the logging section, already merged with flags and
// NETWORTH_LOGGING_* variables by viper, into a zap configuration.
func zapConfig(lc config.LoggingConfig) (zap.Config, error) {
	preset, ok := zapPresets[strings.ToLower(lc.Format)]
	if !ok {
		return zap.Config{}, fmt.Errorf("invalid log format: %s", lc.Format)
	}

	name := strings.ToLower(lc.Level)
	if name == "warning" {
		name = "warn"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level: %s", lc.Level)
	}

	zc := preset()
	zc.Level = zap.NewAtomicLevelAt(level)

	if lc.OutputFile != "" {
		zc.OutputPaths = []string{lc.OutputFile}
		zc.ErrorOutputPaths = []string{lc.OutputFile}
	}
	return zc, nil
}

// newLogger builds the logger for lc. A configured output file and its
// directory are created up front so a bad path fails before any command runs.
func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc, err := zapConfig(lc)
	if err != nil {
		return nil, err
	}

	if lc.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(lc.OutputFile), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(lc.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", lc.OutputFile, err)
		}
		_ = f.Close()
	}

	return zc.Build()
}
