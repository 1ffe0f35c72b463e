// Package constants provides shared constants for the networth-forecast application.
package constants

// Projection constants
const (
	// DefaultProjectionYears is the projection horizon used before any settings are stored
	DefaultProjectionYears = 10

	// DefaultStartingAge is the age suggested for the first record of an empty store
	DefaultStartingAge = 37

	// MaxProjectionYears is the longest projection horizon accepted in settings
	MaxProjectionYears = 100

	// MilestoneHorizonYears is the maximum number of years searched for a milestone
	MilestoneHorizonYears = 50

	// ChartHistoryPoints is the number of trailing historical points charted with a projection
	ChartHistoryPoints = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Milestone thresholds
const (
	// FiveMillion is the first net worth milestone
	FiveMillion = 5_000_000.0

	// TenMillion is the second net worth milestone
	TenMillion = 10_000_000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Storage driver constants
const (
	// StorageDriverSQLite persists records in a SQLite database file
	StorageDriverSQLite = "sqlite"

	// StorageDriverMemory keeps records in process memory
	StorageDriverMemory = "memory"

	// DefaultStoragePath is the default SQLite database file
	DefaultStoragePath = "networth.db"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "NETWORTH"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the JSON API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
