// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/networth-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateStorageDriver checks if the storage driver is one of the supported backends.
func ValidateStorageDriver(driver string) error {
	if driver != constants.StorageDriverSQLite && driver != constants.StorageDriverMemory {
		return fmt.Errorf("expected storage driver of %s or %s, got %s",
			constants.StorageDriverSQLite, constants.StorageDriverMemory, driver)
	}
	return nil
}
