package validation

import (
	"fmt"

	"github.com/iwvelando/networth-forecast/pkg/constants"
)

// ConfigValidator collects the configuration values that can be checked
// without touching storage.
type ConfigValidator struct {
	StorageDriver   string
	StoragePath     string
	ProjectionYears int
	StartingAge     int
	Milestones      []float64
}

// ValidateMilestones warns about thresholds that can never be reported.
func ValidateMilestones(milestones []float64) []string {
	var warnings []string

	seen := make(map[float64]bool, len(milestones))
	for _, m := range milestones {
		if m <= 0 {
			warnings = append(warnings, fmt.Sprintf("Milestone %.2f is not positive and is always achieved", m))
		}
		if seen[m] {
			warnings = append(warnings, fmt.Sprintf("Milestone %.2f is listed more than once", m))
		}
		seen[m] = true
	}

	return warnings
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.StorageDriver == constants.StorageDriverMemory {
		warnings = append(warnings, "Storage driver is memory; records are lost when the process exits")
	}
	if cv.StorageDriver == constants.StorageDriverSQLite && cv.StoragePath == "" {
		warnings = append(warnings, fmt.Sprintf("Storage path is empty; using %s", constants.DefaultStoragePath))
	}

	if cv.ProjectionYears > constants.MilestoneHorizonYears {
		warnings = append(warnings, fmt.Sprintf("Default projection of %d years exceeds the %d year milestone horizon",
			cv.ProjectionYears, constants.MilestoneHorizonYears))
	}

	if cv.StartingAge < 0 {
		warnings = append(warnings, fmt.Sprintf("Starting age %d is negative", cv.StartingAge))
	}

	warnings = append(warnings, ValidateMilestones(cv.Milestones)...)

	return warnings
}
