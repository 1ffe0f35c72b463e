package projection

import (
	"sort"

	"github.com/iwvelando/networth-forecast/pkg/constants"
)

// MilestoneStatus describes whether a net worth target is met.
type MilestoneStatus string

const (
	// MilestoneAlreadyAchieved means the latest recorded net worth already meets the target.
	MilestoneAlreadyAchieved MilestoneStatus = "already_achieved"
	// MilestoneReached means the projection meets the target within the horizon.
	MilestoneReached MilestoneStatus = "reached"
	// MilestoneNotReached means the target is not met within the horizon.
	MilestoneNotReached MilestoneStatus = "not_reached"
)

// Milestone is the estimate for one net worth target. Years, Year and Age are
// set for reached milestones; an already achieved milestone reports the
// latest record's year and age with Years = 0.
type Milestone struct {
	Target float64         `json:"target"`
	Status MilestoneStatus `json:"status"`
	Years  int             `json:"years,omitempty"`
	Year   int             `json:"year,omitempty"`
	Age    int             `json:"age,omitempty"`
}

// DefaultThresholds returns the standard $5M and $10M targets.
func DefaultThresholds() []float64 {
	return []float64{constants.FiveMillion, constants.TenMillion}
}

// MilestonesFor estimates when start reaches each threshold by compounding
// year by year for at most MilestoneHorizonYears years. Only years 1 through
// the horizon are searched and the search stops once every threshold has
// been met. Results are returned in the order the thresholds were given.
func MilestonesFor(start Record, growthPercent, contribution float64, thresholds ...float64) []Milestone {
	results := unreached(thresholds)

	// Search in ascending order so the loop can stop at the largest target.
	order := make([]int, len(thresholds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return thresholds[order[a]] < thresholds[order[b]]
	})

	current := start.NetWorth
	next := 0
	for i := 1; i <= constants.MilestoneHorizonYears && next < len(order); i++ {
		current, _ = step(current, growthPercent, contribution)
		for next < len(order) && current >= thresholds[order[next]] {
			m := &results[order[next]]
			m.Status = MilestoneReached
			m.Years = i
			m.Year = start.Year + i
			m.Age = start.Age + i
			next++
		}
	}

	for i := range results {
		if start.NetWorth >= results[i].Target {
			results[i] = Milestone{
				Target: results[i].Target,
				Status: MilestoneAlreadyAchieved,
				Year:   start.Year,
				Age:    start.Age,
			}
		}
	}

	return results
}

func unreached(thresholds []float64) []Milestone {
	results := make([]Milestone, len(thresholds))
	for i, t := range thresholds {
		results[i] = Milestone{Target: t, Status: MilestoneNotReached}
	}
	return results
}
