package enums

import "fmt"

// CohortInterval selects the calendar period that groups leads into cohorts.
type CohortInterval string

const (
	CohortIntervalMonth   CohortInterval = "month"
	CohortIntervalQuarter CohortInterval = "quarter"
)

var validCohortIntervals = []CohortInterval{
	CohortIntervalMonth,
	CohortIntervalQuarter,
}

// IsValid reports whether the value is a known CohortInterval.
func (c CohortInterval) IsValid() bool {
	for _, candidate := range validCohortIntervals {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCohortInterval converts raw input into a CohortInterval.
func ParseCohortInterval(value string) (CohortInterval, error) {
	for _, candidate := range validCohortIntervals {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cohort interval %q", value)
}
