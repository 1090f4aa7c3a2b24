package enums

import "fmt"

// TrendInterval selects the calendar bucket size for time-series queries.
type TrendInterval string

const (
	TrendIntervalDay   TrendInterval = "day"
	TrendIntervalWeek  TrendInterval = "week"
	TrendIntervalMonth TrendInterval = "month"
)

var validTrendIntervals = []TrendInterval{
	TrendIntervalDay,
	TrendIntervalWeek,
	TrendIntervalMonth,
}

// IsValid reports whether the value is a known TrendInterval.
func (t TrendInterval) IsValid() bool {
	for _, candidate := range validTrendIntervals {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrendInterval converts raw input into a TrendInterval.
func ParseTrendInterval(value string) (TrendInterval, error) {
	for _, candidate := range validTrendIntervals {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trend interval %q", value)
}
