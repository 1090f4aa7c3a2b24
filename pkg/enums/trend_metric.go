package enums

import "fmt"

// TrendMetric selects which event stream feeds the time-series buckets.
type TrendMetric string

const (
	TrendMetricLeads    TrendMetric = "leads"
	TrendMetricDealsWon TrendMetric = "deals_won"
	TrendMetricRevenue  TrendMetric = "revenue"
)

var validTrendMetrics = []TrendMetric{
	TrendMetricLeads,
	TrendMetricDealsWon,
	TrendMetricRevenue,
}

// IsValid reports whether the value is a known TrendMetric.
func (t TrendMetric) IsValid() bool {
	for _, candidate := range validTrendMetrics {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrendMetric converts raw input into a TrendMetric.
func ParseTrendMetric(value string) (TrendMetric, error) {
	for _, candidate := range validTrendMetrics {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trend metric %q", value)
}
