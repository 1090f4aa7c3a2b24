package enums

import "fmt"

// Dimension is the grouping axis for attribution reports.
type Dimension string

const (
	DimensionSource Dimension = "source"
	DimensionAd     Dimension = "ad"
)

// IsValid reports whether the value is a known Dimension.
func (d Dimension) IsValid() bool {
	return d == DimensionSource || d == DimensionAd
}

// ParseDimension converts raw input into a Dimension.
func ParseDimension(value string) (Dimension, error) {
	candidate := Dimension(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid dimension %q", value)
}
