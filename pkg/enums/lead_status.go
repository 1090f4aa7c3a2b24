package enums

import "fmt"

// LeadStatus is the qualification state of a captured lead.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusDisqualified LeadStatus = "disqualified"
	LeadStatusConverted    LeadStatus = "converted"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusDisqualified,
	LeadStatusConverted,
}

// IsValid reports whether the value is a known LeadStatus.
func (l LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLeadStatus converts raw input into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
