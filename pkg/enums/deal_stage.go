package enums

import "fmt"

// DealStage is the ordered pipeline stage of a deal. The order of
// stageRanks encodes the funnel progression; ClosedLost is terminal and
// deliberately outside the ordered sequence.
type DealStage string

const (
	DealStageProspecting   DealStage = "prospecting"
	DealStageQualification DealStage = "qualification"
	DealStageDiscovery     DealStage = "discovery"
	DealStageProposal      DealStage = "proposal"
	DealStageNegotiation   DealStage = "negotiation"
	DealStageClosedWon     DealStage = "closed_won"
	DealStageClosedLost    DealStage = "closed_lost"
)

var stageRanks = map[DealStage]int{
	DealStageProspecting:   1,
	DealStageQualification: 2,
	DealStageDiscovery:     3,
	DealStageProposal:      4,
	DealStageNegotiation:   5,
	DealStageClosedWon:     6,
}

// OrderedDealStages lists the funnel progression from first touch to won.
var OrderedDealStages = []DealStage{
	DealStageProspecting,
	DealStageQualification,
	DealStageDiscovery,
	DealStageProposal,
	DealStageNegotiation,
	DealStageClosedWon,
}

// String implements fmt.Stringer.
func (d DealStage) String() string {
	return string(d)
}

// Rank returns the stage position in the funnel progression (1-based) and
// whether the stage participates in the progression at all. ClosedLost and
// unknown stages report ok=false.
func (d DealStage) Rank() (int, bool) {
	rank, ok := stageRanks[d]
	return rank, ok
}

// IsValid reports whether the value is a known DealStage, terminal stages
// included.
func (d DealStage) IsValid() bool {
	if d == DealStageClosedLost {
		return true
	}
	_, ok := stageRanks[d]
	return ok
}

// ParseDealStage converts raw input into a DealStage.
func ParseDealStage(value string) (DealStage, error) {
	candidate := DealStage(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid deal stage %q", value)
}
