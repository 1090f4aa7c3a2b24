package enums

import "testing"

func TestDealStageRankOrdering(t *testing.T) {
	prev := 0
	for _, stage := range OrderedDealStages {
		rank, ok := stage.Rank()
		if !ok {
			t.Fatalf("stage %s should have a rank", stage)
		}
		if rank <= prev {
			t.Fatalf("stage %s rank %d is not strictly increasing", stage, rank)
		}
		prev = rank
	}
}

func TestClosedLostExcludedFromProgression(t *testing.T) {
	if _, ok := DealStageClosedLost.Rank(); ok {
		t.Fatalf("closed_lost must not participate in the ordered progression")
	}
	if !DealStageClosedLost.IsValid() {
		t.Fatalf("closed_lost is still a valid stage")
	}
}

func TestParseDealStageRejectsUnknown(t *testing.T) {
	if _, err := ParseDealStage("daydreaming"); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
	stage, err := ParseDealStage("proposal")
	if err != nil || stage != DealStageProposal {
		t.Fatalf("expected proposal, got %v (%v)", stage, err)
	}
}
