package analytics

import (
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

const unknownStageBucket = "unknown"

// ComputeFunnel counts, for every ordered stage, the deals at or beyond that
// stage. A deal at negotiation has passed through every earlier stage, so
// counts are non-increasing along the progression except for deals created
// directly into a later stage. Closed-lost deals sit outside the progression
// and get their own trailing row, as do deals with an unrecognized stage.
func ComputeFunnel(deals []models.Deal) []FunnelStage {
	var lost, unknown int64
	rankCounts := make([]int64, len(enums.OrderedDealStages))

	for _, deal := range deals {
		if deal.Stage == enums.DealStageClosedLost {
			lost++
			continue
		}
		rank, ok := deal.Stage.Rank()
		if !ok {
			unknown++
			continue
		}
		// at-or-beyond: one deal increments every stage up to its rank.
		for i := 0; i < rank; i++ {
			rankCounts[i]++
		}
	}

	first := int64(0)
	if len(rankCounts) > 0 {
		first = rankCounts[0]
	}

	stages := make([]FunnelStage, 0, len(enums.OrderedDealStages)+2)
	for i, stage := range enums.OrderedDealStages {
		stages = append(stages, FunnelStage{
			Stage:          stage.String(),
			Count:          rankCounts[i],
			ConversionRate: safeRatio(rankCounts[i], first),
		})
	}

	stages = append(stages, FunnelStage{Stage: enums.DealStageClosedLost.String(), Count: lost})
	if unknown > 0 {
		stages = append(stages, FunnelStage{Stage: unknownStageBucket, Count: unknown})
	}
	return stages
}
