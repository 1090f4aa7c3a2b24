package analytics

import (
	"sort"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

// tally is the intermediate per-grouping-key accumulation before metric
// derivation. Money stays in cents until computeRow.
type tally struct {
	spendCents   int64
	leads        int64
	dealsWon     int64
	revenueCents int64
}

// joinDimension buckets spend, leads and won deals into per-key tallies on
// one dimension. A key present on only one side still yields a row.
//
// The lead index covers every provided lead regardless of window, so a deal
// closing inside the window still resolves its key when its lead was created
// earlier; only in-window leads count toward the lead tally.
func joinDimension(ds Dataset, window Window, dim enums.Dimension) map[string]*tally {
	tallies := map[string]*tally{}
	bucket := func(key string) *tally {
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
		}
		return t
	}

	for _, spend := range ds.Spend {
		if !window.Contains(spend.Date) {
			continue
		}
		bucket(attribution.SpendKey(spend.Source, spend.AdID, dim)).spendCents += spend.AmountCents
	}

	leadKeys := make(map[uuid.UUID]string, len(ds.Leads))
	for _, lead := range ds.Leads {
		key := attribution.SnapshotKey(snapshotOf(lead.Attribution), dim)
		leadKeys[lead.ID] = key
		if window.Contains(lead.CreatedAt) {
			bucket(key).leads++
		}
	}

	for _, deal := range ds.Deals {
		if deal.Status != enums.DealStatusWon || deal.ClosedAt == nil {
			continue
		}
		if !window.Contains(*deal.ClosedAt) {
			continue
		}
		key, ok := leadKeys[deal.LeadID]
		if !ok {
			key = attribution.UnattributedKey
		}
		t := bucket(key)
		t.dealsWon++
		t.revenueCents += deal.ValueCents
	}

	return tallies
}

func snapshotOf(snap *types.AttributionSnapshot) *types.AttributionSnapshot {
	if snap == nil || snap.IsEmpty() {
		return nil
	}
	return snap
}

// buildRows derives metric rows from tallies in the report's canonical
// order: descending spend, ties broken by ascending key.
func buildRows(tallies map[string]*tally) []AttributionRow {
	rows := make([]AttributionRow, 0, len(tallies))
	for key, t := range tallies {
		rows = append(rows, computeRow(key, *t))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalSpend != rows[j].TotalSpend {
			return rows[i].TotalSpend > rows[j].TotalSpend
		}
		return rows[i].GroupingKey < rows[j].GroupingKey
	})
	return rows
}

// summarize folds all tallies of one dimension into a single overall row.
func summarize(tallies map[string]*tally) AttributionRow {
	var total tally
	for _, t := range tallies {
		total.spendCents += t.spendCents
		total.leads += t.leads
		total.dealsWon += t.dealsWon
		total.revenueCents += t.revenueCents
	}
	return computeRow("summary", total)
}
