package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

// ComputeCohorts groups leads by the calendar period containing their
// creation time and measures conversion into a won deal within the
// observation window. A lead with no linked deal counts toward its cohort
// total and never toward converted.
func ComputeCohorts(ds Dataset, interval enums.CohortInterval, observationDays int) []CohortItem {
	firstWonAt := map[uuid.UUID]time.Time{}
	for _, deal := range ds.Deals {
		if deal.Status != enums.DealStatusWon || deal.ClosedAt == nil {
			continue
		}
		closed := deal.ClosedAt.UTC()
		if prev, ok := firstWonAt[deal.LeadID]; !ok || closed.Before(prev) {
			firstWonAt[deal.LeadID] = closed
		}
	}

	observation := time.Duration(observationDays) * 24 * time.Hour
	totals := map[string]*CohortItem{}
	for _, lead := range ds.Leads {
		key := cohortKey(lead.CreatedAt, interval)
		item, ok := totals[key]
		if !ok {
			item = &CohortItem{Cohort: key}
			totals[key] = item
		}
		item.TotalLeads++

		wonAt, won := firstWonAt[lead.ID]
		if won && !wonAt.After(lead.CreatedAt.UTC().Add(observation)) {
			item.Converted++
		}
	}

	items := make([]CohortItem, 0, len(totals))
	for _, item := range totals {
		item.ConversionRate = safeRatio(item.Converted, item.TotalLeads)
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Cohort < items[j].Cohort })
	return items
}

// cohortKey labels the UTC calendar period containing ts: YYYY-MM for
// months, YYYY-Qn for quarters.
func cohortKey(ts time.Time, interval enums.CohortInterval) string {
	ts = ts.UTC()
	if interval == enums.CohortIntervalQuarter {
		quarter := (int(ts.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", ts.Year(), quarter)
	}
	return fmt.Sprintf("%04d-%02d", ts.Year(), int(ts.Month()))
}
