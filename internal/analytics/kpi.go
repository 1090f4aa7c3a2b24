package analytics

import "github.com/angelmondragon/funnelsight-backend/pkg/enums"

// ComputeKpis folds the dataset into the top-line pipeline summary for the
// window. Open and lost deals are counted by creation time, won deals and
// revenue by close time, matching the attribution join.
func ComputeKpis(ds Dataset, window Window) KpiSummary {
	var summary KpiSummary
	var spendCents, pipelineCents, revenueCents int64

	for _, spend := range ds.Spend {
		if window.Contains(spend.Date) {
			spendCents += spend.AmountCents
		}
	}

	for _, lead := range ds.Leads {
		if window.Contains(lead.CreatedAt) {
			summary.TotalLeads++
		}
	}

	for _, deal := range ds.Deals {
		switch deal.Status {
		case enums.DealStatusWon:
			if deal.ClosedAt != nil && window.Contains(*deal.ClosedAt) {
				summary.WonDeals++
				revenueCents += deal.ValueCents
			}
		case enums.DealStatusLost:
			if deal.ClosedAt != nil && window.Contains(*deal.ClosedAt) {
				summary.LostDeals++
			}
		default:
			if window.Contains(deal.CreatedAt) {
				summary.OpenDeals++
				pipelineCents += deal.ValueCents
			}
		}
	}

	summary.PipelineValue = dollars(pipelineCents)
	summary.WonRevenue = dollars(revenueCents)
	summary.TotalSpend = dollars(spendCents)
	summary.NetProfit = dollars(revenueCents - spendCents)
	summary.ConversionRate = safeRatio(summary.WonDeals, summary.TotalLeads)
	summary.ReturnOnSpend = safeRatio(revenueCents, spendCents)
	return summary
}
