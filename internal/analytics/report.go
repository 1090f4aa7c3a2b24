package analytics

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

// AssembleAttributionReport runs the two-dimension join over the dataset and
// composes the report. Summary is folded over the source dimension; both
// dimensions partition the same spend set, so their totals agree.
func AssembleAttributionReport(ds Dataset, window Window, filters ReportFilters) AttributionReport {
	ds = filterDataset(ds, filters)

	bySource := joinDimension(ds, window, enums.DimensionSource)
	byAd := joinDimension(ds, window, enums.DimensionAd)

	return AttributionReport{
		Summary:  summarize(bySource),
		BySource: buildRows(bySource),
		ByAd:     buildRows(byAd),
	}
}

// filterDataset narrows the input to records matching a single source or ad
// key before aggregation. Deals follow their originating lead.
func filterDataset(ds Dataset, filters ReportFilters) Dataset {
	if filters.UTMSource != "" {
		ds = filterByKey(ds, attribution.NormalizeKey(filters.UTMSource), enums.DimensionSource)
	}
	if filters.AdID != "" {
		ds = filterByKey(ds, attribution.NormalizeKey(filters.AdID), enums.DimensionAd)
	}
	return ds
}

func filterByKey(ds Dataset, want string, dim enums.Dimension) Dataset {
	out := Dataset{}

	for _, spend := range ds.Spend {
		if attribution.SpendKey(spend.Source, spend.AdID, dim) == want {
			out.Spend = append(out.Spend, spend)
		}
	}

	kept := map[uuid.UUID]bool{}
	for _, lead := range ds.Leads {
		if attribution.SnapshotKey(snapshotOf(lead.Attribution), dim) == want {
			out.Leads = append(out.Leads, lead)
			kept[lead.ID] = true
		}
	}

	for _, deal := range ds.Deals {
		if kept[deal.LeadID] {
			out.Deals = append(out.Deals, deal)
		}
	}

	return out
}
