package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

// Window is an inclusive date range. All aggregation filters timestamps into
// [From, To] on both ends.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether ts falls inside the window, inclusive.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.From) && !ts.After(w.To)
}

// Filters narrows which CRM records participate in a report. Zero values
// mean "no constraint", never "match empty".
type Filters struct {
	Source  string          `json:"source,omitempty"`
	OwnerID *uuid.UUID      `json:"owner_id,omitempty"`
	Stage   enums.DealStage `json:"stage,omitempty"`
}

// ReportFilters narrows the attribution report to a single source or ad key.
type ReportFilters struct {
	UTMSource string `json:"utm_source,omitempty"`
	AdID      string `json:"ad_id,omitempty"`
}

// Dataset is the already-fetched input to the pure aggregation core. The
// core never performs I/O; callers resolve these collections first.
type Dataset struct {
	Spend []models.SpendRecord
	Leads []models.Lead
	Deals []models.Deal
}

// AttributionRow is the per-grouping-key P&L line of an attribution report.
// Monetary fields are dollars rounded to two decimals; rates are unrounded
// fractions in [0,1].
type AttributionRow struct {
	GroupingKey        string  `json:"grouping_key"`
	TotalSpend         float64 `json:"total_spend"`
	TotalLeads         int64   `json:"total_leads"`
	CostPerLead        float64 `json:"cost_per_lead"`
	TotalDealsWon      int64   `json:"total_deals_won"`
	CostPerAcquisition float64 `json:"cost_per_acquisition"`
	ConversionRate     float64 `json:"conversion_rate"`
	GrossRevenue       float64 `json:"gross_revenue"`
	DirectCost         float64 `json:"direct_cost"`
	NetProfit          float64 `json:"net_profit"`
	ReturnOnAdSpend    float64 `json:"return_on_ad_spend"`
}

// AttributionReport is the full two-dimension attribution breakdown plus an
// overall summary in the same metric shape.
type AttributionReport struct {
	Summary  AttributionRow   `json:"summary"`
	BySource []AttributionRow `json:"by_source"`
	ByAd     []AttributionRow `json:"by_ad"`
}

// KpiSummary is the top-line pipeline health projection.
type KpiSummary struct {
	TotalLeads     int64   `json:"total_leads"`
	OpenDeals      int64   `json:"open_deals"`
	WonDeals       int64   `json:"won_deals"`
	LostDeals      int64   `json:"lost_deals"`
	PipelineValue  float64 `json:"pipeline_value"`
	WonRevenue     float64 `json:"won_revenue"`
	TotalSpend     float64 `json:"total_spend"`
	NetProfit      float64 `json:"net_profit"`
	ConversionRate float64 `json:"conversion_rate"`
	ReturnOnSpend  float64 `json:"return_on_spend"`
}

// FunnelStage is one row of the ordered funnel breakdown.
type FunnelStage struct {
	Stage          string  `json:"stage"`
	Count          int64   `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
}

// TimeSeriesPoint is one calendar bucket of a trend series. Period is the
// bucket's UTC start formatted per interval (day and week as a date, month
// as YYYY-MM).
type TimeSeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// CohortItem tracks how one creation-period cohort of leads converted
// within the observation window.
type CohortItem struct {
	Cohort         string  `json:"cohort"`
	TotalLeads     int64   `json:"total_leads"`
	Converted      int64   `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
}
