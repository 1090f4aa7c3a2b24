package analytics

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// dollars converts exact cents into a two-decimal dollar amount.
func dollars(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(oneHundred).InexactFloat64()
}

// perUnit divides cents by a count and rounds the resulting dollar amount
// half-up to two decimals. Zero counts yield zero, never a division error.
func perUnit(cents, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return decimal.NewFromInt(cents).
		Div(decimal.NewFromInt(count).Mul(oneHundred)).
		Round(2).
		InexactFloat64()
}

// safeRatio returns num/denom as an unrounded fraction, 0 when denom is 0.
func safeRatio(num, denom int64) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// computeRow derives the full metric line from one grouping key's tallies.
// Policy choices, deliberate and load-bearing for callers:
//   - every zero-denominator derivation returns exactly 0, never NaN/Inf;
//   - return on ad spend is 0 when spend is 0 even if revenue exists.
func computeRow(key string, t tally) AttributionRow {
	return AttributionRow{
		GroupingKey:        key,
		TotalSpend:         dollars(t.spendCents),
		TotalLeads:         t.leads,
		CostPerLead:        perUnit(t.spendCents, t.leads),
		TotalDealsWon:      t.dealsWon,
		CostPerAcquisition: perUnit(t.spendCents, t.dealsWon),
		ConversionRate:     safeRatio(t.dealsWon, t.leads),
		GrossRevenue:       dollars(t.revenueCents),
		DirectCost:         dollars(t.spendCents),
		NetProfit:          dollars(t.revenueCents - t.spendCents),
		ReturnOnAdSpend:    safeRatio(t.revenueCents, t.spendCents),
	}
}
