package analytics

import (
	"fmt"
	"time"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

// trendEvent is one timestamped contribution to a series. Count metrics use
// cents=100 per event so a single dollars() pass formats every metric.
type trendEvent struct {
	at    time.Time
	cents int64
}

// trendEvents projects the dataset onto the requested metric.
func trendEvents(ds Dataset, metric enums.TrendMetric) []trendEvent {
	var events []trendEvent
	switch metric {
	case enums.TrendMetricLeads:
		for _, lead := range ds.Leads {
			events = append(events, trendEvent{at: lead.CreatedAt, cents: 100})
		}
	case enums.TrendMetricDealsWon:
		for _, deal := range ds.Deals {
			if deal.Status == enums.DealStatusWon && deal.ClosedAt != nil {
				events = append(events, trendEvent{at: *deal.ClosedAt, cents: 100})
			}
		}
	case enums.TrendMetricRevenue:
		for _, deal := range ds.Deals {
			if deal.Status == enums.DealStatusWon && deal.ClosedAt != nil {
				events = append(events, trendEvent{at: *deal.ClosedAt, cents: deal.ValueCents})
			}
		}
	}
	return events
}

// ComputeTrend buckets events into UTC calendar buckets over the window.
// Every bucket the window spans appears exactly once, zero-filled, in
// ascending order.
func ComputeTrend(ds Dataset, metric enums.TrendMetric, interval enums.TrendInterval, window Window) []TimeSeriesPoint {
	sums := map[time.Time]int64{}
	for _, ev := range trendEvents(ds, metric) {
		if !window.Contains(ev.at) {
			continue
		}
		sums[bucketStart(ev.at, interval)] += ev.cents
	}

	var points []TimeSeriesPoint
	for b := bucketStart(window.From, interval); !b.After(window.To); b = nextBucket(b, interval) {
		points = append(points, TimeSeriesPoint{
			Period: bucketLabel(b, interval),
			Value:  dollars(sums[b]),
		})
	}
	return points
}

// bucketStart truncates ts to its UTC calendar bucket boundary. Weeks are
// ISO weeks anchored on Monday 00:00 UTC.
func bucketStart(ts time.Time, interval enums.TrendInterval) time.Time {
	ts = ts.UTC()
	switch interval {
	case enums.TrendIntervalWeek:
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case enums.TrendIntervalMonth:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(b time.Time, interval enums.TrendInterval) time.Time {
	switch interval {
	case enums.TrendIntervalWeek:
		return b.AddDate(0, 0, 7)
	case enums.TrendIntervalMonth:
		return b.AddDate(0, 1, 0)
	default:
		return b.AddDate(0, 0, 1)
	}
}

func bucketLabel(b time.Time, interval enums.TrendInterval) string {
	if interval == enums.TrendIntervalMonth {
		return fmt.Sprintf("%04d-%02d", b.Year(), int(b.Month()))
	}
	return b.Format("2006-01-02")
}
