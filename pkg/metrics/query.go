package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportQueryMetrics records latency and outcomes for analytics queries.
type ReportQueryMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewReportQueryMetrics registers the query metrics on the provided registerer.
func NewReportQueryMetrics(reg prometheus.Registerer) *ReportQueryMetrics {
	if reg == nil {
		return &ReportQueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_query_duration_seconds",
		Help:    "Duration of analytics report queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_query_success",
		Help: "Successful analytics report queries.",
	}, []string{"report"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_query_failure",
		Help: "Failed analytics report queries.",
	}, []string{"report"})
	reg.MustRegister(duration, success, failure)
	return &ReportQueryMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named report.
func (r *ReportQueryMetrics) ObserveDuration(report string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named report.
func (r *ReportQueryMetrics) IncSuccess(report string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(report)).Inc()
}

// IncFailure increments the failure counter for the named report.
func (r *ReportQueryMetrics) IncFailure(report string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(report)).Inc()
}

func normalizeLabel(report string) string {
	if report == "" {
		return "unknown"
	}
	return report
}
