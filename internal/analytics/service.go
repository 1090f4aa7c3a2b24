package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/metrics"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
)

// DataSource resolves the record collections a report needs. Fetching is
// the caller side of the pure aggregation boundary; the service hands the
// resolved slices to the aggregators and never retries a failed fetch.
type DataSource interface {
	SpendRecords(ctx context.Context, window Window) ([]models.SpendRecord, error)
	Leads(ctx context.Context, filters Filters) ([]models.Lead, error)
	Deals(ctx context.Context, filters Filters) ([]models.Deal, error)
}

type reportCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	ReportCacheKey(report, fingerprint string) string
}

// Service is the query-boundary facade over the aggregation core.
type Service struct {
	source   DataSource
	cache    reportCache
	cacheTTL time.Duration
	logg     *logger.Logger
	queries  *metrics.ReportQueryMetrics
}

// NewService builds the analytics service. Cache and metrics are optional;
// a nil cache disables report caching.
func NewService(source DataSource, cache reportCache, cacheTTL time.Duration, logg *logger.Logger, queries *metrics.ReportQueryMetrics) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("analytics data source required")
	}
	return &Service{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
		queries:  queries,
	}, nil
}

func validateWindow(window Window) error {
	if window.From.After(window.To) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date is after end date")
	}
	return nil
}

// AttributionReport computes the full two-dimension attribution breakdown
// for the window. Responses are cached briefly; cache trouble is logged and
// the report recomputed, never surfaced.
func (s *Service) AttributionReport(ctx context.Context, window Window, filters ReportFilters) (*AttributionReport, error) {
	done := s.observe("attribution")
	if err := validateWindow(window); err != nil {
		done(err)
		return nil, err
	}

	cacheKey := s.cacheKey(window, filters)
	if cached, ok := s.cachedReport(ctx, cacheKey); ok {
		done(nil)
		return cached, nil
	}

	ds, err := s.fetch(ctx, window, Filters{})
	if err != nil {
		done(err)
		return nil, err
	}

	report := AssembleAttributionReport(ds, window, filters)
	s.storeReport(ctx, cacheKey, &report)
	done(nil)
	return &report, nil
}

// Kpis computes the top-line pipeline summary for the window.
func (s *Service) Kpis(ctx context.Context, window Window, filters Filters) (*KpiSummary, error) {
	done := s.observe("kpis")
	if err := validateWindow(window); err != nil {
		done(err)
		return nil, err
	}
	ds, err := s.fetch(ctx, window, filters)
	if err != nil {
		done(err)
		return nil, err
	}
	summary := ComputeKpis(ds, window)
	done(nil)
	return &summary, nil
}

// Funnel computes stage counts and conversion over deals in the window.
// Deals are scoped by creation time so in-flight pipeline is visible.
func (s *Service) Funnel(ctx context.Context, window Window, filters Filters) ([]FunnelStage, error) {
	done := s.observe("funnel")
	if err := validateWindow(window); err != nil {
		done(err)
		return nil, err
	}
	deals, err := s.source.Deals(ctx, filters)
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching deals")
		done(wrapped)
		return nil, wrapped
	}
	var inWindow []models.Deal
	for _, deal := range deals {
		if window.Contains(deal.CreatedAt) {
			inWindow = append(inWindow, deal)
		}
	}
	stages := ComputeFunnel(inWindow)
	done(nil)
	return stages, nil
}

// Trends computes the zero-filled time series for one metric.
func (s *Service) Trends(ctx context.Context, window Window, filters Filters, metric enums.TrendMetric, interval enums.TrendInterval) ([]TimeSeriesPoint, error) {
	done := s.observe("trends")
	if err := validateWindow(window); err != nil {
		done(err)
		return nil, err
	}
	if !interval.IsValid() {
		err := pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unrecognized interval %q", interval))
		done(err)
		return nil, err
	}
	if !metric.IsValid() {
		err := pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unrecognized metric %q", metric))
		done(err)
		return nil, err
	}
	ds, err := s.fetch(ctx, window, filters)
	if err != nil {
		done(err)
		return nil, err
	}
	points := ComputeTrend(ds, metric, interval, window)
	done(nil)
	return points, nil
}

// Cohorts groups window leads by creation period and measures conversion
// into won within the observation window.
func (s *Service) Cohorts(ctx context.Context, window Window, filters Filters, interval enums.CohortInterval, observationDays int) ([]CohortItem, error) {
	done := s.observe("cohorts")
	if err := validateWindow(window); err != nil {
		done(err)
		return nil, err
	}
	if !interval.IsValid() {
		err := pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unrecognized interval %q", interval))
		done(err)
		return nil, err
	}
	if observationDays <= 0 {
		err := pkgerrors.New(pkgerrors.CodeValidation, "observation window must be positive")
		done(err)
		return nil, err
	}
	ds, err := s.fetch(ctx, window, filters)
	if err != nil {
		done(err)
		return nil, err
	}
	scoped := ds
	scoped.Leads = nil
	for _, lead := range ds.Leads {
		if window.Contains(lead.CreatedAt) {
			scoped.Leads = append(scoped.Leads, lead)
		}
	}
	items := ComputeCohorts(scoped, interval, observationDays)
	done(nil)
	return items, nil
}

// fetch resolves the three record collections. Leads are fetched without a
// window constraint so deals closing in-window can resolve keys from older
// leads; the aggregators apply the window themselves.
func (s *Service) fetch(ctx context.Context, window Window, filters Filters) (Dataset, error) {
	spend, err := s.source.SpendRecords(ctx, window)
	if err != nil {
		return Dataset{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching spend records")
	}
	leads, err := s.source.Leads(ctx, filters)
	if err != nil {
		return Dataset{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching leads")
	}
	deals, err := s.source.Deals(ctx, filters)
	if err != nil {
		return Dataset{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching deals")
	}
	ds := Dataset{Spend: spend, Leads: leads, Deals: deals}
	if filters.Source != "" {
		// source filtering is key resolution, so it lives here and not in SQL
		ds = filterByKey(ds, attribution.NormalizeKey(filters.Source), enums.DimensionSource)
	}
	return ds, nil
}

func (s *Service) observe(report string) func(error) {
	start := time.Now()
	return func(err error) {
		s.queries.ObserveDuration(report, time.Since(start))
		if err != nil {
			s.queries.IncFailure(report)
			return
		}
		s.queries.IncSuccess(report)
	}
}

func (s *Service) cacheKey(window Window, filters ReportFilters) string {
	payload, _ := json.Marshal(struct {
		Window  Window        `json:"window"`
		Filters ReportFilters `json:"filters"`
	}{window, filters})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

func (s *Service) cachedReport(ctx context.Context, fingerprint string) (*AttributionReport, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.ReportCacheKey("attribution", fingerprint))
	if err != nil {
		if err != redis.ErrNotFound && s.logg != nil {
			s.logg.Warn(ctx, "report cache read failed, recomputing")
		}
		return nil, false
	}
	var report AttributionReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (s *Service) storeReport(ctx context.Context, fingerprint string, report *AttributionReport) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.ReportCacheKey("attribution", fingerprint), payload, s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "report cache write failed")
	}
}
