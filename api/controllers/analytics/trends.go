package analytics

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

func Trends(service *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		window, err := resolveAnalyticsRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters, err := resolveFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		metric := enums.TrendMetric(strings.TrimSpace(r.URL.Query().Get("metric")))
		if metric == "" {
			metric = enums.TrendMetricLeads
		}
		interval := enums.TrendInterval(strings.TrimSpace(r.URL.Query().Get("interval")))
		if interval == "" {
			interval = enums.TrendIntervalDay
		}

		points, err := service.Trends(ctx, window, filters, metric, interval)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"metric":   metric,
			"interval": interval,
			"points":   points,
		})
	}
}
