package analytics

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

func AttributionReport(service *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		window, err := resolveAnalyticsRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := analytics.ReportFilters{
			UTMSource: strings.TrimSpace(r.URL.Query().Get("utm_source")),
			AdID:      strings.TrimSpace(r.URL.Query().Get("ad_id")),
		}

		report, err := service.AttributionReport(ctx, window, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
