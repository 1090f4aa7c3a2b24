package analytics

import (
	"net/http"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

func Kpis(service *analytics.Service, logg *logger.Logger) http.HandlerFunc {
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

		summary, err := service.Kpis(ctx, window, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
