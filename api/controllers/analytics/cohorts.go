package analytics

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/api/validators"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

func Cohorts(cfg *config.Config, service *analytics.Service, logg *logger.Logger) http.HandlerFunc {
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

		interval := enums.CohortInterval(strings.TrimSpace(r.URL.Query().Get("interval")))
		if interval == "" {
			interval = enums.CohortIntervalMonth
		}

		observationDays, err := validators.ParseQueryInt(r, "observation_days", cfg.Analytics.DefaultObservationDays, 1, 730)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := service.Cohorts(ctx, window, filters, interval, observationDays)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"interval": interval,
			"cohorts":  items,
		})
	}
}
