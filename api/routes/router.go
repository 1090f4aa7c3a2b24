package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/funnelsight-backend/api/controllers"
	analyticscontrollers "github.com/angelmondragon/funnelsight-backend/api/controllers/analytics"
	spendcontrollers "github.com/angelmondragon/funnelsight-backend/api/controllers/spend"
	trackingcontrollers "github.com/angelmondragon/funnelsight-backend/api/controllers/tracking"
	"github.com/angelmondragon/funnelsight-backend/api/middleware"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/internal/spend"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	"github.com/angelmondragon/funnelsight-backend/pkg/db"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	attributionStore *attribution.Store,
	analyticsService *analytics.Service,
	spendImporter *spend.Importer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// Tracking is called from visitors' browsers, so it carries the open
	// CORS policy the analytics surface does not need.
	r.Route("/api/v1/track", func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Post("/visit", trackingcontrollers.TrackVisit(cfg, attributionStore, logg))
		r.Get("/{trackingID}/attribution", trackingcontrollers.VisitorAttribution(attributionStore, logg))
	})

	r.Route("/api/v1/spend", func(r chi.Router) {
		r.Post("/import", spendcontrollers.Import(spendImporter, logg))
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Get("/attribution", analyticscontrollers.AttributionReport(analyticsService, logg))
		r.Get("/kpis", analyticscontrollers.Kpis(analyticsService, logg))
		r.Get("/funnel", analyticscontrollers.Funnel(analyticsService, logg))
		r.Get("/trends", analyticscontrollers.Trends(analyticsService, logg))
		r.Get("/cohorts", analyticscontrollers.Cohorts(cfg, analyticsService, logg))
	})

	return r
}
