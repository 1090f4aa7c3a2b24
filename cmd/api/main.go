package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/funnelsight-backend/api/routes"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/internal/crm"
	"github.com/angelmondragon/funnelsight-backend/internal/spend"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	"github.com/angelmondragon/funnelsight-backend/pkg/db"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/metrics"
	"github.com/angelmondragon/funnelsight-backend/pkg/migrate"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	queryMetrics := metrics.NewReportQueryMetrics(registry)

	attributionStore, err := attribution.NewStore(redisClient, logg, cfg.Attribution.SnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create attribution store", err)
		os.Exit(1)
	}

	crmRepo := crm.NewRepository(dbClient.DB())
	analyticsService, err := analytics.NewService(crmRepo, redisClient, cfg.Analytics.ReportCacheTTL, logg, queryMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	spendImporter, err := spend.NewImporter(crmRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create spend importer", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, attributionStore, analyticsService, spendImporter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
