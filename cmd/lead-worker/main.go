package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/internal/consumers/leads"
	"github.com/angelmondragon/funnelsight-backend/internal/crm"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	"github.com/angelmondragon/funnelsight-backend/pkg/db"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/pubsub"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "lead-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "lead-worker"

	logg = logger.New(logger.Options{
		ServiceName: "lead-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.CRMSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "crm subscription", errors.New("subscription not configured"))
	}

	attributionStore, err := attribution.NewStore(redisClient, logg, cfg.Attribution.SnapshotTTL)
	requireResource(ctx, logg, "attribution store", err)

	consumer, err := leads.NewConsumer(crm.NewRepository(dbClient.DB()), attributionStore, logg)
	requireResource(ctx, logg, "leads consumer", err)

	service, err := leads.NewService(subscription, consumer, logg)
	requireResource(ctx, logg, "lead worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "lead worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "lead worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
