package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/adeyemimuse/sproutvest-backend/internal/analytics/worker"
	analyticsconsumer "github.com/adeyemimuse/sproutvest-backend/internal/consumers/analytics"
	"github.com/adeyemimuse/sproutvest-backend/pkg/bigquery"
	"github.com/adeyemimuse/sproutvest-backend/pkg/config"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/idempotency"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pubsub"
	"github.com/adeyemimuse/sproutvest-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "analytics-worker"

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery client", err)

	defer func() {
		closeErr := multierr.Combine(
			redisClient.Close(),
			pubsubClient.Close(),
			bqClient.Close(),
		)
		if closeErr != nil {
			logg.Error(ctx, "failed to close analytics worker clients", closeErr)
		}
	}()

	subscription := pubsubClient.PaymentsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "payments subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	consumer, err := analyticsconsumer.NewConsumer(bqClient, cfg.BigQuery.PaymentEventsTable, manager, logg)
	requireResource(ctx, logg, "analytics consumer", err)

	service, err := worker.NewService(subscription, consumer, logg)
	requireResource(ctx, logg, "analytics worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "analytics worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "analytics worker failed", err)
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
