package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adeyemimuse/sproutvest-backend/api/routes"
	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	"github.com/adeyemimuse/sproutvest-backend/internal/disputes"
	"github.com/adeyemimuse/sproutvest-backend/internal/funding"
	"github.com/adeyemimuse/sproutvest-backend/internal/investments"
	"github.com/adeyemimuse/sproutvest-backend/internal/notifications"
	"github.com/adeyemimuse/sproutvest-backend/internal/opportunities"
	"github.com/adeyemimuse/sproutvest-backend/internal/portfolio"
	"github.com/adeyemimuse/sproutvest-backend/internal/reconcile"
	"github.com/adeyemimuse/sproutvest-backend/internal/transfers"
	"github.com/adeyemimuse/sproutvest-backend/internal/webhooks"
	flutterwavewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/flutterwave"
	stripewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/stripe"
	"github.com/adeyemimuse/sproutvest-backend/pkg/config"
	"github.com/adeyemimuse/sproutvest-backend/pkg/correlation"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/metrics"
	"github.com/adeyemimuse/sproutvest-backend/pkg/migrate"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	"github.com/adeyemimuse/sproutvest-backend/pkg/redis"
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

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	investmentsRepo := investments.NewRepository(dbClient.DB())
	investmentsSvc, err := investments.NewService(investmentsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create investments service", err)
		os.Exit(1)
	}

	opportunitiesSvc, err := opportunities.NewService(opportunities.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create opportunities service", err)
		os.Exit(1)
	}

	fundingSvc, err := funding.NewService(funding.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create funding service", err)
		os.Exit(1)
	}

	portfolioSvc, err := portfolio.NewService(portfolio.NewRepository(dbClient.DB()), investmentsSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create portfolio service", err)
		os.Exit(1)
	}

	disputesSvc, err := disputes.NewService(disputes.NewRepository(dbClient.DB()), dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create disputes service", err)
		os.Exit(1)
	}

	transfersSvc, err := transfers.NewService(transfers.NewRepository(dbClient.DB()), outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create transfers service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	auditSvc, err := audit.NewService(audit.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	engine, err := reconcile.NewService(reconcile.ServiceParams{
		TxRunner:      dbClient,
		Gate:          reconcile.NewGateRepository(),
		Investments:   reconcile.NewInvestmentStore(investmentsRepo),
		Funding:       fundingSvc,
		Portfolio:     portfolioSvc,
		Disputes:      disputesSvc,
		Transfers:     transfersSvc,
		Outbox:        outboxSvc,
		Notifications: notificationsSvc,
		Audit:         auditSvc,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation engine", err)
		os.Exit(1)
	}

	codec, err := correlation.NewCodec(cfg.Webhooks.CorrelationSecret)
	if err != nil {
		logg.Error(context.Background(), "failed to create correlation codec", err)
		os.Exit(1)
	}

	stripeSource, err := stripewebhook.NewAdapter(cfg.Webhooks.StripeSigningSecret)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook adapter", err)
		os.Exit(1)
	}

	flutterwaveSource, err := flutterwavewebhook.NewAdapter(cfg.Webhooks.FlutterwaveSecretHash, codec)
	if err != nil {
		logg.Error(context.Background(), "failed to create flutterwave webhook adapter", err)
		os.Exit(1)
	}

	guard, err := webhooks.NewDeliveryGuard(redisClient, cfg.Webhooks.DedupeTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery guard", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:            cfg,
			Logger:            logg,
			DB:                dbClient,
			Metrics:           webhookMetrics,
			StripeSource:      stripeSource,
			FlutterwaveSource: flutterwaveSource,
			Engine:            engine,
			Guard:             guard,
			Investments:       investmentsSvc,
			Opportunities:     opportunitiesSvc,
			Portfolio:         portfolioSvc,
			Notifications:     notificationsSvc,
			Disputes:          disputesSvc,
			Transfers:         transfersSvc,
			Funding:           fundingSvc,
			Audit:             auditSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
