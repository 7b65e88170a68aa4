package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/earnings"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/instance"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/migrate"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
	"github.com/angelmondragon/marketplace-backend/pkg/pubsub"
)

const serviceName = "outbox-publisher"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	rates, err := cfg.Commerce.Rates()
	if err != nil {
		logg.Error(context.Background(), "invalid commerce rates", err)
		os.Exit(1)
	}

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

	conn := dbClient.DB()
	router, err := buildRouter(conn, rates, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build event handlers", err)
		os.Exit(1)
	}

	params := ServiceParams{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Repository:    outbox.NewRepository(conn),
		Registry:      registry.NewEventRegistry(),
		Router:        router,
		DLQRepository: outbox.NewDLQRepository(conn),
		Metrics:       metrics.NewOutboxMetrics(prometheus.DefaultRegisterer),
	}

	if cfg.PubSub.Enabled {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
		params.PubSub = pubsubClient
	}

	service, err := NewService(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox publisher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": serviceName,
		"instance":    instance.GetID(),
		"forwarding":  cfg.PubSub.Enabled,
	})
	logg.Info(ctx, "starting outbox publisher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher shutting down gracefully")
}

// buildRouter registers earnings before notifications so the earning row
// exists when the partner notification quotes its amount.
func buildRouter(conn *gorm.DB, rates config.CommerceRates, logg *logger.Logger) (*registry.Router, error) {
	router := registry.NewRouter()

	earningsConsumer, err := earnings.NewConsumer(
		earnings.NewRepository(conn),
		orders.NewRepository(conn),
		earnings.FaresFromRates(rates),
		logg,
	)
	if err != nil {
		return nil, err
	}
	earningsConsumer.Register(router)

	notificationsConsumer, err := notifications.NewConsumer(notifications.NewRepository(conn), logg)
	if err != nil {
		return nil, err
	}
	notificationsConsumer.Register(router)

	return router, nil
}
