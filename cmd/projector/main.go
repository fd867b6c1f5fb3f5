package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/reporting"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/projection"
)

// The projector consumes the order stream and keeps the Postgres read models
// the admin console exports from.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting projector",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))

	store, err := reporting.Connect(cfg.Postgres.URL)
	if err != nil {
		log.Fatal("reporting database", zap.Error(err))
	}
	defer store.Close()
	if err := store.EnsureSchema(); err != nil {
		log.Fatal("reporting schema", zap.Error(err))
	}

	projector := projection.NewProjector(store, log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID+"-projector", log)
	defer consumer.Close()

	if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("consume", zap.Error(err))
	}
	log.Info("projector stopped")
}
