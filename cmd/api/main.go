package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/assets"
	"github.com/example/storefront/internal/infrastructure/dynamo"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/reporting"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/metrics"
)

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

	log.Info("starting storefront api",
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.HTTP.Addr))

	// Catalog and orders live in the external document database.
	dynamoClient, err := dynamo.NewClient(ctx, cfg.Dynamo.Region, cfg.Dynamo.Endpoint)
	if err != nil {
		log.Fatal("dynamodb client", zap.Error(err))
	}
	catalogStore := dynamo.NewCatalogStore(dynamoClient, cfg.Dynamo.CatalogTable)
	orderStore := dynamo.NewOrderStore(dynamoClient, cfg.Dynamo.OrdersTable)

	// The feed keeps a warm catalog snapshot for the storefront pages.
	feed := catalog.NewFeed(catalogStore, log)
	go feed.Run(ctx, cfg.Dynamo.PollInterval)

	// Carts persist locally; a broken state dir degrades to memory only.
	var persister cart.Persister
	pebblePersister, err := cart.NewPebblePersister(cfg.Cart.StateDir)
	if err != nil {
		log.Warn("cart persistence unavailable, carts will not survive restarts",
			zap.String("dir", cfg.Cart.StateDir), zap.Error(err))
		persister = cart.NewMemoryPersister()
	} else {
		defer pebblePersister.Close()
		persister = pebblePersister
	}
	carts := cart.NewStore(persister, log)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	uploader, err := assets.NewUploader(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("asset uploader", zap.Error(err))
	}

	// Reporting is optional for the API process; the console endpoints that
	// need it fail individually when it is down.
	var reports api.ReportStore
	reportStore, err := reporting.Connect(cfg.Postgres.URL)
	if err != nil {
		log.Warn("reporting database unavailable", zap.Error(err))
	} else {
		defer reportStore.Close()
		if err := reportStore.EnsureSchema(); err != nil {
			log.Warn("reporting schema", zap.Error(err))
		}
		reports = reportStore
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	policy := auth.NewPolicy(cfg.Auth.AdminEmail)
	pricing := order.NewPricing(cfg.Pricing.FreeDeliveryThreshold, cfg.Pricing.FlatDeliveryFee)
	reg := metrics.NewRegistry()

	handlers := api.NewHandlers(feed, carts, orderStore, pricing, producer, reg, log)
	adminHandlers := api.NewAdminHandlers(catalogStore, feed, orderStore, reports, uploader, producer, reg, log)
	authHandlers := api.NewAuthHandlers(jwtService, policy, cfg.Auth.AdminPasswordHash, log)

	router := api.NewRouter(handlers, adminHandlers, authHandlers, jwtService, policy, reg, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
