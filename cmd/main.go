/**
 * @description
 * This is the main entry point for the checkout-service. It initializes and
 * wires together all the components of the application: configuration, the
 * plan catalog (Postgres with a static fallback), the snapshot store (Redis,
 * optional), the order-event producer (RabbitMQ, optional), the payment
 * gateway client, and the HTTP router. Finally, it starts the HTTP server.
 *
 * Every optional dependency degrades a single capability without blocking
 * checkout: no DB means the fallback catalog, no Redis means sessions held in
 * process memory only, no RabbitMQ means no event fan-out.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ashva/checkout-service/internal/api"
	"github.com/ashva/checkout-service/internal/app"
	"github.com/ashva/checkout-service/internal/config"
	"github.com/ashva/checkout-service/internal/store"
	"github.com/ashva/checkout-service/pkg/paymentclient"
	"github.com/ashva/checkout-service/pkg/rabbitmq"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env for local development; environment wins in deployment
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Plan catalog DB is optional; without it the static fallback catalog
	// keeps the funnel sellable.
	var planSource app.PlanSource
	if cfg.DatabaseURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("unable to connect to plans database, using fallback catalog", "error", err)
		} else {
			defer dbpool.Close()
			planSource = store.NewPlanRepository(dbpool)
			logger.Info("plans database connection established")
		}
	}

	// Redis makes sessions durable across restarts; without it the service
	// falls back to its process-local store.
	var snapshots store.SnapshotStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, sessions held in process memory only", "error", err)
		} else {
			snapshots = store.NewRedisSnapshotStore(redis.NewClient(opts))
			logger.Info("redis snapshot store configured")
		}
	}

	// Order events fan out to notification/installation services.
	var events rabbitmq.Publisher = &rabbitmq.EventProducerFallback{}
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			events = producer
			defer producer.Close()
		}
	}

	gateway := paymentclient.NewClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayAPIKey)

	// Initialize application layers
	catalog := app.NewCatalog(planSource, logger)
	service := app.NewService(catalog, snapshots, gateway, events, app.SystemClock(), logger)
	handler := api.NewHandler(service, catalog)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
