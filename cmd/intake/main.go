package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mealflow/order-intake/internal/assembly"
	"github.com/mealflow/order-intake/internal/audit"
	"github.com/mealflow/order-intake/internal/catalog"
	"github.com/mealflow/order-intake/internal/config"
	"github.com/mealflow/order-intake/internal/directory"
	"github.com/mealflow/order-intake/internal/gateway"
	"github.com/mealflow/order-intake/internal/intake"
	"github.com/mealflow/order-intake/internal/messaging"
	"github.com/mealflow/order-intake/internal/orderstore"
	"github.com/mealflow/order-intake/internal/ratelimit"
	"github.com/mealflow/order-intake/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	auditProducer := messaging.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic)
	defer func() { _ = auditProducer.Close() }()

	placedProducer := messaging.NewProducer(cfg.KafkaBrokers, cfg.PlacedTopic)
	defer func() { _ = placedProducer.Close() }()

	sinks := []audit.Sink{
		audit.NewKafkaSink(auditProducer, logger),
		audit.NewLogSink(logger),
	}
	if cfg.AuditWebhookURL != "" {
		client := &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		sinks = append(sinks, audit.NewWebhookSink(cfg.AuditWebhookURL, client, logger))
	}

	var window ratelimit.Window
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		window = ratelimit.NewRedisWindow(rdb)
		logger.Info("using redis rate window", "addr", cfg.RedisAddr)
	} else {
		window = ratelimit.NewMemoryWindow()
	}

	gw := gateway.New(
		assembly.New(catalog.NewPostgres(db)),
		window,
		audit.Fanout(sinks),
		logger,
	)

	store := orderstore.NewStore(db)
	handler := intake.NewHandler(gw, directory.NewPostgres(db), store, placedProducer, logger)

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.SubmissionsTopic, cfg.ConsumerGroup)
	defer func() { _ = consumer.Close() }()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	metricsServer := &http.Server{
		Addr:         cfg.MetricsAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting intake service",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.SubmissionsTopic,
		"group", cfg.ConsumerGroup,
	)

	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
