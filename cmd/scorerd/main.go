package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/service"
	"github.com/bibbank/lms/internal/infrastructure/config"
	"github.com/bibbank/lms/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/lms/internal/infrastructure/postgres"
	"github.com/bibbank/lms/internal/presentation/rest"
	pkgkafka "github.com/bibbank/lms/pkg/kafka"
	"github.com/bibbank/lms/pkg/observability"
	pkgpostgres "github.com/bibbank/lms/pkg/postgres"
)

// scorerd consumes credit score work items and stores the computed scores.
func main() {
	if err := run(); err != nil {
		slog.Error("scorerd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "scorerd",
	})
	logger.Info("starting scorerd", "topic", cfg.Kafka.ScoreTopic, "group", cfg.Kafka.ConsumerGroup)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: "scorerd",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: 1,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort flush
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "scorerd"})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Database. Migrations are owned by lmsd.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	})
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      "scorerd",
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck // flushes pending writes

	computeScore := usecase.NewComputeCreditScoreUseCase(
		pgRepo.NewBorrowerRepo(pool),
		pgRepo.NewAccountTransactionRepo(pool),
		service.NewCreditScorer(),
		kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger),
		logger,
	)

	consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ScoreTopic,
		kafka.NewScoreRequestHandler(computeScore, logger),
		pkgkafka.DefaultRetryPolicy, logger)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }() //nolint:errcheck // shutdown

	// Metrics and liveness.
	health := rest.NewHealthHandler("scorerd", map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
	}, logger)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           rest.NewOpsRouter(health, metricsHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server error: %w", err)
		}
	}()
	go func() {
		if err := consumer.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("scorerd error", "error", runErr)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}

	logger.Info("scorerd stopped")
	return runErr
}
