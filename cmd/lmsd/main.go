package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/service"
	"github.com/bibbank/lms/internal/infrastructure/config"
	"github.com/bibbank/lms/internal/infrastructure/kafka"
	"github.com/bibbank/lms/internal/infrastructure/lock"
	pgRepo "github.com/bibbank/lms/internal/infrastructure/postgres"
	grpcPresentation "github.com/bibbank/lms/internal/presentation/grpc"
	"github.com/bibbank/lms/internal/presentation/rest"
	"github.com/bibbank/lms/pkg/auth"
	pkgkafka "github.com/bibbank/lms/pkg/kafka"
	"github.com/bibbank/lms/pkg/observability"
	pkgpostgres "github.com/bibbank/lms/pkg/postgres"
	"github.com/bibbank/lms/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("lmsd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
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
		ServiceName: cfg.ServiceName,
	})
	logger.Info("starting lmsd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Telemetry.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: 1,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort flush
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	}
	if err := pkgpostgres.Migrate(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Messaging.
	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck // flushes pending writes

	publisher := kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	scoreQueue := kafka.NewCreditScoreQueue(producer, cfg.Kafka.ScoreTopic)

	// Per-loan payment lock.
	readiness := map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
	}
	var locker port.LoanLocker
	if cfg.Redis.Addr != "" {
		client, err := lock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }() //nolint:errcheck // shutdown
		locker = lock.NewRedisLocker(client, cfg.Redis.LockTTL, logger)
		readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("using redis payment lock", "addr", cfg.Redis.Addr)
	} else {
		locker = lock.NewLocalLocker()
		logger.Warn("redis not configured, payments are serialised in-process only")
	}

	// Repositories and use cases.
	borrowerRepo := pgRepo.NewBorrowerRepo(pool)
	txRepo := pgRepo.NewAccountTransactionRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)

	useCases := usecase.Set{
		RegisterBorrower:         usecase.NewRegisterBorrowerUseCase(borrowerRepo, scoreQueue, publisher, logger),
		RecordAccountTransaction: usecase.NewRecordAccountTransactionUseCase(txRepo, logger),
		ApplyLoan:                usecase.NewApplyLoanUseCase(borrowerRepo, loanRepo, service.NewEligibilityEvaluator(), publisher, logger),
		MakePayment:              usecase.NewMakePaymentUseCase(loanRepo, locker, service.NewPaymentReconciler(), publisher, logger),
		GetLoan:                  usecase.NewGetLoanUseCase(loanRepo),
		GetStatement:             usecase.NewGetStatementUseCase(loanRepo, loanRepo, service.NewStatementBuilder(), logger),
	}

	// Auth and TLS.
	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled {
		if jwtSvc, err = newJWTService(cfg.Auth); err != nil {
			return err
		}
	}
	var tlsCfg *tls.Config
	if cfg.TLS.Enabled() {
		if tlsCfg, err = tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("load TLS config: %w", err)
		}
	}

	// gRPC server.
	grpcServer := grpcPresentation.NewServer(
		grpcPresentation.NewLoanHandler(useCases, logger),
		logger,
		grpcPresentation.ServerOptions{JWT: jwtSvc, TLS: tlsCfg, Reflection: !cfg.Auth.Enabled},
	)

	// HTTP server.
	routerCfg := rest.RouterConfig{
		Handler: rest.NewHandler(useCases, logger),
		Health:  rest.NewHealthHandler(cfg.ServiceName, readiness, logger),
		Metrics: metricsHandler,
		Logger:  logger,
	}
	if jwtSvc != nil {
		routerCfg.Auth = auth.HTTPMiddleware(jwtSvc, nil)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           rest.NewRouter(routerCfg),
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr, "tls", tlsCfg != nil)
		var err error
		if tlsCfg != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()

	logger.Info("lmsd stopped")
	return runErr
}

// newJWTService builds a validation-only JWT service. A public key file takes
// precedence over a shared secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	if cfg.PublicKeyFile != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	} else {
		jwtCfg.Secret = cfg.Secret
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("init JWT service: %w", err)
	}
	return svc, nil
}
