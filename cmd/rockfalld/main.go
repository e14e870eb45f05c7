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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/infrastructure/catalog"
	"github.com/minesafe/rockfall/internal/infrastructure/config"
	"github.com/minesafe/rockfall/internal/infrastructure/memory"
	"github.com/minesafe/rockfall/internal/infrastructure/messaging"
	"github.com/minesafe/rockfall/internal/infrastructure/postgres"
	"github.com/minesafe/rockfall/internal/infrastructure/scheduler"
	"github.com/minesafe/rockfall/internal/infrastructure/session"
	"github.com/minesafe/rockfall/internal/infrastructure/simulator"
	"github.com/minesafe/rockfall/internal/infrastructure/telemetry"
	grpcpresentation "github.com/minesafe/rockfall/internal/presentation/grpc"
	"github.com/minesafe/rockfall/internal/presentation/rest"
	"github.com/minesafe/rockfall/pkg/auth"
	pkgkafka "github.com/minesafe/rockfall/pkg/kafka"
	"github.com/minesafe/rockfall/pkg/observability"
	pgutil "github.com/minesafe/rockfall/pkg/postgres"
	"github.com/minesafe/rockfall/pkg/tlsutil"
)

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("rockfall stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("rockfall stopped")
}

// stores holds the persistence adapters chosen at startup.
type stores struct {
	assessments port.AssessmentRepository
	alerts      port.AlertRepository
	pool        *pgxpool.Pool
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting rockfall", slog.String("environment", cfg.Environment))

	// Telemetry.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TraceConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	meterProvider, metricsHandler, err := observability.InitMetrics(cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()
	meter := meterProvider.Meter(cfg.ServiceName)

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		return err
	}

	// Mine catalog.
	mines := catalog.Default()
	if cfg.CatalogPath != "" {
		if mines, err = catalog.Load(cfg.CatalogPath); err != nil {
			return err
		}
		go func() {
			if err := mines.Watch(ctx, cfg.CatalogPath, logger); err != nil {
				logger.Error("catalog watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}
	logger.Info("mine catalog loaded", slog.Int("mines", mines.Len()))

	// Persistence.
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	// Messaging.
	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	notifier, natsConn := newNotifier(cfg, logger)
	if natsConn != nil {
		defer natsConn.Close()
	}

	// Domain services and use cases. Manual readings always use the
	// weighted model. RISK_MODEL picks the model for simulated readings.
	manualScorer := service.NewRiskScorer()
	liveScorer, err := service.NewScorer(cfg.Monitor.RiskModel)
	if err != nil {
		return err
	}

	var autoAlert *usecase.SendAlert
	sendAlert := usecase.NewSendAlert(st.alerts, st.assessments, mines, notifier, publisher, cfg.Recipients, metrics)
	if cfg.Monitor.AutoAlert {
		autoAlert = sendAlert
	}

	assessManual := usecase.NewAssessReading(st.assessments, mines, publisher, manualScorer, autoAlert, metrics, logger)
	assessLive := usecase.NewAssessReading(st.assessments, mines, publisher, liveScorer, autoAlert, metrics, logger)
	selectMine := usecase.NewSelectMine(mines, simulator.New(cfg.Monitor.SimulatorSeed, simulator.DefaultRanges), assessLive)

	sessions := session.NewStore(cfg.SessionTTL, time.Minute)
	defer sessions.Close()

	uc := rest.UseCases{
		AssessReading:       assessManual,
		EvaluateReading:     usecase.NewEvaluateReading(manualScorer),
		GetAssessment:       usecase.NewGetAssessment(st.assessments),
		ListMineAssessments: usecase.NewListMineAssessments(st.assessments, mines),
		SearchMines:         usecase.NewSearchMines(mines),
		GetMine:             usecase.NewGetMine(mines),
		SelectMine:          selectMine,
		SendAlert:           sendAlert,
		ListAlerts:          usecase.NewListAlerts(st.alerts, mines),
		DashboardSession:    usecase.NewDashboardSession(sessions, selectMine, sendAlert),
	}

	// Monitoring sweep.
	var sweeps *scheduler.Scheduler
	if cfg.Monitor.Schedule != "" {
		sweeps, err = scheduler.New(usecase.NewMonitorSweep(selectMine, metrics, logger), cfg.Monitor.Timeout, meter, logger)
		if err != nil {
			return err
		}
		if err := sweeps.Schedule(cfg.Monitor.Schedule); err != nil {
			return err
		}
		sweeps.Start()
		logger.Info("monitoring sweep scheduled", slog.String("schedule", cfg.Monitor.Schedule))
	}

	// Auth.
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	if err != nil {
		return err
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(uc.AssessReading, uc.EvaluateReading,
		uc.GetAssessment, uc.SearchMines, uc.SendAlert, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, jwtService, grpcpresentation.ServerOptions{
		CertFile:   cfg.TLS.CertFile,
		KeyFile:    cfg.TLS.KeyFile,
		Reflection: cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	checks := map[string]rest.Check{}
	if st.pool != nil {
		checks["postgres"] = func(ctx context.Context) error { return pgutil.HealthCheck(ctx, st.pool) }
	}
	if natsConn != nil {
		checks["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return errors.New("nats: not connected")
			}
			return nil
		}
	}

	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, checks, logger).RegisterRoutes(mux)
	rest.NewHandler(uc, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	limiter := rest.NewRateLimiter(cfg.RateLimit)
	go pruneLimiter(ctx, limiter)

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled() {
		if tlsConfig, err = tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return err
		}
	}

	httpServer := rest.NewServer(cfg.HTTPAddr(), rest.Chain(mux,
		rest.Logging(logger),
		rest.RateLimit(limiter),
		auth.HTTPMiddleware(jwtService, "/healthz", "/readyz", "/metrics"),
	), tlsConfig, logger)

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("rockfall started",
		slog.String("grpc_address", cfg.GRPCAddr()),
		slog.String("http_address", cfg.HTTPAddr()),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case serveErr = <-errCh:
		logger.Error("server error", slog.String("error", serveErr.Error()))
	}

	// Graceful shutdown.
	logger.Info("shutting down rockfall")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sweeps != nil {
		if err := sweeps.Stop(shutdownCtx); err != nil {
			logger.Error("scheduler shutdown error", slog.String("error", err.Error()))
		}
	}

	grpcServer.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	return serveErr
}

// openStores connects to PostgreSQL and applies migrations. An empty
// DATABASE_URL keeps everything in memory.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, keeping assessments in memory")
		return stores{
			assessments: memory.NewAssessmentRepository(),
			alerts:      memory.NewAlertRepository(),
		}, nil
	}

	if err := pgutil.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return stores{}, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgutil.NewPool(connectCtx, cfg.DatabaseURL, pgutil.DefaultPoolOptions())
	if err != nil {
		return stores{}, err
	}
	logger.Info("connected to database")

	return stores{
		assessments: postgres.NewAssessmentRepository(pool),
		alerts:      postgres.NewAlertRepository(pool),
		pool:        pool,
	}, nil
}

// newPublisher returns the Kafka publisher, or a log-only publisher when no
// brokers are configured.
func newPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, domain events are only logged")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", slog.String("error", err.Error()))
		}
	}
	return messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger), closeFn, nil
}

// newNotifier connects to NATS. When NATS is unavailable alerts are logged
// and marked sent.
func newNotifier(cfg config.Config, logger *slog.Logger) (port.Notifier, *nats.Conn) {
	if cfg.NATSURL == "" {
		logger.Warn("NATS_URL not set, alerts are only logged")
		return messaging.NewLogNotifier(logger), nil
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name(cfg.ServiceName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		logger.Warn("failed to connect to NATS, alerts are only logged",
			slog.String("url", cfg.NATSURL),
			slog.String("error", err.Error()),
		)
		return messaging.NewLogNotifier(logger), nil
	}
	logger.Info("connected to NATS", slog.String("url", conn.ConnectedUrl()))

	return messaging.NewNATSNotifier(conn, logger, messaging.WithRetry(3, 500*time.Millisecond)), conn
}

func pruneLimiter(ctx context.Context, limiter *rest.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(10 * time.Minute)
		}
	}
}
