package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/orderdesk/internal"
	"github.com/dukerupert/orderdesk/internal/email"
	"github.com/dukerupert/orderdesk/internal/handler/api"
	"github.com/dukerupert/orderdesk/internal/middleware"
	"github.com/dukerupert/orderdesk/internal/notify"
	"github.com/dukerupert/orderdesk/internal/postgres"
	"github.com/dukerupert/orderdesk/internal/router"
	"github.com/dukerupert/orderdesk/internal/routes"
	"github.com/dukerupert/orderdesk/internal/service"
	"github.com/dukerupert/orderdesk/internal/sqlite"
	"github.com/dukerupert/orderdesk/internal/telemetry"
	"github.com/dukerupert/orderdesk/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// orderStore is what the services and the readiness probe need from a
// storage backend.
type orderStore interface {
	service.Store
	api.Pinger
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry (no-op when disabled)
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// ==========================================================================
	// Storage
	// ==========================================================================

	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ==========================================================================
	// Metrics
	// ==========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	businessMetrics := telemetry.NewBusinessMetrics(registry, cfg.Metrics.Namespace)
	httpMetrics := middleware.NewMetrics(registry, cfg.Metrics.Namespace)

	// ==========================================================================
	// Notifications
	// ==========================================================================

	notifyOpts := notify.Options{
		Backend:           cfg.Events.Backend,
		KafkaBrokers:      cfg.Events.KafkaBrokers,
		KafkaTopic:        cfg.Events.KafkaTopic,
		NatsURL:           cfg.Events.NatsURL,
		NatsSubjectPrefix: cfg.Events.NatsSubjectPrefix,
	}
	if cfg.Email.Provider != "" {
		notifyOpts.Email = &notify.EmailOptions{
			Provider: cfg.Email.Provider,
			SMTP: email.SMTPConfig{
				Host:     cfg.Email.Host,
				Port:     cfg.Email.Port,
				Username: cfg.Email.Username,
				Password: cfg.Email.Password,
			},
			PostmarkToken: cfg.Email.PostmarkToken,
			From:          cfg.Email.From,
			FromName:      cfg.Email.FromName,
		}
	}

	publisher, err := notify.New(notifyOpts, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s publisher: %w", cfg.Events.Backend, err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close publisher", "error", err)
		}
	}()

	dispatcher := worker.NewDispatcher(publisher, worker.Config{
		MaxConcurrency: cfg.Events.Workers,
		Buffer:         cfg.Events.Buffer,
		PublishTimeout: cfg.Events.PublishTimeout,
	}, businessMetrics, logger)

	// ==========================================================================
	// Services and handlers
	// ==========================================================================

	orderService := service.NewOrderService(store, dispatcher, businessMetrics, logger, service.OrderServiceConfig{
		DueAfter: cfg.Orders.DueAfter,
	})
	revenueService := service.NewRevenueService(store, logger)

	retry := api.RetryPolicy{
		MaxRetries: cfg.Checkout.MaxRetries,
		Base:       cfg.Checkout.RetryBase,
	}

	checkoutLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer checkoutLimiter.Stop()

	r := router.New(
		telemetry.SentryMiddleware(),
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithPrincipal,
		middleware.WithRequestLogger(logger),
		telemetry.SentryContextMiddleware(middleware.SentryPrincipal),
		httpMetrics.Middleware,
		middleware.MaxBodySize(),
		middleware.Timeout(),
		router.Logger(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Orders:          api.NewOrderHandler(orderService, retry, logger),
		Revenue:         api.NewRevenueHandler(revenueService),
		Health:          api.NewHealthHandler(store),
		Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		CheckoutLimiter: checkoutLimiter,
	})

	// ==========================================================================
	// Start
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The dispatcher outlives the server so events from requests that finish
	// during shutdown are still published.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	g.Go(func() error {
		return dispatcher.Start(dispatchCtx)
	})

	g.Go(func() error {
		logger.Info("Starting order server", "address", srv.Addr, "store", cfg.Store.Driver, "events", cfg.Events.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		defer stopDispatch()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects to the configured database and applies migrations.
func openStore(ctx context.Context, cfg internal.StoreConfig, logger *slog.Logger) (orderStore, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		logger.Info("Opening SQLite database", "path", cfg.SQLitePath)
		s, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := internal.RunMigrations(ctx, s.DB(), "sqlite", logger); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		return s, func() { s.Close() }, nil

	default:
		logger.Info("Connecting to database...")
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		if cfg.MaxConns > 0 {
			poolCfg.MaxConns = cfg.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		// Migrations run over database/sql on top of the same pool.
		if err := internal.RunMigrations(ctx, stdlib.OpenDBFromPool(pool), "postgres", logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}

		s, err := postgres.NewStore(pool, cfg.Isolation, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
