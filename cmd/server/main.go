package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal"
	"github.com/importabr/landed/internal/bootstrap"
	"github.com/importabr/landed/internal/currency"
	"github.com/importabr/landed/internal/handler"
	"github.com/importabr/landed/internal/middleware"
	"github.com/importabr/landed/internal/ncm"
	"github.com/importabr/landed/internal/postgres"
	"github.com/importabr/landed/internal/router"
	"github.com/importabr/landed/internal/routes"
	"github.com/importabr/landed/internal/service"
	"github.com/importabr/landed/internal/telemetry"
	"github.com/importabr/landed/internal/worker"
)

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

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	fallbackRate, err := decimal.NewFromString(cfg.Exchange.FallbackRate)
	if err != nil {
		return fmt.Errorf("invalid EXCHANGE_FALLBACK_RATE: %w", err)
	}

	// Exchange rate service: AwesomeAPI first, Banco Central PTAX second.
	rateService := currency.NewService(
		[]currency.RateProvider{
			currency.NewAwesomeAPIProvider(cfg.Exchange.AwesomeAPIURL),
			currency.NewBCBProvider(cfg.Exchange.BCBURL),
		},
		fallbackRate,
		cfg.Exchange.CacheTTL,
		logger,
	)

	// NCM classification service backed by the database cache.
	ncmService := ncm.NewService(postgres.NewNCMCache(pool), cfg.NCMCacheTTL, logger)

	// Stores and domain services
	userService := postgres.NewUserService(pool, cfg.SessionTTL)
	calculationStore := postgres.NewCalculationStore(pool)
	scenarioStore := postgres.NewScenarioStore(pool)
	rateHistory := postgres.NewRateHistoryStore(pool)

	calculationService := service.NewCalculationService(calculationStore, ncmService, rateService)
	scenarioService := service.NewScenarioService(scenarioStore, calculationStore)

	// Seed the initial account if configured.
	if err := bootstrap.EnsureAdminAccount(ctx, userService, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("landed")
	business := telemetry.NewBusinessMetrics("landed")
	calculationService.SetMetrics(business)
	scenarioService.SetMetrics(business)
	rateService.SetMetrics(business)
	ncmService.SetMetrics(business)

	// Build route dependencies
	deps := routes.Deps{
		Auth:         handler.NewAuthHandler(userService, cfg.Env == "prod"),
		Calculations: handler.NewCalculationHandler(calculationService, scenarioService),
		NCM:          handler.NewNCMHandler(ncmService),
		Currency:     handler.NewCurrencyHandler(rateService, rateHistory),
		Metrics:      metrics,
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		middleware.WithUser(userService),
	)
	routes.Register(r, deps)

	// CORS wraps the whole mux so preflight OPTIONS requests are answered
	// before method matching rejects them.
	var apiHandler http.Handler = r
	if len(cfg.CORSAllowedOrigins) > 0 {
		apiHandler = router.CORS(cfg.CORSAllowedOrigins)(apiHandler)
	}

	// Background worker snapshots the exchange rate for the history chart.
	snapshotWorker := worker.NewWorker(rateService, rateHistory, worker.Config{
		Interval: cfg.Exchange.SnapshotInterval,
	}, logger)
	go func() {
		if err := snapshotWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("snapshot worker stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      apiHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
