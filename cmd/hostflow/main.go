package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hostflow/hostflow/internal/app"
	"github.com/hostflow/hostflow/internal/auth"
	"github.com/hostflow/hostflow/internal/bookings"
	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/finance/export"
	"github.com/hostflow/hostflow/internal/inventory"
	"github.com/hostflow/hostflow/internal/observability"
	"github.com/hostflow/hostflow/internal/platform/cache"
	"github.com/hostflow/hostflow/internal/platform/db"
	"github.com/hostflow/hostflow/internal/properties"
	"github.com/hostflow/hostflow/internal/reports"
	"github.com/hostflow/hostflow/internal/shared"
	"github.com/hostflow/hostflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Sessions live in Redis, so the server cannot run without it.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "hostflow_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	propertyRepo := properties.NewRepository(dbpool)
	propertyService := properties.NewService(propertyRepo)
	propertyHandler := properties.NewHandler(logger, propertyService)

	bookingRepo := bookings.NewRepository(dbpool)
	bookingService := bookings.NewService(bookingRepo)
	bookingHandler := bookings.NewHandler(logger, bookingService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	financeService := finance.NewService(propertyService, bookingRepo, inventoryService)
	reportHandler := reports.NewHandler(logger, financeService, export.NewExporter())

	metrics := observability.NewMetrics()
	// Runtime and process stats ride on the same registry as the HTTP
	// metrics so /metrics stays a single scrape target.
	metrics.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		PropertyHandler:  propertyHandler,
		BookingHandler:   bookingHandler,
		InventoryHandler: inventoryHandler,
		ReportHandler:    reportHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
