package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"coursepay/internal/app"
	"coursepay/internal/config"
	"coursepay/internal/handler"
	"coursepay/internal/logger"
	"coursepay/internal/metrics"
	"coursepay/internal/payfast"
	internalRedis "coursepay/internal/redis"
	"coursepay/internal/repository/postgres"
	"coursepay/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		log.Error("configuration rejected", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", "error", err)
			nrApp = nil
		} else {
			log.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// The claim lock is an optimisation; without Redis the unique constraint still holds.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Warn("redis unavailable, processing notifications without claim lock", "error", err)
		} else {
			defer redisClient.Close()
			log.Info("connected to redis", "addr", cfg.Redis.Addr)
		}
	}

	server := wireServer(db, redisClient, nrApp, cfg, log)

	go func() {
		log.Info("starting server",
			"port", cfg.Server.Port,
			"env", cfg.AppEnv,
			"sandbox", cfg.PayFast.Sandbox,
			"validate_url", cfg.PayFast.ValidationURL(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *slog.Logger) *http.Server {
	var locker internalRedis.NotificationLocker
	if redisClient != nil {
		locker = internalRedis.NewLockStore(redisClient)
	}

	// Initialize repositories.
	paymentRepo := postgres.NewPaymentRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)

	// PayFast protocol components.
	validator := payfast.NewValidator(
		payfast.NewSigner(cfg.PayFast.Passphrase),
		payfast.NewSourceAuthenticator(cfg.PayFast.Sandbox, cfg.IsDevelopment()),
		payfast.NewValidationClient(cfg.PayFast.ValidationURL(), cfg.PayFast.ValidateRPS, nil),
		cfg.PayFast.MerchantID,
		cfg.PayFast.Sandbox,
		log,
	)

	// Initialize services.
	reconciler := service.NewReconciler(paymentRepo, invoiceRepo, log)
	settlement := service.NewSettlement(invoiceRepo, enrollmentRepo, log)
	itnService := service.NewITNService(validator, reconciler, settlement, locker, metrics.NewCounters(nrApp), log)

	router := app.NewRouter(app.RouterDeps{
		WebhookHandler: handler.NewWebhookHandler(itnService, log),
		NewRelicApp:    nrApp,
		Logger:         log,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
