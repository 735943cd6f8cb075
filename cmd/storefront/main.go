package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/swiftbuy/storefront/internal/api"
	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/config"
	"github.com/swiftbuy/storefront/internal/presenter"
	"github.com/swiftbuy/storefront/internal/pricing"
	"github.com/swiftbuy/storefront/internal/repository"
	"github.com/swiftbuy/storefront/internal/repository/postgres"
	"github.com/swiftbuy/storefront/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Submission audit is optional
	repos := repository.NewNoopRepositories()
	if cfg.Database.Enabled {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to set up database", zap.Error(err))
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, logger)
	}

	client := backend.NewClient(cfg.Backend, logger)
	calculator := pricing.NewCalculator(cfg.Storefront.ShippingFee)

	router := api.NewRouter(cfg, api.Services{
		Pricing: service.NewPricingService(client, calculator, logger,
			presenter.WithCurrencySymbol(cfg.Storefront.CurrencySymbol),
			presenter.WithCheckoutPath(cfg.Storefront.CheckoutPath),
		),
		Coupons: service.NewCouponService(client, repos, logger),
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Storefront listening",
			zap.String("port", cfg.Port),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.Bool("audit", cfg.Database.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
