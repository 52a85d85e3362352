package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/parcel-ledger/internal/config"
	"github.com/ignatzorin/parcel-ledger/internal/db"
	"github.com/ignatzorin/parcel-ledger/internal/goroutine"
	httpHandlers "github.com/ignatzorin/parcel-ledger/internal/http/handlers"
	httpRouter "github.com/ignatzorin/parcel-ledger/internal/http/router"
	"github.com/ignatzorin/parcel-ledger/internal/logger"
	"github.com/ignatzorin/parcel-ledger/internal/metrics"
	"github.com/ignatzorin/parcel-ledger/internal/repository"
	"github.com/ignatzorin/parcel-ledger/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	})
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка миграций")
	}

	// Репозитории.
	deliveryRepo := repository.NewDeliveryRepository(dbConn, cfg.DBQueryTimeout)
	cashoutRepo := repository.NewCashoutRepository(dbConn, cfg.DBQueryTimeout)

	// Сервисы.
	ledgerMetrics := metrics.NewLedger()
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	ledger := service.NewBalanceLedger(deliveryRepo, cashoutRepo, ledgerMetrics)
	cashoutService := service.NewCashoutService(cashoutRepo, ledger, cfg.MinCashoutAmount, ledgerMetrics)
	adminService := service.NewAdminCashoutService(cashoutRepo, ledgerMetrics)

	// HTTP handlers.
	riderHandler := httpHandlers.NewRiderCashoutHandler(cashoutService, ledger)
	adminHandler := httpHandlers.NewAdminCashoutHandler(adminService, ledger)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, riderHandler, adminHandler, healthHandler, tokenManager, ledgerMetrics)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, "http-shutdown", func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port":          cfg.HTTPPort,
		"env":           cfg.Env,
		"min_cashout":   cashoutService.MinAmount().String(),
		"query_timeout": cfg.DBQueryTimeout.String(),
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
