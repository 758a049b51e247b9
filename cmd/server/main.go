package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/config"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
	"github.com/tidianess/assetflow/internal/repository/sheets"
	"github.com/tidianess/assetflow/internal/scheduler"
	"github.com/tidianess/assetflow/internal/server/handlers"
	"github.com/tidianess/assetflow/internal/server/router"
	assetsvc "github.com/tidianess/assetflow/internal/service/assets"
	authsvc "github.com/tidianess/assetflow/internal/service/auth"
	exportsvc "github.com/tidianess/assetflow/internal/service/export"
	materialsvc "github.com/tidianess/assetflow/internal/service/materials"
	reportingsvc "github.com/tidianess/assetflow/internal/service/reporting"
	stocksvc "github.com/tidianess/assetflow/internal/service/stock"
	"github.com/tidianess/assetflow/pkg/clients/notify"
	"github.com/tidianess/assetflow/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	itemRepo := mongodb.NewStockRepository(store)
	txRepo := mongodb.NewTransactionRepository(store)
	requestRepo := mongodb.NewRequestRepository(store)
	materialRepo := mongodb.NewMaterialRepository(store)
	assetRepo := mongodb.NewAssetRepository(store)
	userRepo := mongodb.NewUserRepository(store)
	reportRepo := mongodb.NewReportRepository(store)

	var mirror sheets.Repository
	if cfg.Sheets.Enabled() {
		mirror, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets mirror disabled, daily reports stored in mongodb only")
	}

	var notifier notify.Client
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notify)
		baseLogger.Info("stock webhook notifications enabled")
	} else {
		baseLogger.Warn("stock webhook url missing, notifications disabled")
	}

	stockSvc := stocksvc.NewService(itemRepo, txRepo, requestRepo, notifier, baseLogger.Named("svc.stock"))
	materialSvc := materialsvc.NewService(materialRepo, stockSvc, baseLogger.Named("svc.materials"))
	assetSvc := assetsvc.NewService(assetRepo, baseLogger.Named("svc.assets"))
	authSvc := authsvc.NewService(userRepo, cfg.Auth, baseLogger.Named("svc.auth"))
	exportSvc := exportsvc.NewService(stockSvc, baseLogger.Named("svc.export"))
	reportingSvc := reportingsvc.NewService(itemRepo, txRepo, reportRepo, mirror, notifier, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Stock:     handlers.NewStockHandler(stockSvc, baseLogger.Named("handlers.stock")),
		Materials: handlers.NewMaterialHandler(materialSvc, baseLogger.Named("handlers.materials")),
		Assets:    handlers.NewAssetHandler(assetSvc, baseLogger.Named("handlers.assets")),
		Export:    handlers.NewExportHandler(exportSvc, baseLogger.Named("handlers.export")),
	}, cfg.Auth.JWTSecret, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
