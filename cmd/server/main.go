package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sellermetrics/backend-go/internal/api"
	"github.com/sellermetrics/backend-go/internal/cache"
	"github.com/sellermetrics/backend-go/internal/config"
	"github.com/sellermetrics/backend-go/internal/engine"
	"github.com/sellermetrics/backend-go/internal/export"
	"github.com/sellermetrics/backend-go/internal/repository/postgres"
	"github.com/sellermetrics/backend-go/internal/service"
	"github.com/sellermetrics/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	productRepo := postgres.NewProductRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db, cfg.Policy)
	eventRepo := postgres.NewEventRepository(db)

	performanceCache, err := cache.NewPerformanceCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		performanceCache = cache.NewNoopPerformanceCache()
	}

	var storage export.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := export.NewS3Client(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		storage = s3
	}
	exporter := export.NewExporter(cfg.Storage.ExportDir, storage)

	generatorPolicy, classifierPolicy := engine.PolicyFromConfig(cfg.Engine)
	pipeline := engine.NewPipeline(
		productRepo, saleRepo, settingsRepo, productRepo, eventRepo,
		generatorPolicy, classifierPolicy,
	)

	services := &api.Services{
		PerformanceService: service.NewPerformanceService(productRepo, saleRepo, performanceCache),
		ReorderService:     service.NewReorderService(pipeline, eventRepo, performanceCache, exporter),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
