package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sellermetrics/backend-go/internal/cache"
	"github.com/sellermetrics/backend-go/internal/config"
	"github.com/sellermetrics/backend-go/internal/engine"
	"github.com/sellermetrics/backend-go/internal/export"
	"github.com/sellermetrics/backend-go/internal/repository"
	"github.com/sellermetrics/backend-go/internal/repository/postgres"
	"github.com/sellermetrics/backend-go/internal/service"
	"github.com/sellermetrics/backend-go/pkg/logger"
)

// evaluator runs one evaluation cycle for every known tenant.
type evaluator struct {
	reorder  *service.ReorderService
	settings repository.SettingsRepository
}

func (e *evaluator) runAll(ctx context.Context) {
	tenants, err := e.settings.ListTenants(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list tenants")
		return
	}

	for _, tenantID := range tenants {
		if ctx.Err() != nil {
			return
		}

		tctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		result, err := e.reorder.Evaluate(tctx, tenantID)
		cancel()

		if err != nil {
			logger.Log.Error().Err(err).Str("tenant_id", tenantID).Msg("Evaluation cycle failed")
			continue
		}

		logger.Log.Info().
			Str("tenant_id", tenantID).
			Int("recommendations", len(result.Recommendations)).
			Int("status_changes", len(result.StatusChanges)).
			Int("events_fired", len(result.Trigger.Fired)).
			Int("events_failed", len(result.Trigger.Failures)).
			Msg("Evaluation cycle completed")
	}
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

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

	worker := &evaluator{
		reorder:  service.NewReorderService(pipeline, eventRepo, performanceCache, exporter),
		settings: settingsRepo,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kick := make(chan struct{}, 1)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		select {
		case kick <- struct{}{}:
			w.WriteHeader(http.StatusAccepted)
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}).Methods("POST")

	srv := &http.Server{Addr: ":" + cfg.Worker.Port, Handler: r}
	go func() {
		logger.Log.Info().Str("port", cfg.Worker.Port).Msg("Starting worker")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start worker server")
		}
	}()

	interval := time.Duration(cfg.Worker.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	worker.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Shutting down worker...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Log.Error().Err(err).Msg("Worker server forced to shutdown")
			}
			return
		case <-ticker.C:
			worker.runAll(ctx)
		case <-kick:
			worker.runAll(ctx)
		}
	}
}
