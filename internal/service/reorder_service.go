package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sellermetrics/backend-go/internal/cache"
	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/sellermetrics/backend-go/internal/engine"
	"github.com/sellermetrics/backend-go/internal/export"
	"github.com/sellermetrics/backend-go/internal/repository"
)

// ReorderService runs the evaluation pipeline and exposes its outputs.
type ReorderService struct {
	pipeline *engine.Pipeline
	events   repository.EventRepository
	cache    cache.PerformanceCache
	exporter *export.Exporter
}

func NewReorderService(
	pipeline *engine.Pipeline,
	events repository.EventRepository,
	cacheImpl cache.PerformanceCache,
	exporter *export.Exporter,
) *ReorderService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPerformanceCache()
	}
	return &ReorderService{
		pipeline: pipeline,
		events:   events,
		cache:    cacheImpl,
		exporter: exporter,
	}
}

// Evaluate runs a full evaluation cycle for the tenant: metrics, status
// updates, recommendations and the auto-reorder trigger. The performance
// cache is invalidated afterwards since statuses may have moved.
func (s *ReorderService) Evaluate(ctx context.Context, tenantID string) (*engine.EvaluationResult, error) {
	result, err := s.pipeline.Evaluate(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("reorder: cache invalidate failed")
	}

	if s.exporter != nil {
		if _, err := s.exporter.ExportRecommendations(ctx, tenantID, result.Recommendations); err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID).Msg("reorder: export failed")
		}
	}

	return result, nil
}

// GetRecommendations computes fresh recommendations without side effects.
func (s *ReorderService) GetRecommendations(ctx context.Context, tenantID string) ([]domain.ReorderRecommendation, error) {
	return s.pipeline.Preview(ctx, tenantID)
}

// ListEvents returns the tenant's most recent auto-reorder events.
func (s *ReorderService) ListEvents(ctx context.Context, tenantID string, limit int) ([]domain.ReorderEvent, error) {
	return s.events.ListRecentEvents(ctx, tenantID, limit)
}
