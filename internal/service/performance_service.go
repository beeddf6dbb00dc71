package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sellermetrics/backend-go/internal/cache"
	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/sellermetrics/backend-go/internal/engine"
	"github.com/sellermetrics/backend-go/internal/repository"
)

// PerformanceService serves the profitability dashboard. It is the single
// source of truth for derived metrics; presentation layers sort and filter
// its output instead of re-deriving anything.
type PerformanceService struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	cache    cache.PerformanceCache
}

func NewPerformanceService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	cacheImpl cache.PerformanceCache,
) *PerformanceService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPerformanceCache()
	}
	return &PerformanceService{products: products, sales: sales, cache: cacheImpl}
}

// GetPerformance returns per-SKU performance metrics for the tenant,
// cache-aside with a short TTL.
func (s *PerformanceService) GetPerformance(ctx context.Context, tenantID string) ([]domain.ProductPerformance, error) {
	if perfs, ok, err := s.cache.Get(ctx, tenantID); err == nil && ok {
		return perfs, nil
	} else if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("performance: cache get failed")
	}

	sales, err := s.sales.ListSales(ctx, tenantID, time.Time{})
	if err != nil {
		return nil, err
	}

	perfs, err := engine.Aggregate(sales)
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListProducts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	engine.ApplyCostBasis(perfs, products)

	if err := s.cache.Set(ctx, tenantID, perfs); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("performance: cache set failed")
	}

	return perfs, nil
}
