package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sellermetrics/backend-go/internal/config"
	"github.com/sellermetrics/backend-go/internal/domain"
)

const (
	performanceKeyPrefix = "performance:tenant"
	performanceScanBatch = 100
)

// PerformanceCache holds per-tenant ProductPerformance dashboards for a
// short TTL so repeated dashboard loads don't re-aggregate the full sales
// history.
type PerformanceCache interface {
	Get(ctx context.Context, tenantID string) ([]domain.ProductPerformance, bool, error)
	Set(ctx context.Context, tenantID string, perfs []domain.ProductPerformance) error
	Invalidate(ctx context.Context, tenantID string) error
	InvalidateAll(ctx context.Context) error
}

type redisPerformanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPerformanceCache struct{}

func NewPerformanceCache(cfg config.CacheConfig) (PerformanceCache, error) {
	if !cfg.Enabled {
		return &noopPerformanceCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPerformanceCache{client: client, ttl: ttl}, nil
}

func NewNoopPerformanceCache() PerformanceCache {
	return &noopPerformanceCache{}
}

func (c *redisPerformanceCache) Get(ctx context.Context, tenantID string) ([]domain.ProductPerformance, bool, error) {
	payload, err := c.client.Get(ctx, performanceKey(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var perfs []domain.ProductPerformance
	if err := json.Unmarshal(payload, &perfs); err != nil {
		return nil, false, fmt.Errorf("decode performance cache: %w", err)
	}

	return perfs, true, nil
}

func (c *redisPerformanceCache) Set(ctx context.Context, tenantID string, perfs []domain.ProductPerformance) error {
	payload, err := json.Marshal(perfs)
	if err != nil {
		return fmt.Errorf("encode performance cache: %w", err)
	}

	if err := c.client.Set(ctx, performanceKey(tenantID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPerformanceCache) Invalidate(ctx context.Context, tenantID string) error {
	return c.client.Del(ctx, performanceKey(tenantID)).Err()
}

func (c *redisPerformanceCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, performanceKeyPrefix, performanceScanBatch)
}

func (n *noopPerformanceCache) Get(ctx context.Context, tenantID string) ([]domain.ProductPerformance, bool, error) {
	return nil, false, nil
}

func (n *noopPerformanceCache) Set(ctx context.Context, tenantID string, perfs []domain.ProductPerformance) error {
	return nil
}

func (n *noopPerformanceCache) Invalidate(ctx context.Context, tenantID string) error {
	return nil
}

func (n *noopPerformanceCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func performanceKey(tenantID string) string {
	return fmt.Sprintf("%s:%s", performanceKeyPrefix, tenantID)
}
