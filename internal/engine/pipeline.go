package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sellermetrics/backend-go/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ProductSource reads the tenant's product catalog.
type ProductSource interface {
	ListProducts(ctx context.Context, tenantID string) ([]domain.Product, error)
}

// SaleSource reads the tenant's completed sales. A zero since value means
// the full history.
type SaleSource interface {
	ListSales(ctx context.Context, tenantID string, since time.Time) ([]domain.SaleRecord, error)
}

// SettingsSource reads the tenant's reorder policy, defaults applied.
type SettingsSource interface {
	GetSettings(ctx context.Context, tenantID string) (domain.Settings, error)
}

// StatusWriter persists a stock-status change for one product.
type StatusWriter interface {
	UpdateProductStatus(ctx context.Context, productID int64, status domain.StockStatus) error
}

// Pipeline runs one evaluation cycle per call: aggregate, classify,
// generate, trigger. All computation is pure; I/O goes through the
// injected sources and sinks, so concurrent invocations for different
// tenants never share state.
type Pipeline struct {
	products ProductSource
	sales    SaleSource
	settings SettingsSource
	statuses StatusWriter

	classifier ClassifierPolicy
	generator  *Generator
	trigger    *Trigger
}

// NewPipeline wires an evaluation pipeline from its collaborators.
func NewPipeline(
	products ProductSource,
	sales SaleSource,
	settings SettingsSource,
	statuses StatusWriter,
	sink EventSink,
	generatorPolicy GeneratorPolicy,
	classifierPolicy ClassifierPolicy,
) *Pipeline {
	return &Pipeline{
		products:   products,
		sales:      sales,
		settings:   settings,
		statuses:   statuses,
		classifier: classifierPolicy,
		generator:  NewGenerator(generatorPolicy),
		trigger:    NewTrigger(sink),
	}
}

// Evaluate runs a full cycle for one tenant and returns the derived
// metrics, planned status changes, recommendations and the trigger report.
func (p *Pipeline) Evaluate(ctx context.Context, tenantID string) (*EvaluationResult, error) {
	products, sales, settings, err := p.loadInputs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	perfs, err := Aggregate(sales)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales for tenant %s: %w", tenantID, err)
	}
	ApplyCostBasis(perfs, products)

	changes := p.classifier.PlanStatusChanges(products)
	for _, change := range changes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.statuses.UpdateProductStatus(ctx, change.ProductID, change.To); err != nil {
			// A failed status write degrades to stale UI state, not a
			// broken cycle; the next run replans the same change.
			log.Warn().Err(err).
				Str("tenant_id", tenantID).
				Int64("product_id", change.ProductID).
				Str("status", string(change.To)).
				Msg("failed to update product status")
		}
	}

	recs := p.generator.Generate(products, perfs, sales, settings)

	report, err := p.trigger.Run(ctx, tenantID, recs, perfs, settings)
	if err != nil {
		return nil, err
	}

	return &EvaluationResult{
		TenantID:        tenantID,
		Performance:     perfs,
		StatusChanges:   changes,
		Recommendations: recs,
		Trigger:         report,
	}, nil
}

// Preview computes recommendations without persisting status changes or
// firing the trigger. Used by the dashboard's read-only recommendation view.
func (p *Pipeline) Preview(ctx context.Context, tenantID string) ([]domain.ReorderRecommendation, error) {
	products, sales, settings, err := p.loadInputs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	perfs, err := Aggregate(sales)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales for tenant %s: %w", tenantID, err)
	}
	ApplyCostBasis(perfs, products)

	return p.generator.Generate(products, perfs, sales, settings), nil
}

// loadInputs fetches products, sales and settings concurrently.
func (p *Pipeline) loadInputs(ctx context.Context, tenantID string) (
	[]domain.Product, []domain.SaleRecord, domain.Settings, error,
) {
	var (
		products []domain.Product
		sales    []domain.SaleRecord
		settings domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		products, err = p.products.ListProducts(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		sales, err = p.sales.ListSales(gctx, tenantID, time.Time{})
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		settings, err = p.settings.GetSettings(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, domain.Settings{}, err
	}

	return products, sales, settings, nil
}
