package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sellermetrics/backend-go/internal/domain"
)

// EventSink is the persistence collaborator that stores fired reorder events.
type EventSink interface {
	SaveReorderEvent(ctx context.Context, event *domain.ReorderEvent) error
}

// TriggerFailure records one recommendation whose event could not be persisted.
type TriggerFailure struct {
	ProductID int64  `json:"product_id"`
	Error     string `json:"error"`
}

// TriggerReport summarises one trigger pass over a recommendation batch.
// A sink failure on one item never aborts the rest; failed emissions are
// retried naturally on the next evaluation cycle.
type TriggerReport struct {
	Fired    []int64          `json:"fired"`
	Declined int              `json:"declined"`
	Failures []TriggerFailure `json:"failures"`
}

// Trigger converts qualifying recommendations into persisted reorder events
// according to the tenant's auto-reorder policy.
type Trigger struct {
	sink EventSink
	now  func() time.Time
}

// NewTrigger creates a Trigger writing events to the given sink.
func NewTrigger(sink EventSink) *Trigger {
	return &Trigger{sink: sink, now: time.Now}
}

// Run evaluates every recommendation against the tenant settings and emits
// at most one event per qualifying recommendation. It returns early with
// ctx.Err() on cancellation; writes already issued are not rolled back.
func (t *Trigger) Run(
	ctx context.Context,
	tenantID string,
	recs []domain.ReorderRecommendation,
	perfs []domain.ProductPerformance,
	settings domain.Settings,
) (TriggerReport, error) {
	report := TriggerReport{Fired: make([]int64, 0), Failures: make([]TriggerFailure, 0)}

	perfByKey := make(map[string]domain.ProductPerformance, len(perfs))
	for _, perf := range perfs {
		perfByKey[perf.SKU] = perf
	}

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !t.shouldFire(rec, settings) {
			report.Declined++
			continue
		}

		event := t.buildEvent(tenantID, rec, perfByKey[rec.SKU])
		if err := t.sink.SaveReorderEvent(ctx, event); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenantID).
				Int64("product_id", rec.ProductID).
				Msg("failed to persist reorder event")
			report.Failures = append(report.Failures, TriggerFailure{
				ProductID: rec.ProductID,
				Error:     err.Error(),
			})
			continue
		}

		report.Fired = append(report.Fired, rec.ProductID)
	}

	return report, nil
}

// shouldFire applies the auto-reorder policy: the tenant opted in, the
// recommendation asks for units, and the margin clears the floor.
func (t *Trigger) shouldFire(rec domain.ReorderRecommendation, settings domain.Settings) bool {
	if !settings.AutoReorderEnabled {
		return false
	}
	if rec.RecommendedQuantity <= 0 {
		return false
	}
	return rec.ProfitMargin >= settings.MinimumProfitMargin
}

func (t *Trigger) buildEvent(
	tenantID string,
	rec domain.ReorderRecommendation,
	perf domain.ProductPerformance,
) *domain.ReorderEvent {
	perUnitProfit := 0.0
	if perf.TotalQuantity > 0 {
		perUnitProfit = perf.TotalProfit / perf.TotalQuantity
	}

	return &domain.ReorderEvent{
		ID:        uuid.NewString(),
		Type:      "reorder",
		TenantID:  tenantID,
		ProductID: rec.ProductID,
		Recommendation: fmt.Sprintf(
			"Reorder %d units of %s (%s)", rec.RecommendedQuantity, rec.ProductName, rec.SKU,
		),
		Explanation: rec.Reason,
		SuggestedAction: fmt.Sprintf(
			"Create a purchase order for %d units of %s", rec.RecommendedQuantity, rec.SKU,
		),
		Impact: domain.ImpactAnalysis{
			CurrentProfit:   perf.TotalProfit,
			ProjectedProfit: perf.TotalProfit + float64(rec.RecommendedQuantity)*perUnitProfit,
			ConfidenceScore: confidenceScore(perf.OrderCount),
		},
		CreatedAt: t.now(),
	}
}

// confidenceScore grows with the amount of sales history backing the
// projection, starting at 0.5 and capped at 0.95.
func confidenceScore(orderCount int) float64 {
	score := 0.5 + 0.05*float64(orderCount)
	if score > 0.95 {
		return 0.95
	}
	return score
}
