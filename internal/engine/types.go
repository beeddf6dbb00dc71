package engine

import (
	"github.com/sellermetrics/backend-go/internal/config"
	"github.com/sellermetrics/backend-go/internal/domain"
)

// ClassifierPolicy holds the stock-status thresholds.
type ClassifierPolicy struct {
	LowStockBelow float64
}

// DefaultClassifierPolicy returns the fixed product policy: fewer than 5
// available units counts as low stock.
func DefaultClassifierPolicy() ClassifierPolicy {
	return ClassifierPolicy{LowStockBelow: 5}
}

// GeneratorPolicy holds the tunables of the recommendation generator.
//
// The velocity model is a trailing average: units sold inside
// VelocityWindowDays divided by the window length. The recommended
// quantity restores TargetCoverDays of cover at that rate.
type GeneratorPolicy struct {
	VelocityWindowDays      int
	TargetCoverDays         int
	HighPriorityBelowDays   float64
	MediumPriorityBelowDays float64
	StockoutSentinelDays    float64
}

// DefaultGeneratorPolicy returns the production defaults: a 30-day velocity
// window, 30 days of target cover and the 7/14-day priority bands.
func DefaultGeneratorPolicy() GeneratorPolicy {
	return GeneratorPolicy{
		VelocityWindowDays:      30,
		TargetCoverDays:         30,
		HighPriorityBelowDays:   7,
		MediumPriorityBelowDays: 14,
		StockoutSentinelDays:    9999,
	}
}

// PolicyFromConfig builds the generator and classifier policies from the
// application config, falling back to defaults for unset values.
func PolicyFromConfig(cfg config.EngineConfig) (GeneratorPolicy, ClassifierPolicy) {
	gp := DefaultGeneratorPolicy()
	if cfg.VelocityWindowDays > 0 {
		gp.VelocityWindowDays = cfg.VelocityWindowDays
	}
	if cfg.TargetCoverDays > 0 {
		gp.TargetCoverDays = cfg.TargetCoverDays
	}
	if cfg.HighPriorityBelowDays > 0 {
		gp.HighPriorityBelowDays = cfg.HighPriorityBelowDays
	}
	if cfg.MediumPriorityBelowDays > 0 {
		gp.MediumPriorityBelowDays = cfg.MediumPriorityBelowDays
	}

	cp := DefaultClassifierPolicy()
	if cfg.LowStockThreshold > 0 {
		cp.LowStockBelow = cfg.LowStockThreshold
	}

	return gp, cp
}

// EvaluationResult is the output of one full evaluation cycle for a tenant.
type EvaluationResult struct {
	TenantID        string                         `json:"tenant_id"`
	Performance     []domain.ProductPerformance    `json:"performance"`
	StatusChanges   []domain.StatusChange          `json:"status_changes"`
	Recommendations []domain.ReorderRecommendation `json:"recommendations"`
	Trigger         TriggerReport                  `json:"trigger"`
}
