package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
)

// Generator produces reorder recommendations from catalog, performance and
// sales-velocity data.
type Generator struct {
	policy GeneratorPolicy
	now    func() time.Time
}

// NewGenerator creates a Generator with the given policy.
func NewGenerator(policy GeneratorPolicy) *Generator {
	if policy.VelocityWindowDays <= 0 {
		policy.VelocityWindowDays = DefaultGeneratorPolicy().VelocityWindowDays
	}
	if policy.TargetCoverDays <= 0 {
		policy.TargetCoverDays = DefaultGeneratorPolicy().TargetCoverDays
	}
	if policy.StockoutSentinelDays <= 0 {
		policy.StockoutSentinelDays = DefaultGeneratorPolicy().StockoutSentinelDays
	}

	return &Generator{policy: policy, now: time.Now}
}

// Generate returns one recommendation per product, including products that
// need no action (RecommendedQuantity zero). Output ordering is stable:
// priority first, then estimated days until stockout ascending, then SKU.
func (g *Generator) Generate(
	products []domain.Product,
	perfs []domain.ProductPerformance,
	sales []domain.SaleRecord,
	settings domain.Settings,
) []domain.ReorderRecommendation {
	perfByKey := make(map[string]domain.ProductPerformance, len(perfs))
	for _, perf := range perfs {
		perfByKey[perf.SKU] = perf
	}

	velocityByKey := g.velocityByKey(sales)

	recs := make([]domain.ReorderRecommendation, 0, len(products))
	for _, product := range products {
		key := productKey(product)
		perf := perfByKey[key]
		velocity := velocityByKey[key]

		recs = append(recs, g.recommend(product, perf, velocity, settings))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if a.EstimatedDaysUntilStockout != b.EstimatedDaysUntilStockout {
			return a.EstimatedDaysUntilStockout < b.EstimatedDaysUntilStockout
		}
		return a.SKU < b.SKU
	})

	return recs
}

// velocityByKey approximates recent demand: units sold inside the trailing
// window divided by the window length in days.
func (g *Generator) velocityByKey(sales []domain.SaleRecord) map[string]float64 {
	windowDays := float64(g.policy.VelocityWindowDays)
	cutoff := g.now().AddDate(0, 0, -g.policy.VelocityWindowDays)

	units := make(map[string]float64)
	for _, sale := range sales {
		if sale.SoldAt.Before(cutoff) {
			continue
		}
		units[saleKey(sale)] += finiteOrZero(sale.Quantity)
	}

	velocities := make(map[string]float64, len(units))
	for key, sold := range units {
		velocities[key] = sold / windowDays
	}

	return velocities
}

func (g *Generator) recommend(
	product domain.Product,
	perf domain.ProductPerformance,
	velocity float64,
	settings domain.Settings,
) domain.ReorderRecommendation {
	available := product.AvailableQty()

	rec := domain.ReorderRecommendation{
		ProductID:       product.ID,
		SKU:             product.SKU,
		ProductName:     product.Name,
		CurrentQuantity: available,
		ProfitMargin:    perf.ProfitMargin,
	}

	if velocity > 0 {
		days := available / velocity
		if days < 0 {
			days = 0
		}
		rec.EstimatedDaysUntilStockout = roundTo(days, 1)

		needed := velocity*float64(g.policy.TargetCoverDays) - available
		if needed > 0 {
			rec.RecommendedQuantity = int(math.Ceil(needed))
		}
	} else {
		// No recent demand means no imminent stockout.
		rec.EstimatedDaysUntilStockout = g.policy.StockoutSentinelDays
	}

	rec.Priority = g.priorityFor(rec.EstimatedDaysUntilStockout)
	rec.Reason = g.reasonFor(rec, velocity)

	if perf.ProfitMargin < settings.MinimumProfitMargin {
		rec.BelowMarginFloor = true
		rec.Reason += fmt.Sprintf(
			"; margin %.1f%% is below the configured minimum of %.1f%%, reorder at your discretion",
			perf.ProfitMargin, settings.MinimumProfitMargin,
		)
	}

	return rec
}

func (g *Generator) priorityFor(daysUntilStockout float64) domain.ReorderPriority {
	switch {
	case daysUntilStockout < g.policy.HighPriorityBelowDays:
		return domain.PriorityHigh
	case daysUntilStockout < g.policy.MediumPriorityBelowDays:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func (g *Generator) reasonFor(rec domain.ReorderRecommendation, velocity float64) string {
	if rec.RecommendedQuantity <= 0 {
		if velocity <= 0 {
			return "no sales in the velocity window, no restock needed"
		}
		return fmt.Sprintf(
			"stock covers %.1f days at %.2f units/day, above the %d-day target",
			rec.EstimatedDaysUntilStockout, velocity, g.policy.TargetCoverDays,
		)
	}

	if rec.CurrentQuantity <= 0 {
		return fmt.Sprintf(
			"out of stock with recent demand of %.2f units/day, reorder %d units for %d days of cover",
			velocity, rec.RecommendedQuantity, g.policy.TargetCoverDays,
		)
	}

	return fmt.Sprintf(
		"%.0f units left cover only %.1f days at %.2f units/day, reorder %d units to restore %d days of cover",
		rec.CurrentQuantity, rec.EstimatedDaysUntilStockout, velocity,
		rec.RecommendedQuantity, g.policy.TargetCoverDays,
	)
}

func saleKey(sale domain.SaleRecord) string {
	if key := strings.TrimSpace(sale.SKU); key != "" {
		return key
	}
	return strconv.FormatInt(sale.ProductID, 10)
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
