package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	g := NewGenerator(DefaultGeneratorPolicy())
	g.now = func() time.Time { return fixedNow }
	return g
}

// salesAtRate builds one sale per day across the full 30-day velocity
// window so the computed velocity is exactly unitsPerDay.
func salesAtRate(sku string, unitsPerDay float64) []domain.SaleRecord {
	sales := make([]domain.SaleRecord, 0, 30)
	for i := 0; i < 30; i++ {
		sales = append(sales, domain.SaleRecord{
			SKU:      sku,
			Quantity: unitsPerDay,
			SoldAt:   fixedNow.AddDate(0, 0, -i),
		})
	}
	return sales
}

func TestGeneratePriorityBands(t *testing.T) {
	g := newTestGenerator()
	settings := domain.Settings{MinimumProfitMargin: 0}

	// 2 units/day velocity over the 30-day window.
	tests := []struct {
		name      string
		available float64
		want      domain.ReorderPriority
	}{
		{"under 7 days is high", 10, domain.PriorityHigh},      // 5 days
		{"under 14 days is medium", 20, domain.PriorityMedium}, // 10 days
		{"14 days or more is low", 40, domain.PriorityLow},     // 20 days
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := []domain.Product{{ID: 1, SKU: "A", Name: "Widget", Quantity: tt.available}}
			recs := g.Generate(products, nil, salesAtRate("A", 2), settings)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Priority)
		})
	}
}

func TestGeneratePriorityMonotonicInDays(t *testing.T) {
	g := newTestGenerator()
	settings := domain.Settings{}

	products := []domain.Product{
		{ID: 1, SKU: "A", Quantity: 6},
		{ID: 2, SKU: "B", Quantity: 18},
		{ID: 3, SKU: "C", Quantity: 60},
		{ID: 4, SKU: "D", Quantity: 2},
	}
	var sales []domain.SaleRecord
	for _, sku := range []string{"A", "B", "C", "D"} {
		sales = append(sales, salesAtRate(sku, 2)...)
	}

	recs := g.Generate(products, nil, sales, settings)
	require.Len(t, recs, 4)

	for i := 0; i < len(recs)-1; i++ {
		a, b := recs[i], recs[i+1]
		if a.EstimatedDaysUntilStockout < b.EstimatedDaysUntilStockout {
			assert.GreaterOrEqual(t, a.Priority.Rank(), b.Priority.Rank(),
				"priority must not decrease as days-until-stockout shrinks")
		}
	}
}

func TestGenerateRecommendedQuantityRestoresCover(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{{ID: 1, SKU: "A", Name: "Widget", Quantity: 10}}
	recs := g.Generate(products, nil, salesAtRate("A", 2), domain.Settings{})
	require.Len(t, recs, 1)

	rec := recs[0]
	// Target: 2 units/day * 30 days = 60, minus 10 available.
	assert.Equal(t, 50, rec.RecommendedQuantity)
	assert.InDelta(t, 5.0, rec.EstimatedDaysUntilStockout, 0.01)
	assert.NotEmpty(t, rec.Reason)
}

func TestGenerateZeroVelocityUsesSentinel(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{{ID: 1, SKU: "A", Quantity: 3}}
	recs := g.Generate(products, nil, nil, domain.Settings{})
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, 0, rec.RecommendedQuantity)
	assert.Equal(t, g.policy.StockoutSentinelDays, rec.EstimatedDaysUntilStockout)
	assert.Equal(t, domain.PriorityLow, rec.Priority)
	assert.NotEmpty(t, rec.Reason)
}

func TestGenerateOutOfStockWithDemand(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{{ID: 1, SKU: "A", Name: "Widget", Quantity: 5, SalesQty: 8}}
	recs := g.Generate(products, nil, salesAtRate("A", 1), domain.Settings{})
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, 0.0, rec.EstimatedDaysUntilStockout)
	assert.Equal(t, domain.PriorityHigh, rec.Priority)
	assert.Greater(t, rec.RecommendedQuantity, 0)
	assert.Contains(t, rec.Reason, "out of stock")
}

func TestGenerateFlagsLowMarginButKeepsProduct(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{{ID: 1, SKU: "A", Name: "Widget", Quantity: 10}}
	perfs := []domain.ProductPerformance{{SKU: "A", ProfitMargin: 12.5}}
	settings := domain.Settings{MinimumProfitMargin: 25}

	recs := g.Generate(products, perfs, salesAtRate("A", 2), settings)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Greater(t, rec.RecommendedQuantity, 0)
	assert.True(t, rec.BelowMarginFloor)
	assert.Contains(t, rec.Reason, "below the configured minimum")
}

func TestGenerateDeterministicOrdering(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{
		{ID: 3, SKU: "C", Quantity: 40},
		{ID: 1, SKU: "A", Quantity: 6},
		{ID: 2, SKU: "B", Quantity: 6},
	}
	var sales []domain.SaleRecord
	for _, sku := range []string{"A", "B", "C"} {
		sales = append(sales, salesAtRate(sku, 2)...)
	}

	first := g.Generate(products, nil, sales, domain.Settings{})
	second := g.Generate(products, nil, sales, domain.Settings{})
	assert.Equal(t, first, second)

	// High priority first, equal-days ties broken by SKU.
	var order []string
	for _, rec := range first {
		order = append(order, rec.SKU)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestGenerateEmptyInputs(t *testing.T) {
	g := newTestGenerator()

	recs := g.Generate(nil, nil, nil, domain.Settings{})
	assert.Empty(t, recs)
}

func TestGenerateReasonNonEmptyWhenQuantityPositive(t *testing.T) {
	g := newTestGenerator()

	products := []domain.Product{
		{ID: 1, SKU: "A", Quantity: 1},
		{ID: 2, SKU: "B", Quantity: 100},
		{ID: 3, SKU: "C", Quantity: 0},
	}
	sales := append(salesAtRate("A", 3), salesAtRate("B", 0.5)...)

	recs := g.Generate(products, nil, sales, domain.Settings{})
	for _, rec := range recs {
		if rec.RecommendedQuantity > 0 {
			assert.False(t, strings.TrimSpace(rec.Reason) == "", "reason must be set for %s", rec.SKU)
		}
	}
}
