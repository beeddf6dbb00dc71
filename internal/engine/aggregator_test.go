package engine

import (
	"math"
	"testing"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateGroupsBySKU(t *testing.T) {
	sales := []domain.SaleRecord{
		{SKU: "A-1", Quantity: 2, TotalRevenue: 100, NetProfit: 40, SoldAt: day(1)},
		{SKU: "B-2", Quantity: 1, TotalRevenue: 50, NetProfit: 10, SoldAt: day(2)},
		{SKU: "A-1", Quantity: 3, TotalRevenue: 150, NetProfit: 60, SoldAt: day(3)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)
	require.Len(t, perfs, 2)

	// Sorted by SKU.
	a, b := perfs[0], perfs[1]
	assert.Equal(t, "A-1", a.SKU)
	assert.Equal(t, "B-2", b.SKU)

	assert.Equal(t, 5.0, a.TotalQuantity)
	assert.Equal(t, 250.0, a.TotalRevenue)
	assert.Equal(t, 100.0, a.TotalProfit)
	assert.Equal(t, 2, a.OrderCount)
	assert.Equal(t, 2.5, a.AvgQuantityPerOrder)
	assert.Equal(t, day(3), a.LastOrderDate)
}

func TestAggregateRevenueConservation(t *testing.T) {
	sales := []domain.SaleRecord{
		{SKU: "A", TotalRevenue: 19.99, SoldAt: day(1)},
		{SKU: "B", TotalRevenue: 7.50, SoldAt: day(1)},
		{SKU: "A", TotalRevenue: 12.01, SoldAt: day(2)},
		{SKU: "C", TotalRevenue: 0, SoldAt: day(2)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)

	var inputTotal, outputTotal float64
	for _, s := range sales {
		inputTotal += s.TotalRevenue
	}
	for _, p := range perfs {
		outputTotal += p.TotalRevenue
	}

	assert.InDelta(t, inputTotal, outputTotal, 1e-9)
}

func TestAggregateMarginInvariants(t *testing.T) {
	sales := []domain.SaleRecord{
		{SKU: "POS", Quantity: 1, TotalRevenue: 200, NetProfit: 50, SoldAt: day(1)},
		{SKU: "ZERO", Quantity: 1, TotalRevenue: 0, NetProfit: 0, SoldAt: day(1)},
		{SKU: "LOSS", Quantity: 1, TotalRevenue: 100, NetProfit: -30, SoldAt: day(1)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)

	byKey := make(map[string]domain.ProductPerformance)
	for _, p := range perfs {
		byKey[p.SKU] = p
	}

	assert.Equal(t, 25.0, byKey["POS"].ProfitMargin)
	// sales-only ROI basis is revenue minus profit: 50/150.
	assert.InDelta(t, 33.333, byKey["POS"].SalesOnlyROI, 0.001)

	// Zero revenue never divides.
	assert.Equal(t, 0.0, byKey["ZERO"].ProfitMargin)
	assert.Equal(t, 0.0, byKey["ZERO"].SalesOnlyROI)

	// Negative profit keeps margin below 100.
	assert.Equal(t, -30.0, byKey["LOSS"].ProfitMargin)
	assert.LessOrEqual(t, byKey["LOSS"].ProfitMargin, 100.0)
}

func TestAggregateFallsBackToProductID(t *testing.T) {
	sales := []domain.SaleRecord{
		{ProductID: 42, Quantity: 1, TotalRevenue: 10, SoldAt: day(1)},
		{ProductID: 42, Quantity: 2, TotalRevenue: 20, SoldAt: day(2)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)
	require.Len(t, perfs, 1)
	assert.Equal(t, "42", perfs[0].SKU)
	assert.Equal(t, 2, perfs[0].OrderCount)
}

func TestAggregateMissingIdentifier(t *testing.T) {
	sales := []domain.SaleRecord{
		{SKU: "OK", Quantity: 1, SoldAt: day(1)},
		{SKU: "  ", ProductID: 0, Quantity: 1, SoldAt: day(2)},
	}

	perfs, err := Aggregate(sales)
	assert.Nil(t, perfs)

	var missingErr *MissingIdentifierError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, 1, missingErr.Index)
}

func TestAggregateCoercesNonFiniteToZero(t *testing.T) {
	sales := []domain.SaleRecord{
		{SKU: "A", Quantity: math.NaN(), TotalRevenue: math.Inf(1), NetProfit: 5, SoldAt: day(1)},
		{SKU: "A", Quantity: 2, TotalRevenue: 40, NetProfit: math.Inf(-1), SoldAt: day(2)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)
	require.Len(t, perfs, 1)

	p := perfs[0]
	assert.Equal(t, 2.0, p.TotalQuantity)
	assert.Equal(t, 40.0, p.TotalRevenue)
	assert.Equal(t, 5.0, p.TotalProfit)
	assert.False(t, math.IsNaN(p.ProfitMargin))
	assert.False(t, math.IsNaN(p.SalesOnlyROI))
}

func TestAggregateLastOrderDateTieKeepsFirstSeen(t *testing.T) {
	tie := day(10)
	sales := []domain.SaleRecord{
		{SKU: "A", SoldAt: tie},
		{SKU: "A", SoldAt: tie},
		{SKU: "A", SoldAt: day(5)},
	}

	perfs, err := Aggregate(sales)
	require.NoError(t, err)
	assert.Equal(t, tie, perfs[0].LastOrderDate)
}

func TestAggregateEmptyInput(t *testing.T) {
	perfs, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, perfs)
}

func TestApplyCostBasis(t *testing.T) {
	perfs := []domain.ProductPerformance{
		{SKU: "A", TotalProfit: 50},
		{SKU: "B", TotalProfit: 10},
	}
	products := []domain.Product{
		{SKU: "A", Quantity: 10, CostPerItem: 20}, // basis 200
		{SKU: "C", Quantity: 5, CostPerItem: 1},
	}

	ApplyCostBasis(perfs, products)

	assert.Equal(t, 25.0, perfs[0].ROI)
	// No matching product keeps ROI zero.
	assert.Equal(t, 0.0, perfs[1].ROI)
}
