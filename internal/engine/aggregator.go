package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sellermetrics/backend-go/internal/domain"
)

// MissingIdentifierError reports a sale record that carries neither a SKU
// nor a product id and therefore cannot be grouped.
type MissingIdentifierError struct {
	Index int
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("sale record %d has neither sku nor product id", e.Index)
}

// Aggregate reduces raw sale records into one ProductPerformance per SKU.
// Records without a SKU fall back to the product id as grouping key.
// NaN and infinite numeric fields are coerced to zero so a few bad rows
// never poison the totals. Input order is irrelevant; output is sorted by
// SKU for reproducibility.
func Aggregate(sales []domain.SaleRecord) ([]domain.ProductPerformance, error) {
	byKey := make(map[string]*domain.ProductPerformance)

	for i, sale := range sales {
		key := strings.TrimSpace(sale.SKU)
		if key == "" {
			if sale.ProductID == 0 {
				return nil, &MissingIdentifierError{Index: i}
			}
			key = strconv.FormatInt(sale.ProductID, 10)
		}

		perf, ok := byKey[key]
		if !ok {
			perf = &domain.ProductPerformance{
				SKU:         key,
				ProductID:   sale.ProductID,
				ProductName: sale.ProductName,
			}
			byKey[key] = perf
		}
		if perf.ProductName == "" {
			perf.ProductName = sale.ProductName
		}

		perf.TotalQuantity += finiteOrZero(sale.Quantity)
		perf.TotalRevenue += finiteOrZero(sale.TotalRevenue)
		perf.TotalProfit += finiteOrZero(sale.NetProfit)
		perf.OrderCount++

		// Strict greater-than: ties keep the first-seen date.
		if sale.SoldAt.After(perf.LastOrderDate) {
			perf.LastOrderDate = sale.SoldAt
		}
	}

	results := make([]domain.ProductPerformance, 0, len(byKey))
	for _, perf := range byKey {
		finalizeMetrics(perf)
		results = append(results, *perf)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].SKU < results[j].SKU })

	return results, nil
}

// finalizeMetrics computes the derived ratios after accumulation. Every
// division guards its denominator so the output never carries NaN.
func finalizeMetrics(perf *domain.ProductPerformance) {
	if perf.TotalRevenue > 0 {
		perf.ProfitMargin = perf.TotalProfit / perf.TotalRevenue * 100
	}

	// Sales-only ROI uses the cost of units actually sold as its basis:
	// revenue minus profit.
	if soldCost := perf.TotalRevenue - perf.TotalProfit; soldCost > 0 {
		perf.SalesOnlyROI = perf.TotalProfit / soldCost * 100
	}

	if perf.OrderCount > 0 {
		perf.AvgQuantityPerOrder = perf.TotalQuantity / float64(perf.OrderCount)
	}
}

// ApplyCostBasis fills the full-inventory ROI for each performance entry
// using the product's purchased quantity and unit cost. Entries without a
// matching product keep ROI zero.
func ApplyCostBasis(perfs []domain.ProductPerformance, products []domain.Product) {
	costByKey := make(map[string]float64, len(products))
	for _, p := range products {
		costByKey[productKey(p)] = finiteOrZero(p.Quantity) * finiteOrZero(p.CostPerItem)
	}

	for i := range perfs {
		if basis := costByKey[perfs[i].SKU]; basis > 0 {
			perfs[i].ROI = perfs[i].TotalProfit / basis * 100
		}
	}
}

// productKey mirrors the aggregator's grouping rule for products.
func productKey(p domain.Product) string {
	if sku := strings.TrimSpace(p.SKU); sku != "" {
		return sku
	}
	return strconv.FormatInt(p.ID, 10)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
