package engine

import "github.com/sellermetrics/backend-go/internal/domain"

// Classify derives the stock status from on-hand and sold quantities.
// Negative availability (oversold) classifies the same as zero.
func (p ClassifierPolicy) Classify(quantity, salesQty float64) domain.StockStatus {
	available := quantity - salesQty

	switch {
	case available <= 0:
		return domain.StatusOutOfStock
	case available < p.LowStockBelow:
		return domain.StatusLowStock
	default:
		return domain.StatusActive
	}
}

// PlanStatusChanges returns a mutation for every product whose computed
// status differs from the stored one. Recomputing over unchanged inputs
// yields an empty plan, so repeated runs never issue redundant writes.
func (p ClassifierPolicy) PlanStatusChanges(products []domain.Product) []domain.StatusChange {
	changes := make([]domain.StatusChange, 0)

	for _, product := range products {
		computed := p.Classify(product.Quantity, product.SalesQty)
		if computed == product.Status {
			continue
		}

		changes = append(changes, domain.StatusChange{
			ProductID: product.ID,
			SKU:       product.SKU,
			From:      product.Status,
			To:        computed,
		})
	}

	return changes
}
