package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) *saleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) ListSales(ctx context.Context, tenantID string, since time.Time) ([]domain.SaleRecord, error) {
	query := `
		SELECT
			id, tenant_id, product_id, sku, product_name, quantity,
			unit_price, fees, shipping_cost, label_cost,
			total_revenue, net_profit, roi, sold_at
		FROM sales
		WHERE tenant_id = $1
		  AND status != 'cancelled'
	`

	args := []interface{}{tenantID}
	if !since.IsZero() {
		query += " AND sold_at >= $2"
		args = append(args, since)
	}
	query += " ORDER BY sold_at"

	var sales []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("error listing sales: %w", err)
	}

	return sales, nil
}
