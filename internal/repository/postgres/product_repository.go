package postgres

import (
	"context"
	"fmt"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context, tenantID string) ([]domain.Product, error) {
	query := `
		SELECT
			id, tenant_id, sku, name, quantity, sales_qty,
			cost_per_item, status, created_at, updated_at
		FROM products
		WHERE tenant_id = $1
		ORDER BY sku
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, tenantID); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdateProductStatus(ctx context.Context, productID int64, status domain.StockStatus) error {
	query := `
		UPDATE products
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, productID, status)
	if err != nil {
		return fmt.Errorf("error updating product status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("product %d not found", productID)
	}

	return nil
}
