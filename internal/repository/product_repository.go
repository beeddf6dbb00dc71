package repository

import (
	"context"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, tenantID string) ([]domain.Product, error)
	UpdateProductStatus(ctx context.Context, productID int64, status domain.StockStatus) error
}
