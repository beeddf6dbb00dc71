package repository

import (
	"context"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type SaleRepository interface {
	// ListSales returns the tenant's non-cancelled sales. A zero since
	// value returns the full history.
	ListSales(ctx context.Context, tenantID string, since time.Time) ([]domain.SaleRecord, error)
}
