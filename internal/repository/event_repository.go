package repository

import (
	"context"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type EventRepository interface {
	// SaveReorderEvent persists a fired auto-reorder event. Satisfies
	// engine.EventSink.
	SaveReorderEvent(ctx context.Context, event *domain.ReorderEvent) error

	ListRecentEvents(ctx context.Context, tenantID string, limit int) ([]domain.ReorderEvent, error)
}
