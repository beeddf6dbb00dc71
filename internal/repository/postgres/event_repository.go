package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) SaveReorderEvent(ctx context.Context, event *domain.ReorderEvent) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO reorder_events (
				id, type, tenant_id, product_id, recommendation,
				explanation, suggested_action, current_profit,
				projected_profit, confidence_score, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		_, err := tx.ExecContext(
			ctx,
			query,
			event.ID,
			event.Type,
			event.TenantID,
			event.ProductID,
			event.Recommendation,
			event.Explanation,
			event.SuggestedAction,
			event.Impact.CurrentProfit,
			event.Impact.ProjectedProfit,
			event.Impact.ConfidenceScore,
			event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reorder event: %w", err)
		}

		return nil
	})
}

func (r *eventRepository) ListRecentEvents(ctx context.Context, tenantID string, limit int) ([]domain.ReorderEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			id, type, tenant_id, product_id, recommendation,
			explanation, suggested_action, current_profit,
			projected_profit, confidence_score, created_at
		FROM reorder_events
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryxContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing reorder events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.ReorderEvent, 0)
	for rows.Next() {
		var e domain.ReorderEvent
		err := rows.Scan(
			&e.ID, &e.Type, &e.TenantID, &e.ProductID, &e.Recommendation,
			&e.Explanation, &e.SuggestedAction, &e.Impact.CurrentProfit,
			&e.Impact.ProjectedProfit, &e.Impact.ConfidenceScore, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reorder event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
