package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sellermetrics/backend-go/internal/config"
	"github.com/sellermetrics/backend-go/internal/domain"
)

type settingsRepository struct {
	db       *DB
	defaults config.PolicyDefaults
}

func NewSettingsRepository(db *DB, defaults config.PolicyDefaults) *settingsRepository {
	return &settingsRepository{db: db, defaults: defaults}
}

func (r *settingsRepository) GetSettings(ctx context.Context, tenantID string) (domain.Settings, error) {
	query := `
		SELECT
			tenant_id, auto_reorder_enabled, minimum_profit_margin,
			shipping_cost, label_cost, cancellation_shipping_loss
		FROM settings
		WHERE tenant_id = $1
	`

	var settings domain.Settings
	err := r.db.GetContext(ctx, &settings, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		// Tenant has never saved settings; fall back to the defaults
		// enumerated in config.
		return domain.Settings{
			TenantID:                 tenantID,
			AutoReorderEnabled:       r.defaults.AutoReorderEnabled,
			MinimumProfitMargin:      r.defaults.MinimumProfitMargin,
			ShippingCost:             r.defaults.ShippingCost,
			LabelCost:                r.defaults.LabelCost,
			CancellationShippingLoss: r.defaults.CancellationShippingLoss,
		}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("error getting settings: %w", err)
	}

	return settings, nil
}

func (r *settingsRepository) ListTenants(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT tenant_id
		FROM products
		ORDER BY tenant_id
	`

	var tenants []string
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("error listing tenants: %w", err)
	}

	return tenants, nil
}
