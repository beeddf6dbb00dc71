package repository

import (
	"context"

	"github.com/sellermetrics/backend-go/internal/domain"
)

type SettingsRepository interface {
	// GetSettings returns the tenant's reorder policy with defaults
	// applied when no row exists yet.
	GetSettings(ctx context.Context, tenantID string) (domain.Settings, error)

	// ListTenants returns the ids of every tenant known to the system,
	// used by the worker to schedule evaluation cycles.
	ListTenants(ctx context.Context) ([]string, error)
}
