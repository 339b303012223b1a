package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

// SettingsRepository derives the per-command settings snapshot from the
// tenant's active supplies.
type SettingsRepository struct {
	db              *sql.DB
	defaultCurrency domain.Currency
}

func NewSettingsRepository(db *sql.DB, defaultCurrency domain.Currency) *SettingsRepository {
	return &SettingsRepository{db: db, defaultCurrency: defaultCurrency}
}

func (r *SettingsRepository) Snapshot(ctx context.Context, tenantID uuid.UUID) (domain.SettingsSnapshot, error) {
	query := `
	SELECT COALESCE(SUM(cost), 0)
	FROM supplies
	WHERE tenant_id = $1 AND is_active
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&total); err != nil {
		return domain.SettingsSnapshot{}, fmt.Errorf("failed to sum active supplies: %w", err)
	}

	return domain.SettingsSnapshot{
		AmenitiesFee:    total,
		DefaultCurrency: r.defaultCurrency,
	}, nil
}
