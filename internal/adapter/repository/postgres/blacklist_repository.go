package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

type BlacklistRepository struct {
	db *sql.DB
}

func NewBlacklistRepository(db *sql.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// FindActiveByPhone expects guest_phone to be stored normalized.
func (r *BlacklistRepository) FindActiveByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*domain.BlacklistEntry, error) {
	query := `
	SELECT id, tenant_id, guest_name, guest_phone, reason, is_active
	FROM blacklist_entries
	WHERE tenant_id = $1 AND guest_phone = $2 AND is_active
	ORDER BY created_at DESC
	LIMIT 1
	`

	var entry domain.BlacklistEntry
	err := r.db.QueryRowContext(ctx, query, tenantID, normalizedPhone).Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.GuestName,
		&entry.GuestPhone,
		&entry.Reason,
		&entry.IsActive,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to look up blacklist: %w", err)
	}

	return &entry, nil
}
