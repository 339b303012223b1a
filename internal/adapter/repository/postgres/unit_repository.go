package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

type UnitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) GetUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*domain.Unit, error) {
	query := `
	SELECT id, tenant_id, name, max_people, bed_count, has_parking, base_price, cleaning_fee
	FROM units
	WHERE id = $1 AND tenant_id = $2
	`

	var unit domain.Unit
	err := r.db.QueryRowContext(ctx, query, unitID, tenantID).Scan(
		&unit.ID,
		&unit.TenantID,
		&unit.Name,
		&unit.MaxPeople,
		&unit.BedCount,
		&unit.HasParking,
		&unit.BasePrice,
		&unit.CleaningFee,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "unit", ID: unitID.String()}
		}

		return nil, fmt.Errorf("failed to load unit %s: %w", unitID, err)
	}

	return &unit, nil
}
