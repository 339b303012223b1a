package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

// OverlapQuery selects active segments of a unit intersecting [CheckIn, CheckOut).
// ExcludeID and ExcludeGroupID let an edit ignore the rows it is replacing.
type OverlapQuery struct {
	TenantID       uuid.UUID
	UnitID         uuid.UUID
	CheckIn        time.Time
	CheckOut       time.Time
	ExcludeID      *uuid.UUID
	ExcludeGroupID *uuid.UUID
}

// RangeQuery selects non-cancelled segments of a tenant intersecting [From, To].
// A nil UnitID selects every unit.
type RangeQuery struct {
	TenantID uuid.UUID
	UnitID   *uuid.UUID
	From     time.Time
	To       time.Time
}

// ReservationTx is the transactional scope every lifecycle command runs in.
// Nothing written through it is visible to others before the enclosing
// WithinTx returns nil.
type ReservationTx interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Reservation, error)
	ListByGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]domain.Reservation, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]domain.Reservation, error)
	InsertMany(ctx context.Context, segments []domain.Reservation) error
	Update(ctx context.Context, segment *domain.Reservation) error
	DeleteByID(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
	DeleteByGroup(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error)
	MarkGroupPaid(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error)
}

type ReservationStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx ReservationTx) error) error
	ListRange(ctx context.Context, q RangeQuery) ([]domain.Reservation, error)
}

type UnitDirectory interface {
	GetUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*domain.Unit, error)
}

type BlacklistDirectory interface {
	// FindActiveByPhone returns nil, nil when no active entry matches.
	FindActiveByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*domain.BlacklistEntry, error)
}

type SettingsSource interface {
	Snapshot(ctx context.Context, tenantID uuid.UUID) (domain.SettingsSnapshot, error)
}
