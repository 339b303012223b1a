package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

// GroupCoordinator keeps the segments of one stay consistent. Every method
// writes through the caller's transaction and never commits on its own, so a
// failure anywhere in the command leaves the stay as it was.
type GroupCoordinator struct {
	now   func() time.Time
	newID func() uuid.UUID
}

func NewGroupCoordinator() *GroupCoordinator {
	return &GroupCoordinator{
		now:   time.Now,
		newID: uuid.New,
	}
}

// CreateGroup inserts the segments of a new stay. A fresh group id is assigned
// only when there is more than one segment.
func (g *GroupCoordinator) CreateGroup(ctx context.Context, tx ports.ReservationTx, segments []domain.Reservation) ([]domain.Reservation, error) {
	var groupID *uuid.UUID
	if len(segments) > 1 {
		id := g.newID()
		groupID = &id
	}

	out := g.assign(segments, groupID, nil, true)
	if err := tx.InsertMany(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to insert reservation segments: %w", err)
	}

	return out, nil
}

// ReplaceGroup deletes every segment of groupID and inserts segments in their
// place under the same group id. A replacement that fits in one month is
// stored ungrouped.
func (g *GroupCoordinator) ReplaceGroup(ctx context.Context, tx ports.ReservationTx, tenantID, groupID uuid.UUID, segments []domain.Reservation) ([]domain.Reservation, error) {
	deleted, err := tx.DeleteByGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}
	if deleted == 0 {
		return nil, &domain.NotFoundError{Resource: "group", ID: groupID.String()}
	}

	var target *uuid.UUID
	if len(segments) > 1 {
		target = &groupID
	}

	out := g.assign(segments, target, nil, false)
	if err := tx.InsertMany(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to insert replacement segments for group %s: %w", groupID, err)
	}

	return out, nil
}

// ReplaceSingle re-splits an ungrouped segment. The earliest replacement keeps
// the original id; when the stay now spans months the pieces join a fresh
// group.
func (g *GroupCoordinator) ReplaceSingle(ctx context.Context, tx ports.ReservationTx, tenantID, id uuid.UUID, segments []domain.Reservation) ([]domain.Reservation, error) {
	deleted, err := tx.DeleteByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete reservation %s: %w", id, err)
	}
	if deleted == 0 {
		return nil, &domain.NotFoundError{Resource: "reservation", ID: id.String()}
	}

	var groupID *uuid.UUID
	if len(segments) > 1 {
		gid := g.newID()
		groupID = &gid
	}

	out := g.assign(segments, groupID, &id, false)
	if err := tx.InsertMany(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to insert replacement segments for reservation %s: %w", id, err)
	}

	return out, nil
}

// PropagatePaid marks every segment of the group PAID and settles each
// segment's debt by raising its deposit to its own total. Amounts and dates
// are not touched.
func (g *GroupCoordinator) PropagatePaid(ctx context.Context, tx ports.ReservationTx, tenantID, groupID uuid.UUID) ([]domain.Reservation, error) {
	updated, err := tx.MarkGroupPaid(ctx, tenantID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark group %s as paid: %w", groupID, err)
	}
	if updated == 0 {
		return nil, &domain.NotFoundError{Resource: "group", ID: groupID.String()}
	}

	segments, err := tx.ListByGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload group %s: %w", groupID, err)
	}

	return segments, nil
}

// DeleteGroup removes every segment sharing groupID.
func (g *GroupCoordinator) DeleteGroup(ctx context.Context, tx ports.ReservationTx, tenantID, groupID uuid.UUID) (int64, error) {
	deleted, err := tx.DeleteByGroup(ctx, tenantID, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}
	if deleted == 0 {
		return 0, &domain.NotFoundError{Resource: "group", ID: groupID.String()}
	}

	return deleted, nil
}

func (g *GroupCoordinator) assign(segments []domain.Reservation, groupID, keepID *uuid.UUID, fresh bool) []domain.Reservation {
	now := g.now()
	first := 0
	for i := range segments {
		if segments[i].CheckIn.Before(segments[first].CheckIn) {
			first = i
		}
	}

	out := make([]domain.Reservation, len(segments))
	for i, seg := range segments {
		seg.ID = g.newID()
		if keepID != nil && i == first {
			seg.ID = *keepID
		}

		seg.GroupID = nil
		if groupID != nil {
			gid := *groupID
			seg.GroupID = &gid
		}

		if fresh || seg.CreatedAt.IsZero() {
			seg.CreatedAt = now
		}
		seg.UpdatedAt = now
		out[i] = seg
	}

	return out
}
