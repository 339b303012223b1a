package services

import (
	"context"
	"fmt"

	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

// FirstOverlap returns the first active segment of q.UnitID intersecting
// [q.CheckIn, q.CheckOut), or nil when the range is free.
func FirstOverlap(ctx context.Context, tx ports.ReservationTx, q ports.OverlapQuery) (*domain.Reservation, error) {
	candidates, err := tx.FindOverlapping(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}

	for i := range candidates {
		c := &candidates[i]
		if c.UnitID != q.UnitID || !c.IsActive() {
			continue
		}
		if q.ExcludeID != nil && c.ID == *q.ExcludeID {
			continue
		}
		if q.ExcludeGroupID != nil && c.GroupID != nil && *c.GroupID == *q.ExcludeGroupID {
			continue
		}
		if domain.Overlaps(q.CheckIn, q.CheckOut, c.CheckIn, c.CheckOut) {
			return c, nil
		}
	}

	return nil, nil
}

// HasOverlap is the boolean form of FirstOverlap.
func HasOverlap(ctx context.Context, tx ports.ReservationTx, q ports.OverlapQuery) (bool, error) {
	c, err := FirstOverlap(ctx, tx, q)
	return c != nil, err
}
