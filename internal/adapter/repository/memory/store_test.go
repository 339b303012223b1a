package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/adapter/repository/memory"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func reservation(tenant, unit uuid.UUID, in, out int) domain.Reservation {
	return domain.Reservation{
		ID:            uuid.New(),
		TenantID:      tenant,
		UnitID:        unit,
		CheckIn:       day(in),
		CheckOut:      day(out),
		Status:        domain.ReservationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	r := reservation(tenant, unit, 1, 5)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.InsertMany(ctx, []domain.Reservation{r})
	})
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, r.ID, all[0].ID)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	kept := reservation(tenant, unit, 1, 5)
	store.Seed(kept)

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ports.ReservationTx) error {
		if _, err := tx.DeleteByID(ctx, tenant, kept.ID); err != nil {
			return err
		}
		if err := tx.InsertMany(ctx, []domain.Reservation{reservation(tenant, unit, 6, 8)}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)
}

func TestWithinTx_CancelledContextDiscardsWrites(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	ctx, cancel := context.WithCancel(context.Background())

	err := store.WithinTx(ctx, func(ctx context.Context, tx ports.ReservationTx) error {
		cancel()
		return tx.InsertMany(ctx, []domain.Reservation{reservation(tenant, unit, 1, 2)})
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.All())
}

func TestInjectFault_FiresOnce(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	fault := errors.New("injected")
	store.InjectFault(memory.OpInsertMany, fault)

	insert := func() error {
		return store.WithinTx(context.Background(), func(ctx context.Context, tx ports.ReservationTx) error {
			return tx.InsertMany(ctx, []domain.Reservation{reservation(tenant, unit, 1, 2)})
		})
	}

	assert.ErrorIs(t, insert(), fault)
	assert.NoError(t, insert())
	assert.Len(t, store.All(), 1)
}

func TestInsertMany_RejectsDuplicateID(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	r := reservation(tenant, unit, 1, 2)
	store.Seed(r)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.InsertMany(ctx, []domain.Reservation{r})
	})

	assert.ErrorIs(t, err, memory.ErrDuplicateID)
}

func TestGroupOperations(t *testing.T) {
	store := memory.NewStore()
	tenant, unit := uuid.New(), uuid.New()
	groupID := uuid.New()

	a := reservation(tenant, unit, 1, 5)
	a.GroupID = &groupID
	a.UpdatedAt = day(1)
	b := reservation(tenant, unit, 5, 9)
	b.GroupID = &groupID
	b.UpdatedAt = day(1)
	loose := reservation(tenant, unit, 10, 12)
	loose.UpdatedAt = day(1)
	store.Seed(a, b, loose)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ports.ReservationTx) error {
		parts, err := tx.ListByGroup(ctx, tenant, groupID)
		require.NoError(t, err)
		assert.Len(t, parts, 2)

		n, err := tx.MarkGroupPaid(ctx, tenant, groupID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = tx.DeleteByGroup(ctx, uuid.New(), groupID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
		return nil
	})
	require.NoError(t, err)

	for _, r := range store.All() {
		if r.GroupID != nil {
			assert.Equal(t, domain.PaymentPaid, r.PaymentStatus)
			assert.True(t, r.UpdatedAt.After(day(1)))
		} else {
			assert.Equal(t, domain.PaymentUnpaid, r.PaymentStatus)
			assert.Equal(t, day(1), r.UpdatedAt)
		}
	}
}

func TestListRange(t *testing.T) {
	store := memory.NewStore()
	tenant, unit, other := uuid.New(), uuid.New(), uuid.New()

	inside := reservation(tenant, unit, 5, 8)
	cancelled := reservation(tenant, unit, 5, 8)
	cancelled.Status = domain.ReservationCancelled
	before := reservation(tenant, unit, 1, 3)
	elsewhere := reservation(tenant, other, 5, 8)
	store.Seed(inside, cancelled, before, elsewhere)

	got, err := store.ListRange(context.Background(), ports.RangeQuery{TenantID: tenant, UnitID: &unit, From: day(4), To: day(10)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)

	got, err = store.ListRange(context.Background(), ports.RangeQuery{TenantID: tenant, From: day(4), To: day(10)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDirectories(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tenant := uuid.New()
	unitID := uuid.New()

	store.PutUnit(domain.Unit{ID: unitID, TenantID: tenant, MaxPeople: 3})
	store.PutBlacklistEntry(domain.BlacklistEntry{ID: uuid.New(), TenantID: tenant, GuestPhone: "+54 9 11 1234-5678", IsActive: true})

	u, err := store.GetUnit(ctx, tenant, unitID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.MaxPeople)

	_, err = store.GetUnit(ctx, uuid.New(), unitID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entry, err := store.FindActiveByPhone(ctx, tenant, "1112345678")
	require.NoError(t, err)
	require.NotNil(t, entry)

	entry, err = store.FindActiveByPhone(ctx, tenant, "1100000000")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
