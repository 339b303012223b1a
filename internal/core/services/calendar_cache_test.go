package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarCache_MissLoadsAndStores(t *testing.T) {
	ctx := context.Background()
	tenant, unit := uuid.New(), uuid.New()
	db, mockRedis := redismock.NewClientMock()
	cache := services.NewCalendarCache(db, time.Minute, quietLogger())

	segments := []domain.Reservation{segment(tenant, unit, "2024-03-05", "2024-03-10")}
	payload, err := json.Marshal(segments)
	require.NoError(t, err)

	key := services.CalendarKey(tenant, unit)
	mockRedis.ExpectHGet(key, "2024-03-01:2024-03-31").RedisNil()
	mockRedis.ExpectHSet(key, "2024-03-01:2024-03-31", string(payload)).SetVal(1)
	mockRedis.ExpectExpire(key, time.Minute).SetVal(true)

	loads := 0
	got, err := cache.Fetch(ctx, tenant, unit, date("2024-03-01"), date("2024-03-31"), func(ctx context.Context) ([]domain.Reservation, error) {
		loads++
		return segments, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	require.Len(t, got, 1)
	assert.Equal(t, segments[0].ID, got[0].ID)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestCalendarCache_HitSkipsLoad(t *testing.T) {
	ctx := context.Background()
	tenant, unit := uuid.New(), uuid.New()
	db, mockRedis := redismock.NewClientMock()
	cache := services.NewCalendarCache(db, time.Minute, quietLogger())

	cached := []domain.Reservation{segment(tenant, unit, "2024-03-05", "2024-03-10")}
	cached[0].TotalAmount = dec(500)
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mockRedis.ExpectHGet(services.CalendarKey(tenant, unit), "2024-03-01:2024-03-31").SetVal(string(payload))

	got, err := cache.Fetch(ctx, tenant, unit, date("2024-03-01"), date("2024-03-31"), func(ctx context.Context) ([]domain.Reservation, error) {
		t.Fatal("load must not be called on a cache hit")
		return nil, nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cached[0].ID, got[0].ID)
	assert.True(t, got[0].CheckIn.Equal(cached[0].CheckIn))
	assertAmount(t, 500, got[0].TotalAmount)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestCalendarCache_RedisDownFallsBackToLoad(t *testing.T) {
	ctx := context.Background()
	tenant, unit := uuid.New(), uuid.New()
	db, mockRedis := redismock.NewClientMock()
	cache := services.NewCalendarCache(db, time.Minute, quietLogger())

	segments := []domain.Reservation{segment(tenant, unit, "2024-03-05", "2024-03-10")}
	payload, err := json.Marshal(segments)
	require.NoError(t, err)

	key := services.CalendarKey(tenant, unit)
	mockRedis.ExpectHGet(key, "2024-03-01:2024-03-31").SetErr(errors.New("connection refused"))
	mockRedis.ExpectHSet(key, "2024-03-01:2024-03-31", string(payload)).SetErr(errors.New("connection refused"))

	got, err := cache.Fetch(ctx, tenant, unit, date("2024-03-01"), date("2024-03-31"), func(ctx context.Context) ([]domain.Reservation, error) {
		return segments, nil
	})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCalendarCache_LoadErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	tenant, unit := uuid.New(), uuid.New()
	db, mockRedis := redismock.NewClientMock()
	cache := services.NewCalendarCache(db, time.Minute, quietLogger())

	mockRedis.ExpectHGet(services.CalendarKey(tenant, unit), "2024-03-01:2024-03-31").RedisNil()

	loadErr := errors.New("db down")
	_, err := cache.Fetch(ctx, tenant, unit, date("2024-03-01"), date("2024-03-31"), func(ctx context.Context) ([]domain.Reservation, error) {
		return nil, loadErr
	})

	assert.ErrorIs(t, err, loadErr)
}

func TestCalendarCache_InvalidateDeduplicatesUnits(t *testing.T) {
	ctx := context.Background()
	tenant, a, b := uuid.New(), uuid.New(), uuid.New()
	db, mockRedis := redismock.NewClientMock()
	cache := services.NewCalendarCache(db, 0, quietLogger())

	mockRedis.ExpectDel(services.CalendarKey(tenant, a), services.CalendarKey(tenant, b)).SetVal(2)

	cache.Invalidate(ctx, tenant, a, b, a)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestReservationService_UnitMoveInvalidatesBothCalendars(t *testing.T) {
	f := newFixture(t)
	other := uuid.New()
	f.store.PutUnit(domain.Unit{ID: other, TenantID: f.tenant, MaxPeople: 4, BasePrice: dec(100)})

	f.redis.ExpectDel(services.CalendarKey(f.tenant, f.unit)).SetVal(0)
	created := f.create(t, f.createCommand("2024-03-10", "2024-03-15"))

	f.redis.ExpectDel(services.CalendarKey(f.tenant, f.unit), services.CalendarKey(f.tenant, other)).SetVal(1)
	res, err := f.svc.UpdateReservation(context.Background(), services.UpdateReservationCommand{
		TenantID: f.tenant,
		ID:       created.Segments[0].ID,
		UnitID:   &other,
	})

	require.NoError(t, err)
	assert.Equal(t, other, res.Segments[0].UnitID)
	assert.NoError(t, f.redis.ExpectationsWereMet())
}
