// Package memory is an in-process implementation of the reservation ports.
// A transaction works on a private copy of the data which replaces the shared
// state only when the callback succeeds.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

// Op names the write a fault can be injected into.
type Op string

const (
	OpInsertMany    Op = "insert_many"
	OpUpdate        Op = "update"
	OpDeleteByID    Op = "delete_by_id"
	OpDeleteByGroup Op = "delete_by_group"
	OpMarkGroupPaid Op = "mark_group_paid"
	OpCommit        Op = "commit"
)

var ErrDuplicateID = errors.New("duplicate reservation id")

type Store struct {
	txMu sync.Mutex

	mu           sync.Mutex
	reservations map[uuid.UUID]domain.Reservation
	units        map[uuid.UUID]domain.Unit
	blacklist    []domain.BlacklistEntry
	settings     map[uuid.UUID]domain.SettingsSnapshot
	faults       map[Op]error
}

func NewStore() *Store {
	return &Store{
		reservations: make(map[uuid.UUID]domain.Reservation),
		units:        make(map[uuid.UUID]domain.Unit),
		settings:     make(map[uuid.UUID]domain.SettingsSnapshot),
		faults:       make(map[Op]error),
	}
}

// InjectFault makes the next call of op fail with err.
func (s *Store) InjectFault(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) takeFault(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return err
}

func (s *Store) PutUnit(u domain.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.ID] = u
}

func (s *Store) PutBlacklistEntry(e domain.BlacklistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.GuestPhone = domain.NormalizePhone(e.GuestPhone)
	s.blacklist = append(s.blacklist, e)
}

func (s *Store) PutSettings(tenantID uuid.UUID, snap domain.SettingsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[tenantID] = snap
}

// Seed stores reservations as they are, bypassing every guard.
func (s *Store) Seed(rs ...domain.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.reservations[r.ID] = clone(r)
	}
}

// All returns a copy of every stored reservation.
func (s *Store) All() []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, clone(r))
	}
	return out
}

// WithinTx serializes transactions. That is stricter than the postgres
// adapter but gives the same all-or-nothing outcome.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.ReservationTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	tx := &memTx{store: s, rows: make(map[uuid.UUID]domain.Reservation, len(s.reservations))}
	for id, r := range s.reservations {
		tx.rows[id] = clone(r)
	}
	s.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.takeFault(OpCommit); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.reservations = tx.rows
	s.mu.Unlock()
	return nil
}

func (s *Store) ListRange(ctx context.Context, q ports.RangeQuery) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.TenantID != q.TenantID || r.Status == domain.ReservationCancelled {
			continue
		}
		if q.UnitID != nil && r.UnitID != *q.UnitID {
			continue
		}
		if r.CheckIn.After(q.To) || r.CheckOut.Before(q.From) {
			continue
		}
		out = append(out, clone(r))
	}
	return out, nil
}

func (s *Store) GetUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*domain.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[unitID]
	if !ok || u.TenantID != tenantID {
		return nil, &domain.NotFoundError{Resource: "unit", ID: unitID.String()}
	}
	return &u, nil
}

func (s *Store) FindActiveByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*domain.BlacklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.blacklist {
		if e.TenantID == tenantID && e.IsActive && e.GuestPhone == normalizedPhone {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *Store) Snapshot(ctx context.Context, tenantID uuid.UUID) (domain.SettingsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[tenantID], nil
}

type memTx struct {
	store *Store
	rows  map[uuid.UUID]domain.Reservation
}

func (t *memTx) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Reservation, error) {
	r, ok := t.rows[id]
	if !ok || r.TenantID != tenantID {
		return nil, &domain.NotFoundError{Resource: "reservation", ID: id.String()}
	}
	r = clone(r)
	return &r, nil
}

func (t *memTx) ListByGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range t.rows {
		if r.TenantID == tenantID && r.GroupID != nil && *r.GroupID == groupID {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (t *memTx) FindOverlapping(ctx context.Context, q ports.OverlapQuery) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range t.rows {
		if r.TenantID != q.TenantID || r.UnitID != q.UnitID || !r.IsActive() {
			continue
		}
		if domain.Overlaps(q.CheckIn, q.CheckOut, r.CheckIn, r.CheckOut) {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (t *memTx) InsertMany(ctx context.Context, segments []domain.Reservation) error {
	if err := t.store.takeFault(OpInsertMany); err != nil {
		return err
	}
	for _, r := range segments {
		if _, exists := t.rows[r.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		t.rows[r.ID] = clone(r)
	}
	return nil
}

func (t *memTx) Update(ctx context.Context, segment *domain.Reservation) error {
	if err := t.store.takeFault(OpUpdate); err != nil {
		return err
	}
	cur, ok := t.rows[segment.ID]
	if !ok || cur.TenantID != segment.TenantID {
		return &domain.NotFoundError{Resource: "reservation", ID: segment.ID.String()}
	}
	t.rows[segment.ID] = clone(*segment)
	return nil
}

func (t *memTx) DeleteByID(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	if err := t.store.takeFault(OpDeleteByID); err != nil {
		return 0, err
	}
	r, ok := t.rows[id]
	if !ok || r.TenantID != tenantID {
		return 0, nil
	}
	delete(t.rows, id)
	return 1, nil
}

func (t *memTx) DeleteByGroup(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	if err := t.store.takeFault(OpDeleteByGroup); err != nil {
		return 0, err
	}
	var n int64
	for id, r := range t.rows {
		if r.TenantID == tenantID && r.GroupID != nil && *r.GroupID == groupID {
			delete(t.rows, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) MarkGroupPaid(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	if err := t.store.takeFault(OpMarkGroupPaid); err != nil {
		return 0, err
	}
	now := time.Now()
	var n int64
	for id, r := range t.rows {
		if r.TenantID == tenantID && r.GroupID != nil && *r.GroupID == groupID {
			r.PaymentStatus = domain.PaymentPaid
			r.DepositAmount = r.TotalAmount
			r.UpdatedAt = now
			t.rows[id] = r
			n++
		}
	}
	return n, nil
}

func clone(r domain.Reservation) domain.Reservation {
	if r.GroupID != nil {
		gid := *r.GroupID
		r.GroupID = &gid
	}
	return r
}
