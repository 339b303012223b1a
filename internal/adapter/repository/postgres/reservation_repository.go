package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

const reservationColumns = `
	id, tenant_id, unit_id, group_id, check_in, check_out,
	total_amount, deposit_amount, cleaning_fee, amenities_fee, currency,
	payment_status, status, guest_name, guest_phone, guest_people_count,
	beds_required, has_parking, source, notes, created_at, updated_at`

type ReservationRepository struct {
	db     *sql.DB
	txOpts *sql.TxOptions
}

// NewReservationRepository runs every transaction at the given isolation
// level. sql.LevelDefault leaves the server default (read committed).
func NewReservationRepository(db *sql.DB, isolation sql.IsolationLevel) *ReservationRepository {
	return &ReservationRepository{
		db:     db,
		txOpts: &sql.TxOptions{Isolation: isolation},
	}
}

func (r *ReservationRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.ReservationTx) error) error {
	tx, err := r.db.BeginTx(ctx, r.txOpts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := fn(ctx, &reservationTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *ReservationRepository) ListRange(ctx context.Context, q ports.RangeQuery) ([]domain.Reservation, error) {
	query := `
	SELECT` + reservationColumns + `
	FROM reservations
	WHERE tenant_id = $1
		AND ($2::uuid IS NULL OR unit_id = $2)
		AND status <> 'CANCELLED'
		AND check_in <= $4
		AND check_out >= $3
	ORDER BY check_in
	`

	rows, err := r.db.QueryContext(ctx, query, q.TenantID, nullUUID(q.UnitID), q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return scanReservations(rows)
}

type reservationTx struct {
	tx *sql.Tx
}

func (t *reservationTx) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1 AND tenant_id = $2`

	res, err := scanReservation(t.tx.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "reservation", ID: id.String()}
		}

		return nil, err
	}

	return res, nil
}

func (t *reservationTx) ListByGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]domain.Reservation, error) {
	query := `
	SELECT` + reservationColumns + `
	FROM reservations
	WHERE tenant_id = $1 AND group_id = $2
	ORDER BY check_in
	`

	rows, err := t.tx.QueryContext(ctx, query, tenantID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group %s: %w", groupID, err)
	}

	return scanReservations(rows)
}

// FindOverlapping locks nothing. Two transactions can both see a free range;
// run at serializable isolation to rule that out.
func (t *reservationTx) FindOverlapping(ctx context.Context, q ports.OverlapQuery) ([]domain.Reservation, error) {
	query := `
	SELECT` + reservationColumns + `
	FROM reservations
	WHERE tenant_id = $1
		AND unit_id = $2
		AND status <> 'CANCELLED'
		AND payment_status <> 'CANCELLED'
		AND check_in < $4
		AND check_out > $3
		AND ($5::uuid IS NULL OR id <> $5)
		AND ($6::uuid IS NULL OR group_id IS DISTINCT FROM $6)
	ORDER BY check_in
	`

	rows, err := t.tx.QueryContext(ctx, query,
		q.TenantID, q.UnitID, q.CheckIn, q.CheckOut, nullUUID(q.ExcludeID), nullUUID(q.ExcludeGroupID))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}

	return scanReservations(rows)
}

func (t *reservationTx) InsertMany(ctx context.Context, segments []domain.Reservation) error {
	query := `
	INSERT INTO reservations (` + reservationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	stmt, err := t.tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare reservation insert: %w", err)
	}

	defer stmt.Close()

	for _, s := range segments {
		_, err := stmt.ExecContext(ctx,
			s.ID, s.TenantID, s.UnitID, nullUUID(s.GroupID), s.CheckIn, s.CheckOut,
			s.TotalAmount, s.DepositAmount, s.CleaningFee, s.AmenitiesFee, s.Currency,
			s.PaymentStatus, s.Status, s.GuestName, s.GuestPhone, s.GuestPeopleCount,
			s.BedsRequired, s.HasParking, s.Source, s.Notes, s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reservation %s: %w", s.ID, err)
		}
	}

	return nil
}

func (t *reservationTx) Update(ctx context.Context, s *domain.Reservation) error {
	query := `
	UPDATE reservations
	SET unit_id = $3, group_id = $4, check_in = $5, check_out = $6,
		total_amount = $7, deposit_amount = $8, cleaning_fee = $9, amenities_fee = $10,
		currency = $11, payment_status = $12, status = $13, guest_name = $14,
		guest_phone = $15, guest_people_count = $16, beds_required = $17,
		has_parking = $18, source = $19, notes = $20, updated_at = $21
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := t.tx.ExecContext(ctx, query,
		s.ID, s.TenantID, s.UnitID, nullUUID(s.GroupID), s.CheckIn, s.CheckOut,
		s.TotalAmount, s.DepositAmount, s.CleaningFee, s.AmenitiesFee,
		s.Currency, s.PaymentStatus, s.Status, s.GuestName,
		s.GuestPhone, s.GuestPeopleCount, s.BedsRequired,
		s.HasParking, s.Source, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", s.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "reservation", ID: s.ID.String()}
	}

	return nil
}

func (t *reservationTx) DeleteByID(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservation %s: %w", id, err)
	}

	return result.RowsAffected()
}

func (t *reservationTx) DeleteByGroup(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE group_id = $1 AND tenant_id = $2`, groupID, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}

	return result.RowsAffected()
}

func (t *reservationTx) MarkGroupPaid(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	query := `
	UPDATE reservations
	SET payment_status = 'PAID',
		deposit_amount = total_amount,
		updated_at = NOW()
	WHERE group_id = $1 AND tenant_id = $2
	`

	result, err := t.tx.ExecContext(ctx, query, groupID, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark group %s paid: %w", groupID, err)
	}

	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var groupID uuid.NullUUID

	err := row.Scan(
		&res.ID,
		&res.TenantID,
		&res.UnitID,
		&groupID,
		&res.CheckIn,
		&res.CheckOut,
		&res.TotalAmount,
		&res.DepositAmount,
		&res.CleaningFee,
		&res.AmenitiesFee,
		&res.Currency,
		&res.PaymentStatus,
		&res.Status,
		&res.GuestName,
		&res.GuestPhone,
		&res.GuestPeopleCount,
		&res.BedsRequired,
		&res.HasParking,
		&res.Source,
		&res.Notes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		gid := groupID.UUID
		res.GroupID = &gid
	}

	res.CheckIn = domain.StartOfDay(res.CheckIn)
	res.CheckOut = domain.StartOfDay(res.CheckOut)

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}
