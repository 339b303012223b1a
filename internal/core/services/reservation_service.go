package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

// ReservationResult is the persisted state of a stay after a command.
type ReservationResult struct {
	GroupID  *uuid.UUID           `json:"group_id"`
	Segments []domain.Reservation `json:"segments"`
}

type DeleteResult struct {
	GroupID *uuid.UUID `json:"group_id"`
	Deleted int64      `json:"deleted"`
}

type Option func(*ReservationService)

func WithCalendarTTL(ttl time.Duration) Option {
	return func(s *ReservationService) { s.calendar.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) {
		s.now = now
		s.groups.now = now
	}
}

// ReservationService runs the reservation lifecycle commands. Each command is
// one transaction: guards, segmentation and writes either all apply or none do.
type ReservationService struct {
	store     ports.ReservationStore
	units     ports.UnitDirectory
	blacklist ports.BlacklistDirectory
	settings  ports.SettingsSource

	groups   *GroupCoordinator
	calendar *CalendarCache
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewReservationService(
	store ports.ReservationStore,
	units ports.UnitDirectory,
	blacklist ports.BlacklistDirectory,
	settings ports.SettingsSource,
	redisClient redis.Cmdable,
	log logrus.FieldLogger,
	opts ...Option,
) *ReservationService {
	s := &ReservationService{
		store:     store,
		units:     units,
		blacklist: blacklist,
		settings:  settings,
		groups:    NewGroupCoordinator(),
		calendar:  NewCalendarCache(redisClient, defaultCalendarTTL, log),
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReservationService) CreateReservation(ctx context.Context, cmd CreateReservationCommand) (*ReservationResult, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}
	if err := validateMoney(
		moneyField{"TotalAmount", cmd.TotalAmount},
		moneyField{"DepositAmount", cmd.DepositAmount},
		moneyField{"CleaningFee", cmd.CleaningFee},
		moneyField{"AmenitiesFee", cmd.AmenitiesFee},
	); err != nil {
		return nil, err
	}

	checkIn := domain.StartOfDay(cmd.CheckIn)
	checkOut := domain.StartOfDay(cmd.CheckOut)
	if err := validateChronology(checkIn, checkOut); err != nil {
		return nil, err
	}

	snapshot, err := s.settings.Snapshot(ctx, cmd.TenantID)
	if err != nil {
		return nil, storageFailure("load settings", err)
	}

	unit, err := s.lookupUnit(ctx, cmd.TenantID, cmd.UnitID)
	if err != nil {
		return nil, err
	}

	if err := s.checkBlacklist(ctx, cmd.TenantID, cmd.GuestPhone, cmd.Overrides); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(unit, cmd.GuestPeopleCount, cmd.Overrides); err != nil {
		return nil, err
	}

	amounts := StayAmounts{
		Total:        valueOr(cmd.TotalAmount, unit.BasePrice.Mul(decimal.NewFromInt(int64(domain.DaysBetween(checkIn, checkOut))))),
		CleaningFee:  valueOr(cmd.CleaningFee, unit.CleaningFee),
		Deposit:      valueOr(cmd.DepositAmount, decimal.Zero),
		AmenitiesFee: valueOr(cmd.AmenitiesFee, snapshot.AmenitiesFee),
	}

	base := domain.Reservation{
		TenantID:         cmd.TenantID,
		UnitID:           cmd.UnitID,
		Currency:         firstNonEmpty(cmd.Currency, snapshot.DefaultCurrency, domain.CurrencyARS),
		PaymentStatus:    firstNonEmpty(cmd.PaymentStatus, domain.PaymentUnpaid),
		Status:           domain.ReservationConfirmed,
		GuestName:        cmd.GuestName,
		GuestPhone:       cmd.GuestPhone,
		GuestPeopleCount: cmd.GuestPeopleCount,
		BedsRequired:     1,
		HasParking:       cmd.HasParking,
		Source:           firstNonEmpty(cmd.Source, domain.SourceDirect),
		Notes:            cmd.Notes,
	}
	if cmd.BedsRequired != nil {
		base.BedsRequired = *cmd.BedsRequired
	}

	var created []domain.Reservation
	err = s.inTx(ctx, "create reservation", func(ctx context.Context, tx ports.ReservationTx) error {
		err := s.checkOverlap(ctx, tx, ports.OverlapQuery{
			TenantID: cmd.TenantID,
			UnitID:   cmd.UnitID,
			CheckIn:  checkIn,
			CheckOut: checkOut,
		}, cmd.Overrides)
		if err != nil {
			return err
		}

		segments := BuildSegments(base, SplitStay(checkIn, checkOut, amounts))
		created, err = s.groups.CreateGroup(ctx, tx, segments)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.calendar.Invalidate(ctx, cmd.TenantID, cmd.UnitID)

	result := newResult(created)
	s.log.WithFields(logrus.Fields{
		"reservation_id": created[0].ID,
		"group_id":       result.GroupID,
		"unit_id":        cmd.UnitID,
		"segments":       len(created),
	}).Info("Reservation created")

	return result, nil
}

func (s *ReservationService) UpdateReservation(ctx context.Context, cmd UpdateReservationCommand) (*ReservationResult, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}
	if err := validateMoney(
		moneyField{"TotalAmount", cmd.TotalAmount},
		moneyField{"DepositAmount", cmd.DepositAmount},
		moneyField{"CleaningFee", cmd.CleaningFee},
		moneyField{"AmenitiesFee", cmd.AmenitiesFee},
	); err != nil {
		return nil, err
	}

	if cmd.onlyMarksPaid() {
		return s.MarkPaid(ctx, ReservationRef{TenantID: cmd.TenantID, ID: cmd.ID})
	}

	var (
		result   []domain.Reservation
		oldUnits []uuid.UUID
	)
	err := s.inTx(ctx, "update reservation", func(ctx context.Context, tx ports.ReservationTx) error {
		current, err := tx.GetByID(ctx, cmd.TenantID, cmd.ID)
		if err != nil {
			return err
		}

		parts := []domain.Reservation{*current}
		if current.IsGrouped() {
			parts, err = tx.ListByGroup(ctx, cmd.TenantID, *current.GroupID)
			if err != nil {
				return err
			}
			if len(parts) == 0 {
				return &domain.NotFoundError{Resource: "group", ID: current.GroupID.String()}
			}
		}
		sortByCheckIn(parts)
		first := parts[0]
		oldUnits = append(oldUnits, first.UnitID)

		merged := mergeStay(cmd, parts)
		if err := validateChronology(merged.checkIn, merged.checkOut); err != nil {
			return err
		}

		unitChanged := merged.base.UnitID != first.UnitID
		if cmd.GuestPhone != nil && domain.NormalizePhone(*cmd.GuestPhone) != domain.NormalizePhone(first.GuestPhone) {
			if err := s.checkBlacklist(ctx, cmd.TenantID, merged.base.GuestPhone, cmd.Overrides); err != nil {
				return err
			}
		}
		if unitChanged || (cmd.GuestPeopleCount != nil && *cmd.GuestPeopleCount != first.GuestPeopleCount) {
			unit, err := s.lookupUnit(ctx, cmd.TenantID, merged.base.UnitID)
			if err != nil {
				return err
			}
			if err := s.checkCapacity(unit, merged.base.GuestPeopleCount, cmd.Overrides); err != nil {
				return err
			}
		}

		datesChanged := !merged.checkIn.Equal(first.CheckIn) || !merged.checkOut.Equal(parts[len(parts)-1].CheckOut)
		if datesChanged || unitChanged {
			q := ports.OverlapQuery{
				TenantID: cmd.TenantID,
				UnitID:   merged.base.UnitID,
				CheckIn:  merged.checkIn,
				CheckOut: merged.checkOut,
			}
			if current.IsGrouped() {
				q.ExcludeGroupID = current.GroupID
			} else {
				q.ExcludeID = &current.ID
			}
			if err := s.checkOverlap(ctx, tx, q, cmd.Overrides); err != nil {
				return err
			}
		}

		switch {
		case current.IsGrouped() && cmd.marksPaid() && !datesChanged && !cmd.changesMoney():
			result, err = s.patchGroupAndMarkPaid(ctx, tx, cmd, merged.base, parts)
			return err
		case current.IsGrouped():
			segments := carrySegmentStatus(cmd, parts, BuildSegments(merged.base, SplitStay(merged.checkIn, merged.checkOut, merged.amounts)))
			result, err = s.groups.ReplaceGroup(ctx, tx, cmd.TenantID, *current.GroupID, settlePaid(segments))
			return err
		case datesChanged || moneyDiffers(merged.amounts, first):
			segments := BuildSegments(merged.base, SplitStay(merged.checkIn, merged.checkOut, merged.amounts))
			result, err = s.groups.ReplaceSingle(ctx, tx, cmd.TenantID, current.ID, settlePaid(segments))
			return err
		default:
			patched := merged.base
			patched.ID = current.ID
			patched.GroupID = nil
			patched.CheckIn = current.CheckIn
			patched.CheckOut = current.CheckOut
			patched.TotalAmount = current.TotalAmount
			patched.DepositAmount = current.DepositAmount
			patched.CleaningFee = current.CleaningFee
			patched.AmenitiesFee = current.AmenitiesFee
			if patched.PaymentStatus == domain.PaymentPaid {
				patched.DepositAmount = patched.TotalAmount
			}
			patched.UpdatedAt = s.now()
			if err := tx.Update(ctx, &patched); err != nil {
				return err
			}
			result = []domain.Reservation{patched}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	units := append(oldUnits, result[0].UnitID)
	s.calendar.Invalidate(ctx, cmd.TenantID, units...)

	res := newResult(result)
	s.log.WithFields(logrus.Fields{
		"reservation_id": cmd.ID,
		"group_id":       res.GroupID,
		"segments":       len(result),
	}).Info("Reservation updated")

	return res, nil
}

// MarkPaid settles the whole stay. Grouped stays are updated in place across
// every segment without re-splitting.
func (s *ReservationService) MarkPaid(ctx context.Context, ref ReservationRef) (*ReservationResult, error) {
	if err := validateCommand(s.validate, ref); err != nil {
		return nil, err
	}

	var result []domain.Reservation
	err := s.inTx(ctx, "mark reservation paid", func(ctx context.Context, tx ports.ReservationTx) error {
		current, err := tx.GetByID(ctx, ref.TenantID, ref.ID)
		if err != nil {
			return err
		}
		if current.Status == domain.ReservationCancelled {
			return &domain.ValidationError{Field: "Status", Reason: "a cancelled reservation cannot be paid"}
		}

		if current.IsGrouped() {
			result, err = s.groups.PropagatePaid(ctx, tx, ref.TenantID, *current.GroupID)
			return err
		}

		current.PaymentStatus = domain.PaymentPaid
		current.DepositAmount = current.TotalAmount
		current.UpdatedAt = s.now()
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		result = []domain.Reservation{*current}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.calendar.Invalidate(ctx, ref.TenantID, result[0].UnitID)
	res := newResult(result)
	s.log.WithFields(logrus.Fields{
		"reservation_id": ref.ID,
		"group_id":       res.GroupID,
		"segments":       len(result),
	}).Info("Reservation marked as paid")

	return res, nil
}

// patchGroupAndMarkPaid applies the non-date, non-money edits to every segment
// of the group in place and then settles the whole group.
func (s *ReservationService) patchGroupAndMarkPaid(ctx context.Context, tx ports.ReservationTx, cmd UpdateReservationCommand, base domain.Reservation, parts []domain.Reservation) ([]domain.Reservation, error) {
	now := s.now()
	for _, p := range parts {
		patched := base
		patched.ID = p.ID
		patched.GroupID = p.GroupID
		patched.CheckIn = p.CheckIn
		patched.CheckOut = p.CheckOut
		patched.TotalAmount = p.TotalAmount
		patched.DepositAmount = p.DepositAmount
		patched.CleaningFee = p.CleaningFee
		patched.AmenitiesFee = p.AmenitiesFee
		if cmd.Status == nil {
			patched.Status = p.Status
		}
		patched.CreatedAt = p.CreatedAt
		patched.UpdatedAt = now
		if err := tx.Update(ctx, &patched); err != nil {
			return nil, err
		}
	}

	return s.groups.PropagatePaid(ctx, tx, cmd.TenantID, *parts[0].GroupID)
}

// MarkNoShow flags a single segment. Other segments of its group keep their
// status.
func (s *ReservationService) MarkNoShow(ctx context.Context, ref ReservationRef) (*domain.Reservation, error) {
	if err := validateCommand(s.validate, ref); err != nil {
		return nil, err
	}

	var updated *domain.Reservation
	err := s.inTx(ctx, "mark reservation no-show", func(ctx context.Context, tx ports.ReservationTx) error {
		current, err := tx.GetByID(ctx, ref.TenantID, ref.ID)
		if err != nil {
			return err
		}
		if current.Status == domain.ReservationCancelled {
			return &domain.ValidationError{Field: "Status", Reason: "a cancelled reservation cannot be marked as no-show"}
		}

		current.Status = domain.ReservationNoShow
		current.UpdatedAt = s.now()
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.calendar.Invalidate(ctx, ref.TenantID, updated.UnitID)
	s.log.WithField("reservation_id", ref.ID).Info("Reservation marked as no-show")

	return updated, nil
}

// DeleteReservation removes the segment, or its whole group when it has one.
func (s *ReservationService) DeleteReservation(ctx context.Context, ref ReservationRef) (*DeleteResult, error) {
	if err := validateCommand(s.validate, ref); err != nil {
		return nil, err
	}

	var (
		result DeleteResult
		unitID uuid.UUID
	)
	err := s.inTx(ctx, "delete reservation", func(ctx context.Context, tx ports.ReservationTx) error {
		current, err := tx.GetByID(ctx, ref.TenantID, ref.ID)
		if err != nil {
			return err
		}
		unitID = current.UnitID

		if current.IsGrouped() {
			result.GroupID = current.GroupID
			result.Deleted, err = s.groups.DeleteGroup(ctx, tx, ref.TenantID, *current.GroupID)
			return err
		}

		result.Deleted, err = tx.DeleteByID(ctx, ref.TenantID, ref.ID)
		if err != nil {
			return err
		}
		if result.Deleted == 0 {
			return &domain.NotFoundError{Resource: "reservation", ID: ref.ID.String()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.calendar.Invalidate(ctx, ref.TenantID, unitID)
	s.log.WithFields(logrus.Fields{
		"reservation_id": ref.ID,
		"group_id":       result.GroupID,
		"deleted":        result.Deleted,
	}).Info("Reservation deleted")

	return &result, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, ref ReservationRef) (*domain.Reservation, error) {
	var found *domain.Reservation
	err := s.inTx(ctx, "get reservation", func(ctx context.Context, tx ports.ReservationTx) error {
		var err error
		found, err = tx.GetByID(ctx, ref.TenantID, ref.ID)
		return err
	})
	return found, err
}

func (s *ReservationService) ListGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]domain.Reservation, error) {
	var segments []domain.Reservation
	err := s.inTx(ctx, "list group", func(ctx context.Context, tx ports.ReservationTx) error {
		var err error
		segments, err = tx.ListByGroup(ctx, tenantID, groupID)
		if err != nil {
			return err
		}
		if len(segments) == 0 {
			return &domain.NotFoundError{Resource: "group", ID: groupID.String()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByCheckIn(segments)
	return segments, nil
}

// Calendar lists the active segments of a unit intersecting [from, to].
func (s *ReservationService) Calendar(ctx context.Context, tenantID, unitID uuid.UUID, from, to time.Time) ([]domain.Reservation, error) {
	from, to = domain.StartOfDay(from), domain.StartOfDay(to)
	if to.Before(from) {
		return nil, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	if _, err := s.lookupUnit(ctx, tenantID, unitID); err != nil {
		return nil, err
	}

	return s.calendar.Fetch(ctx, tenantID, unitID, from, to, func(ctx context.Context) ([]domain.Reservation, error) {
		segments, err := s.store.ListRange(ctx, ports.RangeQuery{TenantID: tenantID, UnitID: &unitID, From: from, To: to})
		if err != nil {
			return nil, storageFailure("list calendar", err)
		}
		sortByCheckIn(segments)
		return segments, nil
	})
}

func (s *ReservationService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx ports.ReservationTx) error) error {
	err := s.store.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}
	if domain.IsTaxonomy(err) {
		return err
	}

	s.log.WithError(err).WithField("op", op).Error("Reservation transaction failed")
	return storageFailure(op, err)
}

func (s *ReservationService) lookupUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*domain.Unit, error) {
	unit, err := s.units.GetUnit(ctx, tenantID, unitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure("load unit", err)
	}
	return unit, nil
}

func (s *ReservationService) checkBlacklist(ctx context.Context, tenantID uuid.UUID, phone string, o Overrides) error {
	normalized := domain.NormalizePhone(phone)
	if o.IgnoreBlacklist || normalized == "" {
		return nil
	}

	entry, err := s.blacklist.FindActiveByPhone(ctx, tenantID, normalized)
	if err != nil {
		return storageFailure("lookup blacklist", err)
	}
	if entry == nil {
		return nil
	}

	s.log.WithField("entry_id", entry.ID).Info("Blacklist guard rejected reservation")
	return &domain.BlacklistConflict{EntryID: entry.ID, GuestName: entry.GuestName, Reason: entry.Reason}
}

func (s *ReservationService) checkCapacity(unit *domain.Unit, people int, o Overrides) error {
	if o.IgnoreCapacity || unit.MaxPeople <= 0 || people <= unit.MaxPeople {
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"unit_id":   unit.ID,
		"requested": people,
		"maximum":   unit.MaxPeople,
	}).Info("Capacity guard rejected reservation")
	return &domain.CapacityConflict{UnitID: unit.ID, Requested: people, Maximum: unit.MaxPeople}
}

func (s *ReservationService) checkOverlap(ctx context.Context, tx ports.ReservationTx, q ports.OverlapQuery, o Overrides) error {
	if o.Force {
		s.log.WithField("unit_id", q.UnitID).Info("Overlap guard bypassed by force flag")
		return nil
	}

	conflict, err := FirstOverlap(ctx, tx, q)
	if err != nil {
		return err
	}
	if conflict == nil {
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"unit_id":        q.UnitID,
		"conflicting_id": conflict.ID,
	}).Info("Overlap guard rejected reservation")

	return &domain.OverlapConflict{
		UnitID:        q.UnitID,
		ConflictingID: conflict.ID,
		CheckIn:       conflict.CheckIn,
		CheckOut:      conflict.CheckOut,
	}
}

func storageFailure(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}

func newResult(segments []domain.Reservation) *ReservationResult {
	sortByCheckIn(segments)
	res := &ReservationResult{Segments: segments}
	if len(segments) > 0 {
		res.GroupID = segments[0].GroupID
	}
	return res
}

func sortByCheckIn(segments []domain.Reservation) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].CheckIn.Before(segments[j].CheckIn)
	})
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return fallback
}

func firstNonEmpty[T ~string](values ...T) T {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	var zero T
	return zero
}
