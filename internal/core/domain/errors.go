package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindBlacklist  ErrorKind = "blacklist_conflict"
	KindCapacity   ErrorKind = "capacity_conflict"
	KindOverlap    ErrorKind = "overlap_conflict"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage_failure"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrBlacklisted  = errors.New("guest is blacklisted")
	ErrOverCapacity = errors.New("guest count exceeds unit capacity")
	ErrOverlap      = errors.New("reservation overlaps an existing one")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid reservation: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) Kind() ErrorKind      { return KindValidation }

type BlacklistConflict struct {
	EntryID   uuid.UUID `json:"entry_id"`
	GuestName string    `json:"guest_name"`
	Reason    string    `json:"reason"`
}

func (e *BlacklistConflict) Error() string {
	return fmt.Sprintf("guest %q is blacklisted: %s", e.GuestName, e.Reason)
}

func (e *BlacklistConflict) Is(target error) bool { return target == ErrBlacklisted }
func (e *BlacklistConflict) Kind() ErrorKind      { return KindBlacklist }

type CapacityConflict struct {
	UnitID    uuid.UUID `json:"unit_id"`
	Requested int       `json:"requested"`
	Maximum   int       `json:"maximum"`
}

func (e *CapacityConflict) Error() string {
	return fmt.Sprintf("%d guests requested, unit allows %d", e.Requested, e.Maximum)
}

func (e *CapacityConflict) Is(target error) bool { return target == ErrOverCapacity }
func (e *CapacityConflict) Kind() ErrorKind      { return KindCapacity }

type OverlapConflict struct {
	UnitID        uuid.UUID `json:"unit_id"`
	ConflictingID uuid.UUID `json:"conflicting_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
}

func (e *OverlapConflict) Error() string {
	return fmt.Sprintf("unit %s is already booked from %s to %s by reservation %s",
		e.UnitID, e.CheckIn.Format(DateLayout), e.CheckOut.Format(DateLayout), e.ConflictingID)
}

func (e *OverlapConflict) Is(target error) bool { return target == ErrOverlap }
func (e *OverlapConflict) Kind() ErrorKind      { return KindOverlap }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Kind() ErrorKind      { return KindNotFound }

// StorageError wraps any failure of the persistence layer. The transaction
// it came from has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error        { return e.Err }
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
func (e *StorageError) Kind() ErrorKind      { return KindStorage }

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the taxonomy kind of err, or KindStorage for anything that
// does not belong to it.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindStorage
}

// IsRecoverable reports whether the caller may resubmit the command with an
// override flag set.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindBlacklist, KindCapacity, KindOverlap:
		return true
	}
	return false
}

func IsTaxonomy(err error) bool {
	var k kinded
	return errors.As(err, &k)
}
