package services

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

// Overrides are set by a caller that has already shown a guard conflict to
// the user and got confirmation.
type Overrides struct {
	Force           bool `json:"force"`
	IgnoreCapacity  bool `json:"ignore_capacity"`
	IgnoreBlacklist bool `json:"ignore_blacklist"`
}

type CreateReservationCommand struct {
	TenantID uuid.UUID `validate:"required"`
	UnitID   uuid.UUID `validate:"required"`

	GuestName        string `validate:"required,max=200"`
	GuestPhone       string `validate:"max=40"`
	GuestPeopleCount int    `validate:"gte=1"`
	BedsRequired     *int   `validate:"omitempty,gte=0"`
	HasParking       bool

	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`

	// Nil amounts fall back to the unit defaults and the settings snapshot.
	TotalAmount   *decimal.Decimal
	DepositAmount *decimal.Decimal
	CleaningFee   *decimal.Decimal
	AmenitiesFee  *decimal.Decimal

	Currency      domain.Currency      `validate:"omitempty,oneof=ARS USD"`
	PaymentStatus domain.PaymentStatus `validate:"omitempty,oneof=UNPAID PARTIAL PAID CANCELLED"`
	Source        domain.Source        `validate:"omitempty,oneof=DIRECT AIRBNB BOOKING OTHER"`
	Notes         string               `validate:"max=2000"`

	Overrides Overrides
}

// UpdateReservationCommand edits the stay reservation ID belongs to. Nil
// fields keep their current value.
type UpdateReservationCommand struct {
	TenantID uuid.UUID `validate:"required"`
	ID       uuid.UUID `validate:"required"`

	UnitID *uuid.UUID

	GuestName        *string `validate:"omitempty,min=1,max=200"`
	GuestPhone       *string `validate:"omitempty,max=40"`
	GuestPeopleCount *int    `validate:"omitempty,gte=1"`
	BedsRequired     *int    `validate:"omitempty,gte=0"`
	HasParking       *bool

	CheckIn  *time.Time
	CheckOut *time.Time

	TotalAmount   *decimal.Decimal
	DepositAmount *decimal.Decimal
	CleaningFee   *decimal.Decimal
	AmenitiesFee  *decimal.Decimal

	Currency      *domain.Currency          `validate:"omitempty,oneof=ARS USD"`
	PaymentStatus *domain.PaymentStatus     `validate:"omitempty,oneof=UNPAID PARTIAL PAID CANCELLED"`
	Status        *domain.ReservationStatus `validate:"omitempty,oneof=CONFIRMED CANCELLED NO_SHOW"`
	Source        *domain.Source            `validate:"omitempty,oneof=DIRECT AIRBNB BOOKING OTHER"`
	Notes         *string                   `validate:"omitempty,max=2000"`

	Overrides Overrides
}

func (c *UpdateReservationCommand) changesDates() bool {
	return c.CheckIn != nil || c.CheckOut != nil
}

func (c *UpdateReservationCommand) changesMoney() bool {
	return c.TotalAmount != nil || c.DepositAmount != nil || c.CleaningFee != nil || c.AmenitiesFee != nil
}

func (c *UpdateReservationCommand) marksPaid() bool {
	return c.PaymentStatus != nil && *c.PaymentStatus == domain.PaymentPaid
}

// onlyMarksPaid reports whether the command does nothing but set the payment
// status to PAID.
func (c *UpdateReservationCommand) onlyMarksPaid() bool {
	if !c.marksPaid() {
		return false
	}
	return c.UnitID == nil && c.GuestName == nil && c.GuestPhone == nil &&
		c.GuestPeopleCount == nil && c.BedsRequired == nil && c.HasParking == nil &&
		!c.changesDates() && !c.changesMoney() && c.Currency == nil &&
		c.Status == nil && c.Source == nil && c.Notes == nil
}

type ReservationRef struct {
	TenantID uuid.UUID `validate:"required"`
	ID       uuid.UUID `validate:"required"`
}

func validateCommand(v *validator.Validate, cmd any) error {
	err := v.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{Field: fe.Field(), Reason: "failed on " + fe.Tag()}
	}

	return &domain.ValidationError{Reason: err.Error()}
}

type moneyField struct {
	name  string
	value *decimal.Decimal
}

func validateMoney(fields ...moneyField) error {
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			return &domain.ValidationError{Field: f.name, Reason: "must not be negative"}
		}
	}
	return nil
}

func validateChronology(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return &domain.ValidationError{Field: "CheckIn", Reason: "check-in and check-out are required"}
	}
	if !checkOut.After(checkIn) {
		return &domain.ValidationError{Field: "CheckOut", Reason: "check-out must be after check-in"}
	}
	return nil
}
