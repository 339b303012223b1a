package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "UNPAID"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyARS || c == CurrencyUSD
}

type Source string

const (
	SourceDirect  Source = "DIRECT"
	SourceAirbnb  Source = "AIRBNB"
	SourceBooking Source = "BOOKING"
	SourceOther   Source = "OTHER"
)

func (s Source) Valid() bool {
	switch s {
	case SourceDirect, SourceAirbnb, SourceBooking, SourceOther:
		return true
	}
	return false
}

// Reservation is one persisted segment of a stay. Segments of a stay that
// crosses a month boundary share a GroupID; a single-month stay has none.
type Reservation struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	UnitID   uuid.UUID
	GroupID  *uuid.UUID

	CheckIn  time.Time
	CheckOut time.Time

	TotalAmount   decimal.Decimal
	DepositAmount decimal.Decimal
	CleaningFee   decimal.Decimal
	AmenitiesFee  decimal.Decimal
	Currency      Currency

	PaymentStatus PaymentStatus
	Status        ReservationStatus

	GuestName        string
	GuestPhone       string
	GuestPeopleCount int
	BedsRequired     int
	HasParking       bool
	Source           Source
	Notes            string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the segment still occupies its unit.
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationCancelled && r.PaymentStatus != PaymentCancelled
}

func (r *Reservation) IsGrouped() bool {
	return r.GroupID != nil
}

// Nights is the number of calendar days the segment covers.
func (r *Reservation) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

// Balance is what the guest still owes on this segment.
func (r *Reservation) Balance() decimal.Decimal {
	return r.TotalAmount.Sub(r.DepositAmount)
}
