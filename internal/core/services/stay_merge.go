package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

type mergedStay struct {
	base     domain.Reservation
	checkIn  time.Time
	checkOut time.Time
	amounts  StayAmounts
}

// mergeStay applies the edit to the stay made of parts, which must be sorted
// by check-in. Guest and unit fields come from the earliest part, dates span
// all parts and money fields are the stay totals.
func mergeStay(cmd UpdateReservationCommand, parts []domain.Reservation) mergedStay {
	first := parts[0]
	last := parts[len(parts)-1]

	base := first
	base.ID = uuid.Nil
	base.GroupID = nil

	if cmd.UnitID != nil {
		base.UnitID = *cmd.UnitID
	}
	if cmd.GuestName != nil {
		base.GuestName = *cmd.GuestName
	}
	if cmd.GuestPhone != nil {
		base.GuestPhone = *cmd.GuestPhone
	}
	if cmd.GuestPeopleCount != nil {
		base.GuestPeopleCount = *cmd.GuestPeopleCount
	}
	if cmd.BedsRequired != nil {
		base.BedsRequired = *cmd.BedsRequired
	}
	if cmd.HasParking != nil {
		base.HasParking = *cmd.HasParking
	}
	if cmd.Currency != nil {
		base.Currency = *cmd.Currency
	}
	if cmd.PaymentStatus != nil {
		base.PaymentStatus = *cmd.PaymentStatus
	}
	if cmd.Status != nil {
		base.Status = *cmd.Status
	}
	if cmd.Source != nil {
		base.Source = *cmd.Source
	}
	if cmd.Notes != nil {
		base.Notes = *cmd.Notes
	}

	m := mergedStay{
		base:     base,
		checkIn:  first.CheckIn,
		checkOut: last.CheckOut,
	}
	if cmd.CheckIn != nil {
		m.checkIn = domain.StartOfDay(*cmd.CheckIn)
	}
	if cmd.CheckOut != nil {
		m.checkOut = domain.StartOfDay(*cmd.CheckOut)
	}

	var total, cleaning, deposit, amenities decimal.Decimal
	for _, p := range parts {
		total = total.Add(p.TotalAmount)
		cleaning = cleaning.Add(p.CleaningFee)
		deposit = deposit.Add(p.DepositAmount)
		amenities = amenities.Add(p.AmenitiesFee)
	}
	m.amounts = StayAmounts{
		Total:        valueOr(cmd.TotalAmount, total),
		CleaningFee:  valueOr(cmd.CleaningFee, cleaning),
		Deposit:      valueOr(cmd.DepositAmount, deposit),
		AmenitiesFee: valueOr(cmd.AmenitiesFee, amenities),
	}

	return m
}

// carrySegmentStatus keeps per-segment status and payment status on
// replacement segments that cover exactly the same dates as an old one, unless
// the edit sets them explicitly.
func carrySegmentStatus(cmd UpdateReservationCommand, old, replacement []domain.Reservation) []domain.Reservation {
	for i := range replacement {
		for _, o := range old {
			if !o.CheckIn.Equal(replacement[i].CheckIn) || !o.CheckOut.Equal(replacement[i].CheckOut) {
				continue
			}
			if cmd.Status == nil {
				replacement[i].Status = o.Status
			}
			if cmd.PaymentStatus == nil {
				replacement[i].PaymentStatus = o.PaymentStatus
			}
			break
		}
	}
	return replacement
}

// settlePaid raises the deposit of every PAID segment to its own total, so a
// re-split never leaves a settled segment owing or overpaid.
func settlePaid(segments []domain.Reservation) []domain.Reservation {
	for i := range segments {
		if segments[i].PaymentStatus == domain.PaymentPaid {
			segments[i].DepositAmount = segments[i].TotalAmount
		}
	}
	return segments
}

func moneyDiffers(a StayAmounts, r domain.Reservation) bool {
	return !a.Total.Equal(r.TotalAmount) ||
		!a.CleaningFee.Equal(r.CleaningFee) ||
		!a.Deposit.Equal(r.DepositAmount) ||
		!a.AmenitiesFee.Equal(r.AmenitiesFee)
}
