package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

// StayAmounts are the money fields of a whole stay before splitting.
type StayAmounts struct {
	Total        decimal.Decimal
	CleaningFee  decimal.Decimal
	Deposit      decimal.Decimal
	AmenitiesFee decimal.Decimal
}

// SegmentDraft is one calendar-month slice of a stay.
type SegmentDraft struct {
	CheckIn      time.Time
	CheckOut     time.Time
	TotalAmount  decimal.Decimal
	CleaningFee  decimal.Decimal
	Deposit      decimal.Decimal
	AmenitiesFee decimal.Decimal
}

// SplitStay cuts [checkIn, checkOut) at every month boundary and prices each
// piece proportionally to its nights. Cleaning fee, deposit and amenities go
// to the earliest piece only. Rounding drift lands on the last piece so the
// pieces always add up to amounts.Total.
//
// checkOut must be after checkIn; the caller validates that.
func SplitStay(checkIn, checkOut time.Time, amounts StayAmounts) []SegmentDraft {
	start := domain.StartOfDay(checkIn)
	end := domain.StartOfDay(checkOut)

	totalDays := max(1, domain.DaysBetween(start, end))
	pricePerDay := amounts.Total.Div(decimal.NewFromInt(int64(totalDays)))

	var drafts []SegmentDraft
	for cur := start; cur.Before(end); {
		next := domain.EndOfMonthExclusive(cur)
		if next.After(end) {
			next = end
		}

		days := decimal.NewFromInt(int64(domain.DaysBetween(cur, next)))
		drafts = append(drafts, SegmentDraft{
			CheckIn:      cur,
			CheckOut:     next,
			TotalAmount:  pricePerDay.Mul(days).Round(0),
			CleaningFee:  decimal.Zero,
			Deposit:      decimal.Zero,
			AmenitiesFee: decimal.Zero,
		})
		cur = next
	}

	if len(drafts) == 0 {
		return nil
	}

	first := earliest(drafts)
	drafts[first].CleaningFee = amounts.CleaningFee
	drafts[first].Deposit = amounts.Deposit
	drafts[first].AmenitiesFee = amounts.AmenitiesFee

	sum := decimal.Zero
	for _, d := range drafts {
		sum = sum.Add(d.TotalAmount)
	}
	last := len(drafts) - 1
	drafts[last].TotalAmount = drafts[last].TotalAmount.Add(amounts.Total.Sub(sum))

	return drafts
}

func earliest(drafts []SegmentDraft) int {
	idx := 0
	for i := range drafts {
		if drafts[i].CheckIn.Before(drafts[idx].CheckIn) {
			idx = i
		}
	}
	return idx
}

// BuildSegments lays the drafts over base, which carries the guest, unit and
// status fields shared by the whole stay. Ids and group ids are left for the
// GroupCoordinator to assign.
func BuildSegments(base domain.Reservation, drafts []SegmentDraft) []domain.Reservation {
	segments := make([]domain.Reservation, 0, len(drafts))
	for _, d := range drafts {
		seg := base
		seg.CheckIn = d.CheckIn
		seg.CheckOut = d.CheckOut
		seg.TotalAmount = d.TotalAmount
		seg.CleaningFee = d.CleaningFee
		seg.DepositAmount = d.Deposit
		seg.AmenitiesFee = d.AmenitiesFee
		segments = append(segments, seg)
	}
	return segments
}
