package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
)

type FinanceTotals struct {
	Income          decimal.Decimal `json:"income"`
	CleaningExpense decimal.Decimal `json:"cleaning_expense"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	WrittenOff      decimal.Decimal `json:"written_off"`
	Segments        int             `json:"segments"`
}

// Summarize totals segments per currency. A no-show keeps its deposit as
// income and its remaining balance is written off instead of owed.
func Summarize(segments []domain.Reservation) map[domain.Currency]FinanceTotals {
	out := make(map[domain.Currency]FinanceTotals)
	for _, r := range segments {
		if !r.IsActive() {
			continue
		}

		t, ok := out[r.Currency]
		if !ok {
			t = FinanceTotals{
				Income:          decimal.Zero,
				CleaningExpense: decimal.Zero,
				Outstanding:     decimal.Zero,
				WrittenOff:      decimal.Zero,
			}
		}
		t.Segments++

		switch r.PaymentStatus {
		case domain.PaymentPaid:
			t.Income = t.Income.Add(r.TotalAmount)
			if r.Status != domain.ReservationNoShow {
				t.CleaningExpense = t.CleaningExpense.Add(r.CleaningFee)
			}
		case domain.PaymentPartial:
			t.Income = t.Income.Add(r.DepositAmount)
		}

		if r.PaymentStatus != domain.PaymentPaid {
			balance := decimal.Max(decimal.Zero, r.Balance())
			if r.Status == domain.ReservationNoShow {
				t.WrittenOff = t.WrittenOff.Add(balance)
			} else {
				t.Outstanding = t.Outstanding.Add(balance)
			}
		}

		out[r.Currency] = t
	}
	return out
}

// FinanceSummary totals the segments of the tenant checking in within [from, to].
func (s *ReservationService) FinanceSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[domain.Currency]FinanceTotals, error) {
	from, to = domain.StartOfDay(from), domain.StartOfDay(to)
	if to.Before(from) {
		return nil, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	segments, err := s.store.ListRange(ctx, ports.RangeQuery{TenantID: tenantID, From: from, To: to})
	if err != nil {
		return nil, storageFailure("list finance range", err)
	}

	inRange := segments[:0]
	for _, r := range segments {
		if !r.CheckIn.Before(from) && !r.CheckIn.After(to) {
			inRange = append(inRange, r)
		}
	}

	return Summarize(inRange), nil
}
