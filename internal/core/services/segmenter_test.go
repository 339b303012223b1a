package services_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "expected %d, got %s %v", want, got, msgAndArgs)
}

func TestSplitStay_CrossesMonthBoundary(t *testing.T) {
	drafts := services.SplitStay(date("2024-01-28"), date("2024-02-03"), services.StayAmounts{
		Total:       dec(700),
		CleaningFee: dec(100),
		Deposit:     dec(200),
	})

	require.Len(t, drafts, 2)

	assert.Equal(t, date("2024-01-28"), drafts[0].CheckIn)
	assert.Equal(t, date("2024-02-01"), drafts[0].CheckOut)
	assertAmount(t, 467, drafts[0].TotalAmount)
	assertAmount(t, 100, drafts[0].CleaningFee)
	assertAmount(t, 200, drafts[0].Deposit)

	assert.Equal(t, date("2024-02-01"), drafts[1].CheckIn)
	assert.Equal(t, date("2024-02-03"), drafts[1].CheckOut)
	assertAmount(t, 233, drafts[1].TotalAmount)
	assert.True(t, drafts[1].CleaningFee.IsZero())
	assert.True(t, drafts[1].Deposit.IsZero())
}

func TestSplitStay_SingleMonth(t *testing.T) {
	drafts := services.SplitStay(date("2024-03-10"), date("2024-03-15"), services.StayAmounts{
		Total:        dec(500),
		CleaningFee:  dec(80),
		Deposit:      dec(150),
		AmenitiesFee: dec(30),
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, date("2024-03-10"), drafts[0].CheckIn)
	assert.Equal(t, date("2024-03-15"), drafts[0].CheckOut)
	assertAmount(t, 500, drafts[0].TotalAmount)
	assertAmount(t, 80, drafts[0].CleaningFee)
	assertAmount(t, 150, drafts[0].Deposit)
	assertAmount(t, 30, drafts[0].AmenitiesFee)
}

func TestSplitStay_CheckOutOnFirstOfMonth(t *testing.T) {
	drafts := services.SplitStay(date("2024-01-15"), date("2024-02-01"), services.StayAmounts{Total: dec(1700)})

	require.Len(t, drafts, 1)
	assert.Equal(t, date("2024-02-01"), drafts[0].CheckOut)
	assertAmount(t, 1700, drafts[0].TotalAmount)
}

func TestSplitStay_ThreeMonthsLeapYear(t *testing.T) {
	drafts := services.SplitStay(date("2024-01-20"), date("2024-03-10"), services.StayAmounts{
		Total:        dec(1000),
		AmenitiesFee: dec(40),
	})

	require.Len(t, drafts, 3)
	assertAmount(t, 240, drafts[0].TotalAmount)
	assertAmount(t, 580, drafts[1].TotalAmount)
	assertAmount(t, 180, drafts[2].TotalAmount)

	assertAmount(t, 40, drafts[0].AmenitiesFee)
	assert.True(t, drafts[1].AmenitiesFee.IsZero())
	assert.True(t, drafts[2].AmenitiesFee.IsZero())
}

func TestSplitStay_RemainderGoesToLastSegment(t *testing.T) {
	drafts := services.SplitStay(date("2024-01-31"), date("2024-03-02"), services.StayAmounts{Total: dec(10)})

	require.Len(t, drafts, 3)
	assertAmount(t, 0, drafts[0].TotalAmount)
	assertAmount(t, 9, drafts[1].TotalAmount)
	assertAmount(t, 1, drafts[2].TotalAmount)
}

func TestSplitStay_NegativeRemainderOnLastSegment(t *testing.T) {
	drafts := services.SplitStay(date("2024-01-31"), date("2024-04-02"), services.StayAmounts{Total: dec(31)})

	require.Len(t, drafts, 4)
	assertAmount(t, 1, drafts[0].TotalAmount)
	assertAmount(t, 15, drafts[1].TotalAmount)
	assertAmount(t, 16, drafts[2].TotalAmount)
	assertAmount(t, -1, drafts[3].TotalAmount)
}

func TestSplitStay_IgnoresTimeOfDay(t *testing.T) {
	in := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	drafts := services.SplitStay(in, out, services.StayAmounts{Total: dec(300)})

	require.Len(t, drafts, 2)
	assert.Equal(t, date("2024-05-30"), drafts[0].CheckIn)
	assert.Equal(t, date("2024-06-01"), drafts[0].CheckOut)
	assert.Equal(t, date("2024-06-02"), drafts[1].CheckOut)
	assertAmount(t, 200, drafts[0].TotalAmount)
	assertAmount(t, 100, drafts[1].TotalAmount)
}

func TestSplitStay_RandomStays(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	origin := date("2023-01-01")

	for i := 0; i < 500; i++ {
		checkIn := origin.AddDate(0, 0, rng.Intn(730))
		checkOut := checkIn.AddDate(0, 0, 1+rng.Intn(120))
		total := decimal.NewFromInt(rng.Int63n(1_000_000)).Div(dec(100))
		amounts := services.StayAmounts{
			Total:        total,
			CleaningFee:  dec(rng.Int63n(500)),
			Deposit:      dec(1 + rng.Int63n(500)),
			AmenitiesFee: dec(rng.Int63n(100)),
		}

		drafts := services.SplitStay(checkIn, checkOut, amounts)
		require.NotEmpty(t, drafts)

		sum := decimal.Zero
		for j, d := range drafts {
			sum = sum.Add(d.TotalAmount)

			assert.True(t, d.CheckOut.After(d.CheckIn), "segment %d is empty", j)
			assert.False(t, d.CheckOut.After(domain.EndOfMonthExclusive(d.CheckIn)), "segment %d spans months", j)

			if j > 0 {
				assert.Equal(t, drafts[j-1].CheckOut, d.CheckIn, "segments %d and %d are not contiguous", j-1, j)
				assert.True(t, d.CleaningFee.IsZero())
				assert.True(t, d.Deposit.IsZero())
				assert.True(t, d.AmenitiesFee.IsZero())
			}
		}

		assert.Truef(t, sum.Equal(total), "segments sum to %s, want %s", sum, total)
		assert.Equal(t, checkIn, drafts[0].CheckIn)
		assert.Equal(t, checkOut, drafts[len(drafts)-1].CheckOut)
		assert.True(t, drafts[0].CleaningFee.Equal(amounts.CleaningFee))
		assert.True(t, drafts[0].Deposit.Equal(amounts.Deposit))

		if checkIn.Month() == checkOut.AddDate(0, 0, -1).Month() && checkIn.Year() == checkOut.AddDate(0, 0, -1).Year() {
			assert.Len(t, drafts, 1)
		}
	}
}
