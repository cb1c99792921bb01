package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/testutil/ledger"
)

func txn(id, date, amount, period string) model.Transaction {
	t := model.NewPending(id, day(date), id, dec(amount), model.DirectionDebit)
	t.AllocatedPeriod = period
	return t
}

func pointFor(t *testing.T, s Series, month string) Point {
	t.Helper()
	for _, p := range s {
		if p.Month == month {
			return p
		}
	}
	t.Fatalf("month %s not in series", month)
	return Point{}
}

func demoLike() []model.Transaction {
	return []model.Transaction{
		txn("1", "2024-01-05", "15000", "2024-Q1"),
		txn("2", "2023-12-20", "12000", "2024-YEAR"),
		txn("3", "2024-01-15", "500", "2024-01"),
		txn("4", "2024-03-01", "2500", "2023-YEAR"),
		txn("5", "2024-02-28", "450", "2024-Q1"),
		txn("6", "2024-02-15", "3200", "2024-02"),
	}
}

func TestAggregate(t *testing.T) {
	series, issues := Aggregate(demoLike(), NewHorizon(2024), DefaultOptions())
	assert.Empty(t, issues)
	require.Len(t, series, 12)

	jan := pointFor(t, series, "2024-01")
	assertDecimal(t, "15500", jan.Booked)
	assertDecimal(t, "6650", jan.Allocated) // 5000 + 1000 + 500 + 150

	feb := pointFor(t, series, "2024-02")
	assertDecimal(t, "3650", feb.Booked)
	assertDecimal(t, "9350", feb.Allocated) // 5000 + 1000 + 150 + 3200

	mar := pointFor(t, series, "2024-03")
	assertDecimal(t, "2500", mar.Booked)
	assertDecimal(t, "6150", mar.Allocated)

	dec2024 := pointFor(t, series, "2024-12")
	assertDecimal(t, "0", dec2024.Booked)
	assertDecimal(t, "1000", dec2024.Allocated)
}

func TestAggregateOrdering(t *testing.T) {
	series, _ := Aggregate(nil, HorizonFrom(2023, 11), DefaultOptions())
	require.Len(t, series, 12)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Month, series[i].Month)
	}
	booked, allocated := series.Totals()
	assert.True(t, booked.IsZero())
	assert.True(t, allocated.IsZero())
}

func TestAggregateIsPure(t *testing.T) {
	input := demoLike()
	h := NewHorizon(2024)

	first, _ := Aggregate(input, h, DefaultOptions())
	second, _ := Aggregate(input, h, DefaultOptions())
	assert.Equal(t, first, second)
	assert.Equal(t, demoLike(), input)
}

func TestAggregateMalformedPolicies(t *testing.T) {
	input := []model.Transaction{
		txn("ok", "2024-01-10", "300", "2024-Q1"),
		txn("bad", "2024-02-10", "1000", "volgend jaar"),
	}
	h := NewHorizon(2024)

	t.Run("fallback to booked month", func(t *testing.T) {
		series, issues := Aggregate(input, h, Options{Policy: FallbackToBookedMonth, Precision: 2})
		require.Len(t, issues, 1)
		assert.Equal(t, "bad", issues[0].TransactionID)
		assert.Equal(t, "volgend jaar", issues[0].Period)
		assert.ErrorIs(t, issues[0].Err, common.ErrInvalidPeriodFormat)

		assertDecimal(t, "1100", pointFor(t, series, "2024-02").Allocated)
		_, allocated := series.Totals()
		assertDecimal(t, "1300", allocated)
	})

	t.Run("exclude from allocation", func(t *testing.T) {
		series, issues := Aggregate(input, h, Options{Policy: ExcludeFromAllocation, Precision: 2})
		require.Len(t, issues, 1)

		feb := pointFor(t, series, "2024-02")
		assertDecimal(t, "1000", feb.Booked)
		assertDecimal(t, "100", feb.Allocated)
		_, allocated := series.Totals()
		assertDecimal(t, "300", allocated)
	})
}

func TestAggregateConservesInHorizonAmounts(t *testing.T) {
	input := []model.Transaction{
		txn("a", "2024-01-01", "1000.01", "2024-Q2"),
		txn("b", "2024-05-01", "-77.77", "2024-YEAR"),
		txn("c", "2024-09-01", "0.05", "2024-Q4"),
	}
	series, issues := Aggregate(input, NewHorizon(2024), DefaultOptions())
	require.Empty(t, issues)

	booked, allocated := series.Totals()
	want := decimal.Zero
	for _, tx := range input {
		want = want.Add(tx.Amount)
	}
	assert.True(t, want.Equal(booked))
	assert.True(t, want.Equal(allocated))
}

func TestAggregateMixedLedger(t *testing.T) {
	txns := ledger.NewBuilder(t).
		Line("1", "2024-01-05", "Verzekering Q1", 900).WithPeriod("2024-Q1").
		Line("2", "2024-02-10", "Porti", 100).
		Line("3", "2024-03-01", "Abonnement", 1000).WithPeriod("2024-13").
		Build()

	series, issues := Aggregate(txns, NewHorizon(2024), DefaultOptions())
	require.Len(t, series, 12)
	require.Len(t, issues, 1)
	assert.Equal(t, "3", issues[0].TransactionID)
	assert.ErrorIs(t, issues[0].Err, common.ErrInvalidPeriodFormat)

	want := map[string][2]int64{
		"2024-01": {900, 300},
		"2024-02": {100, 400},
		"2024-03": {1000, 1300},
		"2024-04": {0, 0},
	}
	for month, w := range want {
		p := pointFor(t, series, month)
		assert.True(t, p.Booked.Equal(decimal.NewFromInt(w[0])), "%s booked %s", month, p.Booked)
		assert.True(t, p.Allocated.Equal(decimal.NewFromInt(w[1])), "%s allocated %s", month, p.Allocated)
	}
}
