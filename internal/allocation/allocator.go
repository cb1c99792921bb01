package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

// DefaultPrecision is the number of decimals of the minimal currency unit.
const DefaultPrecision int32 = 2

// Contribution is the share of an amount attributed to one month.
type Contribution struct {
	Month  string
	Amount decimal.Decimal
}

// Allocator splits amounts over allocated periods.
//
// Each of the first n-1 shares is amount/n truncated toward zero at
// Precision decimals; the last share takes the remainder so the shares
// always sum to the original amount.
type Allocator struct {
	Precision int32
}

// NewAllocator creates an allocator rounding to the given number of decimals.
func NewAllocator(precision int32) Allocator {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return Allocator{Precision: precision}
}

// Allocate attributes amount using the default precision.
func Allocate(amount decimal.Decimal, period string, booked time.Time, h Horizon) ([]Contribution, error) {
	return NewAllocator(DefaultPrecision).Allocate(amount, period, booked, h)
}

// Allocate maps one transaction to its monthly contributions inside h.
//
// An empty period attributes everything to the booked month. Months outside
// the horizon are dropped.
func (a Allocator) Allocate(amount decimal.Decimal, period string, booked time.Time, h Horizon) ([]Contribution, error) {
	if period == "" {
		return a.bookedMonth(amount, booked, h), nil
	}

	p, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	months := p.Months()
	shares := a.Split(amount, len(months))

	contributions := make([]Contribution, 0, len(months))
	for i, month := range months {
		if !h.Contains(month) {
			continue
		}
		contributions = append(contributions, Contribution{Month: month, Amount: shares[i]})
	}
	return contributions, nil
}

func (a Allocator) bookedMonth(amount decimal.Decimal, booked time.Time, h Horizon) []Contribution {
	month := booked.Format(model.MonthLayout)
	if !h.Contains(month) {
		return nil
	}
	return []Contribution{{Month: month, Amount: amount}}
}

// Split divides amount into n shares whose sum is exactly amount.
func (a Allocator) Split(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 1 {
		return []decimal.Decimal{amount}
	}

	divisor := decimal.NewFromInt(int64(n))
	share, _ := amount.QuoRem(divisor, a.Precision)

	shares := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		shares[i] = share
	}
	shares[n-1] = amount.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))
	return shares
}
