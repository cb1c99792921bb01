package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

// MalformedPolicy decides what happens to a transaction whose allocated
// period cannot be parsed.
type MalformedPolicy int

const (
	// FallbackToBookedMonth attributes the whole amount to the booking month.
	FallbackToBookedMonth MalformedPolicy = iota
	// ExcludeFromAllocation leaves the amount out of the allocated totals.
	ExcludeFromAllocation
)

// Point is one month of the booked-versus-allocated series.
type Point struct {
	Month     string          `json:"month"`
	Booked    decimal.Decimal `json:"booked"`
	Allocated decimal.Decimal `json:"allocated"`
}

// Series is ordered ascending by month.
type Series []Point

// Totals sums both columns of the series.
func (s Series) Totals() (booked, allocated decimal.Decimal) {
	for _, p := range s {
		booked = booked.Add(p.Booked)
		allocated = allocated.Add(p.Allocated)
	}
	return booked, allocated
}

// AllocationIssue records a transaction that could not be allocated as labelled.
type AllocationIssue struct {
	Err           error
	TransactionID string
	Period        string
}

// Options tunes aggregation.
type Options struct {
	Policy    MalformedPolicy
	Precision int32
}

// DefaultOptions falls back to the booked month and rounds to cents.
func DefaultOptions() Options {
	return Options{Policy: FallbackToBookedMonth, Precision: DefaultPrecision}
}

// Aggregate folds the transactions into a series over h. It has no state;
// the same input always yields the same output. A transaction that fails to
// allocate is reported and handled per opts.Policy without affecting others.
func Aggregate(txns []model.Transaction, h Horizon, opts Options) (Series, []AllocationIssue) {
	allocator := NewAllocator(opts.Precision)

	booked := make(map[string]decimal.Decimal, h.Len())
	allocated := make(map[string]decimal.Decimal, h.Len())

	var issues []AllocationIssue
	for _, txn := range txns {
		if month := txn.BookedMonth(); h.Contains(month) {
			booked[month] = booked[month].Add(txn.Amount)
		}

		contributions, err := allocator.Allocate(txn.Amount, txn.AllocatedPeriod, txn.Date, h)
		if err != nil {
			issues = append(issues, AllocationIssue{
				TransactionID: txn.ID,
				Period:        txn.AllocatedPeriod,
				Err:           err,
			})
			if opts.Policy == ExcludeFromAllocation {
				continue
			}
			contributions = allocator.bookedMonth(txn.Amount, txn.Date, h)
		}

		for _, c := range contributions {
			allocated[c.Month] = allocated[c.Month].Add(c.Amount)
		}
	}

	months := h.Months()
	sort.Strings(months)

	series := make(Series, 0, len(months))
	for _, month := range months {
		series = append(series, Point{
			Month:     month,
			Booked:    booked[month],
			Allocated: allocated[month],
		})
	}
	return series, issues
}
