package allocation

import (
	"time"

	"github.com/Veraticus/transitoria/internal/model"
)

// HorizonLength is the number of monthly buckets in a reporting horizon.
const HorizonLength = 12

// Horizon is the ordered set of month keys a series is computed over.
type Horizon struct {
	index  map[string]int
	months []string
}

// NewHorizon returns January through December of year.
func NewHorizon(year int) Horizon {
	return HorizonFrom(year, time.January)
}

// HorizonFrom returns twelve consecutive months starting at the given month.
func HorizonFrom(year int, month time.Month) Horizon {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	h := Horizon{
		months: make([]string, 0, HorizonLength),
		index:  make(map[string]int, HorizonLength),
	}
	for i := 0; i < HorizonLength; i++ {
		key := start.AddDate(0, i, 0).Format(model.MonthLayout)
		h.index[key] = i
		h.months = append(h.months, key)
	}
	return h
}

// Months returns a copy of the month keys in chronological order.
func (h Horizon) Months() []string {
	out := make([]string, len(h.months))
	copy(out, h.months)
	return out
}

// Contains reports whether the month key is inside the horizon.
func (h Horizon) Contains(month string) bool {
	_, ok := h.index[month]
	return ok
}

// Len returns the number of buckets.
func (h Horizon) Len() int {
	return len(h.months)
}
