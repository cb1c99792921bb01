// Package filter narrows the transaction list before it is shown or aggregated.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

// Preset names a period-range filter.
type Preset string

// Preset constants.
const (
	PresetAll      Preset = "ALL"
	PresetLast3M   Preset = "3M"
	PresetLast6M   Preset = "6M"
	PresetLast9M   Preset = "9M"
	PresetLastYear Preset = "1Y"
	PresetCustom   Preset = "CUSTOM"
)

// DefaultThreshold is the absolute amount below which lines count as small.
const DefaultThreshold = 50

var presetMonths = map[Preset]int{
	PresetLast3M:   3,
	PresetLast6M:   6,
	PresetLast9M:   9,
	PresetLastYear: 12,
}

// Filter errors.
var (
	ErrUnknownPreset = errors.New("unknown period preset")
	ErrInvertedRange = errors.New("range start is after range end")
)

// ParsePreset accepts preset names case-insensitively. Empty means ALL.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToUpper(strings.TrimSpace(s)))
	if p == "" {
		return PresetAll, nil
	}
	if _, ok := presetMonths[p]; ok || p == PresetAll || p == PresetCustom {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// Range is an inclusive date range. A zero bound is open.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether date falls inside the range, at day granularity.
func (r Range) Contains(date time.Time) bool {
	d := truncateDay(date)
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Resolve turns a preset into a concrete range. Relative presets end on ref
// and start the same day N months earlier, or on the last day of that month
// when it is shorter. CUSTOM uses start and end as given.
func Resolve(preset Preset, ref, start, end time.Time) (Range, error) {
	switch preset {
	case PresetAll, "":
		return Range{}, nil
	case PresetCustom:
		r := Range{}
		if !start.IsZero() {
			r.Start = truncateDay(start)
		}
		if !end.IsZero() {
			r.End = truncateDay(end)
		}
		if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
			return Range{}, ErrInvertedRange
		}
		return r, nil
	}

	months, ok := presetMonths[preset]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	end = truncateDay(ref)
	return Range{Start: monthsBefore(end, months), End: end}, nil
}

// monthsBefore steps back n calendar months, clamping the day to the end of
// the target month: 31 May minus 3 months is 29 February, not 2 March.
func monthsBefore(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()-time.Month(n), 1, 0, 0, 0, 0, d.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d.Day(), lastDay)-1)
}

// Criteria combines the period range and the small-amount switch.
type Criteria struct {
	Start     time.Time
	End       time.Time
	Threshold decimal.Decimal
	Preset    Preset
	HideSmall bool
}

// Apply returns the transactions matching c, keeping input order.
func Apply(txns []model.Transaction, c Criteria, ref time.Time) ([]model.Transaction, error) {
	r, err := Resolve(c.Preset, ref, c.Start, c.End)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !r.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}

	if c.HideSmall {
		threshold := c.Threshold
		if threshold.IsZero() {
			threshold = decimal.NewFromInt(DefaultThreshold)
		}
		out = ExcludeSmallAmounts(out, threshold)
	}
	return out, nil
}

// ExcludeSmallAmounts keeps transactions with |amount| >= threshold.
func ExcludeSmallAmounts(txns []model.Transaction, threshold decimal.Decimal) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Amount.Abs().GreaterThanOrEqual(threshold) {
			out = append(out, t)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
