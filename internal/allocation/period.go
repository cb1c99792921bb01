// Package allocation spreads ledger amounts over the months of their
// accounting period and builds the booked-versus-allocated series.
package allocation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

// Granularity is the width of an allocated period.
type Granularity int

// Granularity constants.
const (
	GranularityMonth Granularity = iota
	GranularityQuarter
	GranularityYear
)

var (
	monthPattern   = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
	quarterPattern = regexp.MustCompile(`^(\d{4})-Q([1-4])$`)
	yearPattern    = regexp.MustCompile(`^(\d{4})-YEAR$`)
)

// Period is a parsed allocated-period label.
type Period struct {
	Year        int
	Index       int // month 1-12 or quarter 1-4; unused for years
	Granularity Granularity
}

// ParsePeriod parses YYYY-MM, YYYY-Qn or YYYY-YEAR. Anything else fails
// with common.ErrInvalidPeriodFormat.
func ParsePeriod(label string) (Period, error) {
	if m := monthPattern.FindStringSubmatch(label); m != nil {
		return Period{Year: atoi(m[1]), Index: atoi(m[2]), Granularity: GranularityMonth}, nil
	}
	if m := quarterPattern.FindStringSubmatch(label); m != nil {
		return Period{Year: atoi(m[1]), Index: atoi(m[2]), Granularity: GranularityQuarter}, nil
	}
	if m := yearPattern.FindStringSubmatch(label); m != nil {
		return Period{Year: atoi(m[1]), Granularity: GranularityYear}, nil
	}
	return Period{}, fmt.Errorf("%w: %q", common.ErrInvalidPeriodFormat, label)
}

// ValidPeriod reports whether label follows the period grammar.
func ValidPeriod(label string) bool {
	_, err := ParsePeriod(label)
	return err == nil
}

// String renders the period back into its label form.
func (p Period) String() string {
	switch p.Granularity {
	case GranularityQuarter:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Index)
	case GranularityYear:
		return fmt.Sprintf("%04d-YEAR", p.Year)
	default:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Index)
	}
}

// Months returns the YYYY-MM keys covered by the period in calendar order.
func (p Period) Months() []string {
	var first, count int
	switch p.Granularity {
	case GranularityQuarter:
		first, count = 3*(p.Index-1)+1, 3
	case GranularityYear:
		first, count = 1, 12
	default:
		first, count = p.Index, 1
	}

	months := make([]string, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, monthKey(p.Year, time.Month(first+i)))
	}
	return months
}

func monthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(model.MonthLayout)
}

// atoi is only called on regexp-validated digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
