// Package format renders amounts for reviewers.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	thousand = decimal.NewFromInt(1000)
	printer  = message.NewPrinter(language.Dutch)
)

// Options control currency rendering.
type Options struct {
	// InThousands renders "€ 15.0k" instead of "€ 15.000".
	InThousands bool
}

// Currency renders an euro amount the way the dashboard shows it: whole euros
// with Dutch digit grouping, or thousands with one decimal.
func Currency(amount decimal.Decimal, opts Options) string {
	if opts.InThousands {
		return "€ " + amount.Div(thousand).StringFixed(1) + "k"
	}
	return "€ " + printer.Sprintf("%d", amount.Round(0).IntPart())
}

// Euro is Currency with default options.
func Euro(amount decimal.Decimal) string {
	return Currency(amount, Options{})
}
