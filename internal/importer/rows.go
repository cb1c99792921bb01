// Package importer turns ledger exports into transactions ready for review.
package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

type column int

const (
	colID column = iota
	colDate
	colDescription
	colAmount
	colDebit
	colCredit
	colDirection
	colRelation
	colGLAccount
	colProjectCode
	colPeriod
	colCategory
)

var (
	// dotThousands matches "15.000" and "1.234.567": dots grouping whole
	// thousands without a decimal part, as nl-NL renders them.
	dotThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
	// commaThousands needs two groups; a single comma stays decimal.
	commaThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3}){2,}$`)
)

// headerAliases maps normalized header names (English and Dutch) to columns.
var headerAliases = map[string]column{
	"id":                colID,
	"transactionid":     colID,
	"boekstuk":          colID,
	"boekstuknummer":    colID,
	"date":              colDate,
	"datum":             colDate,
	"boekdatum":         colDate,
	"description":       colDescription,
	"omschrijving":      colDescription,
	"amount":            colAmount,
	"bedrag":            colAmount,
	"debit":             colDebit,
	"debet":             colDebit,
	"credit":            colCredit,
	"direction":         colDirection,
	"dc":                colDirection,
	"richting":          colDirection,
	"relation":          colRelation,
	"relatie":           colRelation,
	"glaccount":         colGLAccount,
	"grootboek":         colGLAccount,
	"grootboekrekening": colGLAccount,
	"projectcode":       colProjectCode,
	"project":           colProjectCode,
	"kostenplaats":      colProjectCode,
	"allocatedperiod":   colPeriod,
	"period":            colPeriod,
	"periode":           colPeriod,
	"category":          colCategory,
	"categorie":         colCategory,
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"20060102",
	"2006/01/02",
}

// header resolves column positions from a header row.
type header map[column]int

func parseHeader(row []string) (header, error) {
	h := make(header)
	for i, name := range row {
		key := normalizeHeader(name)
		if col, ok := headerAliases[key]; ok {
			if _, dup := h[col]; !dup {
				h[col] = i
			}
		}
	}

	if _, ok := h[colDate]; !ok {
		return nil, fmt.Errorf("%w: missing date column", common.ErrMalformedRow)
	}
	if _, ok := h[colDescription]; !ok {
		return nil, fmt.Errorf("%w: missing description column", common.ErrMalformedRow)
	}
	_, hasAmount := h[colAmount]
	_, hasDebit := h[colDebit]
	_, hasCredit := h[colCredit]
	if !hasAmount && !hasDebit && !hasCredit {
		return nil, fmt.Errorf("%w: missing amount column", common.ErrMalformedRow)
	}
	return h, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "", ".", "")
	return replacer.Replace(name)
}

func (h header) get(row []string, col column) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// toTransaction converts one data row. line is 1-based and used in errors.
func (h header) toTransaction(row []string, line int, newID func() string) (model.Transaction, error) {
	date, err := ParseDate(h.get(row, colDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: line %d: %w", common.ErrMalformedRow, line, err)
	}

	amount, direction, err := h.amount(row)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: line %d: %w", common.ErrMalformedRow, line, err)
	}

	id := h.get(row, colID)
	if id == "" {
		id = newID()
	}

	t := model.NewPending(id, date, h.get(row, colDescription), amount, direction)
	t.Relation = h.get(row, colRelation)
	t.GLAccount = h.get(row, colGLAccount)
	t.ProjectCode = h.get(row, colProjectCode)
	t.AllocatedPeriod = strings.ToUpper(h.get(row, colPeriod))
	if category, ok := model.ParseCategory(h.get(row, colCategory)); ok {
		t.Category = category
	}
	return t, nil
}

func (h header) amount(row []string) (decimal.Decimal, model.Direction, error) {
	direction, _ := model.ParseDirection(h.get(row, colDirection))

	if raw := h.get(row, colAmount); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amount, direction, nil
	}

	if raw := h.get(row, colDebit); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return decimal.Zero, "", err
		}
		if !amount.IsZero() {
			return amount, model.DirectionDebit, nil
		}
	}

	if raw := h.get(row, colCredit); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amount, model.DirectionCredit, nil
	}

	return decimal.Zero, "", fmt.Errorf("no amount")
}

// parseRows converts a header row plus data rows. Blank rows are skipped.
func parseRows(rows [][]string) ([]model.Transaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t, err := h.toTransaction(row, i+2, uuid.NewString)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseDate accepts ISO dates and the common Dutch day-first layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseAmount accepts "1234.56", "1.234,56", "€ 1.234,56", "€ 15.000" and
// "-450". When both separators appear the last one is the decimal separator.
// Dots that only group thousands ("15.000") are thousands separators; a lone
// comma is always decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("€", "", "EUR", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	switch {
	case dotThousands.MatchString(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	case commaThousands.MatchString(clean):
		clean = strings.ReplaceAll(clean, ",", "")
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")
	switch {
	case lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
