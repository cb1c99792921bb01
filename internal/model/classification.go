package model

import "strings"

// Category is the transitoria classification of a ledger line.
type Category string

// Category constants.
const (
	CategoryPrepaid    Category = "PREPAID"
	CategoryAccrued    Category = "ACCRUED"
	CategoryStandard   Category = "STANDARD"
	CategoryCorrection Category = "CORRECTION"
	CategoryUnknown    Category = "UNKNOWN"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPrepaid,
	CategoryAccrued,
	CategoryStandard,
	CategoryCorrection,
	CategoryUnknown,
}

var categoryLabels = map[Category]map[string]string{
	CategoryPrepaid:    {"nl": "Vooruitbetaalde kosten", "en": "Prepaid expenses"},
	CategoryAccrued:    {"nl": "Nog te ontvangen/betalen", "en": "Accrued items"},
	CategoryStandard:   {"nl": "Regulier", "en": "Standard"},
	CategoryCorrection: {"nl": "Correctie", "en": "Correction"},
	CategoryUnknown:    {"nl": "Onbekend", "en": "Unknown"},
}

// Label returns the human label for the category in the given language.
// Unknown languages fall back to Dutch.
func (c Category) Label(lang string) string {
	labels, ok := categoryLabels[c]
	if !ok {
		return string(c)
	}
	if label, ok := labels[lang]; ok {
		return label
	}
	return labels["nl"]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory matches enum names and the Dutch or English labels, ignoring case.
func ParseCategory(s string) (Category, bool) {
	needle := strings.TrimSpace(s)
	if needle == "" {
		return "", false
	}
	for _, c := range Categories {
		if strings.EqualFold(needle, string(c)) {
			return c, true
		}
		for _, label := range categoryLabels[c] {
			if strings.EqualFold(needle, label) {
				return c, true
			}
		}
	}
	return "", false
}

// RiskLevel grades how likely a line is misallocated.
type RiskLevel string

// Risk level constants.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevels lists every risk level from low to high.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// ParseRiskLevel matches LOW, MEDIUM and HIGH ignoring case and surrounding space.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// CompletenessIssue is a suggested missing transaction.
type CompletenessIssue struct {
	Description    string  `json:"description"`
	ExpectedPeriod string  `json:"expectedPeriod"`
	Confidence     float64 `json:"confidence"`
}
