// Package classify validates model suggestions and merges them into the
// transaction list without touching user-owned fields.
package classify

import (
	"strings"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/model"
)

// Suggestion is one transaction's analysis as returned by the model.
// Values are raw and unvalidated.
type Suggestion struct {
	ID       string `json:"id"`
	Analysis string `json:"analysis"`
	Risk     string `json:"risk"`
	Period   string `json:"period"`
	Category string `json:"category"`
}

// Result is a complete, parsed analysis response.
type Result struct {
	Suggestions  []Suggestion
	Completeness []model.CompletenessIssue
}

// Classification is a validated suggestion. A nil Risk or empty Period
// leaves the existing value in place.
type Classification struct {
	Risk     *model.RiskLevel
	Analysis string
	Period   string
	Category model.Category
}

// Fallback records a suggested value that could not be used as-is.
type Fallback struct {
	TransactionID string
	Field         string
	Value         string
}

// Validate maps a raw suggestion onto the enum types.
// Unknown categories become UNKNOWN; unknown risks and malformed periods are dropped.
func Validate(s Suggestion) (Classification, []Fallback) {
	var fallbacks []Fallback
	c := Classification{Analysis: strings.TrimSpace(s.Analysis)}

	if category, ok := model.ParseCategory(s.Category); ok {
		c.Category = category
	} else {
		c.Category = model.CategoryUnknown
		fallbacks = append(fallbacks, Fallback{TransactionID: s.ID, Field: "category", Value: s.Category})
	}

	if risk, ok := model.ParseRiskLevel(s.Risk); ok {
		c.Risk = &risk
	} else {
		fallbacks = append(fallbacks, Fallback{TransactionID: s.ID, Field: "risk", Value: s.Risk})
	}

	period := strings.ToUpper(strings.TrimSpace(s.Period))
	if allocation.ValidPeriod(period) {
		c.Period = period
	} else {
		fallbacks = append(fallbacks, Fallback{TransactionID: s.ID, Field: "period", Value: s.Period})
	}

	return c, fallbacks
}

// Apply overwrites the model-owned fields of t. Status, comment, amount and
// the other imported fields are never touched.
func (c Classification) Apply(t model.Transaction) model.Transaction {
	t.AIAnalysis = c.Analysis
	t.Category = c.Category
	if c.Risk != nil {
		t.RiskLevel = *c.Risk
	}
	if c.Period != "" {
		t.AllocatedPeriod = c.Period
	}
	return t
}

// Outcome is the result of merging a Result into a transaction list.
type Outcome struct {
	Transactions []model.Transaction
	Completeness []model.CompletenessIssue
	Unmatched    []string
	UpdatedIDs   []string
	Fallbacks    []Fallback
	Updated      int
}

// UpdatedTransactions returns the merged transactions that received a suggestion.
func (o Outcome) UpdatedTransactions() []model.Transaction {
	ids := make(map[string]bool, len(o.UpdatedIDs))
	for _, id := range o.UpdatedIDs {
		ids[id] = true
	}
	out := make([]model.Transaction, 0, len(o.UpdatedIDs))
	for _, t := range o.Transactions {
		if ids[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Merge returns a new transaction list with r applied. The input slice is
// not modified. Transactions without a suggestion pass through unchanged,
// suggestions for unknown ids are reported as Unmatched, and the
// completeness list replaces any previous one. When the response repeats an
// id the last suggestion wins.
func Merge(txns []model.Transaction, r Result) Outcome {
	byID := make(map[string]Suggestion, len(r.Suggestions))
	order := make([]string, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		id := strings.TrimSpace(s.ID)
		if _, dup := byID[id]; !dup {
			order = append(order, id)
		}
		byID[id] = s
	}

	out := Outcome{
		Transactions: make([]model.Transaction, len(txns)),
		Completeness: append([]model.CompletenessIssue{}, r.Completeness...),
	}

	seen := make(map[string]bool, len(txns))
	for i, t := range txns {
		seen[t.ID] = true

		s, ok := byID[t.ID]
		if !ok {
			out.Transactions[i] = t
			continue
		}

		c, fallbacks := Validate(s)
		out.Transactions[i] = c.Apply(t)
		out.Fallbacks = append(out.Fallbacks, fallbacks...)
		out.UpdatedIDs = append(out.UpdatedIDs, t.ID)
		out.Updated++
	}

	// Unmatched ids keep the order of the response.
	for _, id := range order {
		if !seen[id] {
			out.Unmatched = append(out.Unmatched, id)
		}
	}

	return out
}
