// Package ledger builds ledger lines for tests.
//
//	txns := ledger.NewBuilder(t).
//		Line("1", "2024-01-05", "Huur Q1", 15000).WithPeriod("2024-Q1").
//		Line("2", "2024-02-15", "Lease februari", 3200).
//		Build()
package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

// Builder accumulates transactions. Modifiers apply to the last line added.
type Builder struct {
	t     *testing.T
	lines []model.Transaction
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// Line adds a pending debit line. date is YYYY-MM-DD.
func (b *Builder) Line(id, date, description string, amount int64) *Builder {
	b.t.Helper()
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		b.t.Fatalf("ledger: bad date %q for line %s: %v", date, id, err)
	}
	b.lines = append(b.lines, model.NewPending(id, d, description, decimal.NewFromInt(amount), model.DirectionDebit))
	return b
}

// Credit marks the last line as a credit.
func (b *Builder) Credit() *Builder {
	return b.modify(func(t *model.Transaction) { t.Direction = model.DirectionCredit })
}

// WithPeriod sets the allocated period of the last line.
func (b *Builder) WithPeriod(period string) *Builder {
	return b.modify(func(t *model.Transaction) { t.AllocatedPeriod = period })
}

// WithCategory sets the category of the last line.
func (b *Builder) WithCategory(c model.Category) *Builder {
	return b.modify(func(t *model.Transaction) { t.Category = c })
}

// WithRisk sets the risk level of the last line.
func (b *Builder) WithRisk(r model.RiskLevel) *Builder {
	return b.modify(func(t *model.Transaction) { t.RiskLevel = r })
}

// WithStatus sets the workflow status of the last line.
func (b *Builder) WithStatus(s model.Status) *Builder {
	return b.modify(func(t *model.Transaction) { t.Status = s })
}

// WithRelation sets the counterparty of the last line.
func (b *Builder) WithRelation(relation string) *Builder {
	return b.modify(func(t *model.Transaction) { t.Relation = relation })
}

// Build returns a copy of the lines.
func (b *Builder) Build() []model.Transaction {
	return append([]model.Transaction(nil), b.lines...)
}

func (b *Builder) modify(fn func(*model.Transaction)) *Builder {
	b.t.Helper()
	if len(b.lines) == 0 {
		b.t.Fatal("ledger: modifier called before Line")
	}
	fn(&b.lines[len(b.lines)-1])
	return b
}
