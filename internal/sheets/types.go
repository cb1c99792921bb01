package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/model"
)

// Tab names in the exported workbook.
const (
	TabTransactions = "Transacties"
	TabTimeShift    = "Tijdverschuiving"
	TabAudit        = "Audit log"
	TabCompleteness = "Volledigheid"
)

// ReportWriter writes a review report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Report is everything exported for one review.
type Report struct {
	GeneratedAt  time.Time
	Title        string
	Language     string
	Transactions []model.Transaction
	TimeShift    allocation.Series
	Audit        []model.AuditLogEntry
	Completeness []model.CompletenessIssue
}

// Totals returns the booked and allocated totals of the time-shift series.
func (r Report) Totals() (booked, allocated decimal.Decimal) {
	return r.TimeShift.Totals()
}
