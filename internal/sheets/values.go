package sheets

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// transactionValues renders the Transacties tab.
func transactionValues(r Report) [][]any {
	values := make([][]any, 0, len(r.Transactions)+3)
	values = append(values,
		[]any{r.Title, r.GeneratedAt.Format("2006-01-02 15:04")},
		[]any{},
		[]any{"ID", "Datum", "Omschrijving", "Relatie", "Grootboek", "Bedrag", "D/C", "Periode", "Categorie", "Risico", "Status", "Analyse", "Opmerking"},
	)

	for _, t := range r.Transactions {
		values = append(values, []any{
			t.ID,
			t.Date.Format(model.DateLayout),
			t.Description,
			t.Relation,
			t.GLAccount,
			amount(t.Amount),
			string(t.Direction),
			t.AllocatedPeriod,
			t.Category.Label(r.Language),
			string(t.RiskLevel),
			string(t.Status),
			t.AIAnalysis,
			t.ManagerComment,
		})
	}
	return values
}

// timeShiftValues renders the month series with a totals row.
func timeShiftValues(r Report) [][]any {
	values := make([][]any, 0, len(r.TimeShift)+3)
	values = append(values, []any{"Maand", "Geboekt", "Toegerekend", "Verschil"})

	for _, p := range r.TimeShift {
		values = append(values, []any{
			p.Month,
			amount(p.Booked),
			amount(p.Allocated),
			amount(p.Allocated.Sub(p.Booked)),
		})
	}

	booked, allocated := r.Totals()
	values = append(values,
		[]any{},
		[]any{"Totaal", amount(booked), amount(allocated), amount(allocated.Sub(booked))},
	)
	return values
}

// auditValues renders the audit log, oldest entry first.
func auditValues(r Report) [][]any {
	values := make([][]any, 0, len(r.Audit)+1)
	values = append(values, []any{"Tijdstip", "Transactie", "Actie", "Gebruiker", "Details"})

	for _, e := range r.Audit {
		values = append(values, []any{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.TransactionID,
			string(e.Action),
			e.User,
			e.Details,
		})
	}
	return values
}

func completenessValues(r Report) [][]any {
	values := make([][]any, 0, len(r.Completeness)+1)
	values = append(values, []any{"Omschrijving", "Verwachte periode", "Zekerheid"})

	for _, c := range r.Completeness {
		values = append(values, []any{c.Description, c.ExpectedPeriod, c.Confidence})
	}
	return values
}

// tabValues returns every tab in write order.
func tabValues(r Report) map[string][][]any {
	return map[string][][]any{
		TabTransactions: transactionValues(r),
		TabTimeShift:    timeShiftValues(r),
		TabAudit:        auditValues(r),
		TabCompleteness: completenessValues(r),
	}
}

var tabOrder = []string{TabTransactions, TabTimeShift, TabAudit, TabCompleteness}
