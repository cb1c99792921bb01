package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/format"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/store"
)

// RenderOptions mirror the dashboard display toggles.
type RenderOptions struct {
	Language     string
	InThousands  bool
	ShowAnalysis bool
	ShowComments bool
}

func (o RenderOptions) money(d decimal.Decimal) string {
	return format.Currency(d, format.Options{InThousands: o.InThousands})
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// StatusLabel renders a workflow status with its colour.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusApproved:
		return SuccessStyle.Render(SuccessIcon + " " + string(s))
	case model.StatusCorrected:
		return ErrorStyle.Render(ErrorIcon + " " + string(s))
	default:
		return WarningStyle.Render(string(s))
	}
}

// RiskLabel renders a risk level with its colour.
func RiskLabel(r model.RiskLevel) string {
	switch r {
	case model.RiskHigh:
		return ErrorStyle.Render(string(r))
	case model.RiskMedium:
		return WarningStyle.Render(string(r))
	default:
		return SubtleStyle.Render(string(r))
	}
}

// RenderTransactions renders the review table.
func RenderTransactions(txns []model.Transaction, opts RenderOptions) string {
	headers := []string{"ID", "Datum", "Omschrijving", "Relatie", "Bedrag", "Periode", "Categorie", "Risico", "Status"}
	if opts.ShowAnalysis {
		headers = append(headers, "AI analyse")
	}
	if opts.ShowComments {
		headers = append(headers, "Opmerking")
	}

	t := newTable(headers...)
	for _, txn := range txns {
		amount := opts.money(txn.Amount)
		if txn.Direction == model.DirectionCredit {
			amount += " Cr"
		}
		period := txn.AllocatedPeriod
		if period == "" {
			period = SubtleStyle.Render("-")
		}

		row := []string{
			txn.ID,
			txn.Date.Format(model.DateLayout),
			txn.Description,
			txn.Relation,
			amount,
			period,
			txn.Category.Label(opts.Language),
			RiskLabel(txn.RiskLevel),
			StatusLabel(txn.Status),
		}
		if opts.ShowAnalysis {
			row = append(row, txn.AIAnalysis)
		}
		if opts.ShowComments {
			row = append(row, txn.ManagerComment)
		}
		t.Row(row...)
	}
	return t.Render()
}

const barWidth = 24

// RenderSeries renders booked versus allocated amounts per month as a bar
// chart with a totals line.
func RenderSeries(series allocation.Series, opts RenderOptions) string {
	peak := decimal.Zero
	for _, p := range series {
		peak = decimal.Max(peak, p.Booked.Abs(), p.Allocated.Abs())
	}

	bar := func(d decimal.Decimal) int {
		if peak.IsZero() {
			return 0
		}
		return int(d.Abs().Mul(decimal.NewFromInt(barWidth)).Div(peak).Round(0).IntPart())
	}

	var b strings.Builder
	for _, p := range series {
		booked := strings.Repeat("█", bar(p.Booked))
		allocated := strings.Repeat("█", bar(p.Allocated))
		fmt.Fprintf(&b, "%s  %s %s\n", p.Month,
			BookedBarStyle.Render(fmt.Sprintf("%-*s", barWidth, booked)),
			opts.money(p.Booked))
		fmt.Fprintf(&b, "%7s  %s %s\n", "",
			AllocBarStyle.Render(fmt.Sprintf("%-*s", barWidth, allocated)),
			opts.money(p.Allocated))
	}

	booked, allocated := series.Totals()
	fmt.Fprintf(&b, "\n%s %s   %s %s\n",
		BoldStyle.Render("Geboekt:"), opts.money(booked),
		BoldStyle.Render("Toegerekend:"), opts.money(allocated))
	return b.String()
}

// RenderAudit renders the audit log as given.
func RenderAudit(entries []model.AuditLogEntry) string {
	t := newTable("Tijdstip", "Transactie", "Actie", "Gebruiker", "Details")
	for _, e := range entries {
		t.Row(
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.TransactionID,
			string(e.Action),
			e.User,
			e.Details,
		)
	}
	return t.Render()
}

// RenderCompleteness renders the missing-entry suggestions.
func RenderCompleteness(issues []model.CompletenessIssue) string {
	if len(issues) == 0 {
		return SuccessStyle.Render(SuccessIcon + " Geen ontbrekende posten gevonden")
	}
	t := newTable("Omschrijving", "Verwachte periode", "Zekerheid")
	for _, c := range issues {
		t.Row(c.Description, c.ExpectedPeriod, fmt.Sprintf("%.0f%%", c.Confidence*100))
	}
	return t.Render()
}

// RenderSummary renders the status and risk counters.
func RenderSummary(s store.Summary) string {
	lines := []string{
		fmt.Sprintf("Totaal:        %d", s.Total),
		WarningStyle.Render(fmt.Sprintf("Open:          %d", s.Pending)),
		SuccessStyle.Render(fmt.Sprintf("Goedgekeurd:   %d", s.Approved)),
		ErrorStyle.Render(fmt.Sprintf("Gecorrigeerd:  %d", s.Corrected)),
		ErrorStyle.Render(fmt.Sprintf("Hoog risico:   %d", s.HighRisk)),
		fmt.Sprintf("Ontbrekend:    %d", s.Issues),
	}
	return RenderBox(ChartIcon+" Overzicht", strings.Join(lines, "\n"))
}
