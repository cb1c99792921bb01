package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/store"
)

func TestRenderTransactions(t *testing.T) {
	rent := model.NewPending("1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Huur Kantoor Q1 2024", decimal.NewFromInt(15000), model.DirectionDebit)
	rent.AllocatedPeriod = "2024-Q1"
	rent.Category = model.CategoryPrepaid
	rent.AIAnalysis = "Huur Q1 vooruitbetaald"

	interest := model.NewPending("5", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), "Rente Q1", decimal.NewFromInt(450), model.DirectionCredit)

	out := RenderTransactions([]model.Transaction{rent, interest}, RenderOptions{Language: "nl", ShowAnalysis: true})

	assert.Contains(t, out, "Huur Kantoor Q1 2024")
	assert.Contains(t, out, "€ 15.000")
	assert.Contains(t, out, "€ 450 Cr")
	assert.Contains(t, out, "Vooruitbetaalde kosten")
	assert.Contains(t, out, "AI analyse")
	assert.Contains(t, out, "Huur Q1 vooruitbetaald")
	assert.NotContains(t, out, "Opmerking")

	en := RenderTransactions([]model.Transaction{rent}, RenderOptions{Language: "en", InThousands: true, ShowComments: true})
	assert.Contains(t, en, "Prepaid expenses")
	assert.Contains(t, en, "€ 15.0k")
	assert.Contains(t, en, "Opmerking")
}

func TestRenderSeries(t *testing.T) {
	series := allocation.Series{
		{Month: "2024-01", Booked: decimal.NewFromInt(15000), Allocated: decimal.NewFromInt(5000)},
		{Month: "2024-02", Booked: decimal.Zero, Allocated: decimal.NewFromInt(5000)},
	}

	out := RenderSeries(series, RenderOptions{})
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, strings.Repeat("█", barWidth))
	assert.Contains(t, out, strings.Repeat("█", barWidth/3))
	assert.Contains(t, out, "€ 15.000")
	assert.Contains(t, out, "€ 10.000")

	empty := RenderSeries(allocation.Series{{Month: "2024-03"}}, RenderOptions{})
	assert.NotContains(t, empty, "█")
}

func TestRenderAuditAndCompleteness(t *testing.T) {
	out := RenderAudit([]model.AuditLogEntry{{
		Timestamp:     time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
		TransactionID: "3",
		Action:        model.ActionCorrect,
		User:          "J. de Vries",
		Details:       "Markering voor correctie vereist",
	}})
	assert.Contains(t, out, "CORRECT")
	assert.Contains(t, out, "Markering voor correctie vereist")

	assert.Contains(t, RenderCompleteness(nil), "Geen ontbrekende posten")
	issues := RenderCompleteness([]model.CompletenessIssue{{Description: "Schoonmaak maart", ExpectedPeriod: "2024-03", Confidence: 0.85}})
	assert.Contains(t, issues, "Schoonmaak maart")
	assert.Contains(t, issues, "85%")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(store.Summary{Total: 6, Pending: 4, Approved: 1, Corrected: 1, HighRisk: 1})
	assert.Contains(t, out, "Overzicht")
	assert.Contains(t, out, "Totaal:        6")
	assert.Contains(t, out, "Goedgekeurd:   1")
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(config.ThemeTerraCotta.Palette())

	ApplyTheme(config.ThemeForestGreen.Palette())
	assert.Equal(t, "#2E7B57", string(PrimaryColor))
	assert.Contains(t, FormatTitle("Transitoria"), "Transitoria")
	assert.Contains(t, FormatError("mislukt"), ErrorIcon)
}
