package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/transitoria/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	txns := []model.Transaction{
		{
			ID:          "1",
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Description: "Huur Kantoor Q1 2024",
			Amount:      decimal.NewFromInt(15000),
			Relation:    "Vastgoed BV",
		},
		{
			ID:          "2",
			Date:        time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
			Description: "Licenties | jaar\n2024",
			Amount:      decimal.RequireFromString("12000.50"),
		},
	}

	prompt := BuildPrompt(txns)

	assert.Contains(t, prompt, "Transacties (ID|Datum|Omschrijving|Bedrag|Relatie):")
	assert.Contains(t, prompt, "1|2024-01-05|Huur Kantoor Q1 2024|15000|Vastgoed BV\n")
	assert.Contains(t, prompt, "2|2023-12-20|Licenties / jaar 2024|12000.5|\n")
	assert.Contains(t, prompt, "YYYY-MM, YYYY-Qx, of YYYY-YEAR")
	assert.Contains(t, prompt, "'Vooruitbetaalde kosten', 'Nog te ontvangen/betalen', 'Regulier', of 'Correctie'")
	assert.Contains(t, prompt, "max 10 woorden")
	assert.Contains(t, prompt, `"completeness"`)

	lines := strings.Count(prompt, "|Vastgoed BV")
	assert.Equal(t, 1, lines)
}
