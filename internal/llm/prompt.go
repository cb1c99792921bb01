package llm

import (
	"strings"

	"github.com/Veraticus/transitoria/internal/model"
)

const promptHeader = `Je bent een expert in audit en transitoria (overlopende activa/passiva).
Analyseer de volgende boekhoudkundige transacties.

Transacties (ID|Datum|Omschrijving|Bedrag|Relatie):
`

const promptTasks = `
TAAK 1: Analyseer per transactie:
- Wat is de juiste toerekeningsperiode (period)? (Format: YYYY-MM, YYYY-Qx, of YYYY-YEAR)
- Categorie (category): 'Vooruitbetaalde kosten', 'Nog te ontvangen/betalen', 'Regulier', of 'Correctie'.
- Risico (risk): LOW, MEDIUM of HIGH. HIGH als datum en periode niet matchen zonder logische reden (bijv. vooruitbetaling is logisch, maar oude factuur in nieuw jaar niet altijd).
- Korte analyse (analysis): max 10 woorden.

TAAK 2: Completeness Check (Volledigheid):
- Identificeer terugkerende kosten (bijv. huur, schoonmaak, lease) die lijken te ontbreken in de reeks.
- Geef suggesties voor wat er mist.

Geef antwoord als JSON object met twee keys: "transactions" (lijst) en "completeness" (lijst).

Voorbeeld JSON Structuur:
{
  "transactions": [
    { "id": "1", "analysis": "Huur Q1 correct vooruitbetaald", "risk": "LOW", "period": "2024-Q1", "category": "Vooruitbetaalde kosten" }
  ],
  "completeness": [
    { "description": "Schoonmaakkosten maart ontbreken", "expectedPeriod": "2024-03", "confidence": 0.9 }
  ]
}
`

// BuildPrompt renders the analysis prompt for txns, one
// id|date|description|amount|relation line per transaction.
func BuildPrompt(txns []model.Transaction) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for _, t := range txns {
		b.WriteString(promptLine(t))
		b.WriteByte('\n')
	}
	b.WriteString(promptTasks)
	return b.String()
}

func promptLine(t model.Transaction) string {
	clean := func(s string) string {
		return strings.TrimSpace(strings.NewReplacer("|", "/", "\n", " ", "\r", " ").Replace(s))
	}
	return strings.Join([]string{
		clean(t.ID),
		t.Date.Format(model.DateLayout),
		clean(t.Description),
		t.Amount.String(),
		clean(t.Relation),
	}, "|")
}
