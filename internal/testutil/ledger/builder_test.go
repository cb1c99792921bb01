package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/model"
)

func TestBuilder(t *testing.T) {
	txns := NewBuilder(t).
		Line("1", "2024-01-05", "Huur Q1", 15000).WithPeriod("2024-Q1").WithCategory(model.CategoryPrepaid).
		Line("2", "2024-02-28", "Rente Q1", 450).Credit().WithRelation("Bank NL").
		Line("3", "2024-03-01", "Nabetaling", 2500).WithRisk(model.RiskHigh).WithStatus(model.StatusCorrected).
		Build()

	require.Len(t, txns, 3)
	for _, txn := range txns {
		require.NoError(t, txn.Validate())
	}

	assert.Equal(t, "2024-Q1", txns[0].AllocatedPeriod)
	assert.Equal(t, model.CategoryPrepaid, txns[0].Category)
	assert.Equal(t, model.DirectionCredit, txns[1].Direction)
	assert.Equal(t, "Bank NL", txns[1].Relation)
	assert.Equal(t, model.RiskHigh, txns[2].RiskLevel)
	assert.Equal(t, model.StatusCorrected, txns[2].Status)
	assert.Equal(t, "2024-03", txns[2].BookedMonth())
}

func TestBuildReturnsCopy(t *testing.T) {
	b := NewBuilder(t).Line("1", "2024-01-05", "Huur", 100)
	first := b.Build()
	first[0].Description = "changed"
	assert.Equal(t, "Huur", b.Build()[0].Description)
}
