package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"PREPAID", CategoryPrepaid, true},
		{"prepaid", CategoryPrepaid, true},
		{"Vooruitbetaalde kosten", CategoryPrepaid, true},
		{" nog te ontvangen/betalen ", CategoryAccrued, true},
		{"Regulier", CategoryStandard, true},
		{"Correction", CategoryCorrection, true},
		{"Onbekend", CategoryUnknown, true},
		{"Overig", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Vooruitbetaalde kosten", CategoryPrepaid.Label("nl"))
	assert.Equal(t, "Prepaid expenses", CategoryPrepaid.Label("en"))
	assert.Equal(t, "Vooruitbetaalde kosten", CategoryPrepaid.Label("de"))
	assert.Equal(t, "BOGUS", Category("BOGUS").Label("nl"))
}

func TestParseRiskLevel(t *testing.T) {
	r, ok := ParseRiskLevel(" high ")
	assert.True(t, ok)
	assert.Equal(t, RiskHigh, r)

	_, ok = ParseRiskLevel("CRITICAL")
	assert.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("debet")
	assert.True(t, ok)
	assert.Equal(t, DirectionDebit, d)

	d, ok = ParseDirection("C")
	assert.True(t, ok)
	assert.Equal(t, DirectionCredit, d)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestNewPendingDerivesDirection(t *testing.T) {
	date := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	txn := NewPending("t1", date, "Rente", decimal.NewFromInt(-450), "")
	assert.Equal(t, DirectionCredit, txn.Direction)
	assert.Equal(t, StatusPending, txn.Status)
	assert.Equal(t, CategoryUnknown, txn.Category)
	assert.Equal(t, RiskLow, txn.RiskLevel)
	assert.Equal(t, "2024-02", txn.BookedMonth())
	assert.NoError(t, txn.Validate())
}

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	valid := NewPending("t1", date, "Huur", decimal.NewFromInt(15000), DirectionDebit)

	noID := valid
	noID.ID = " "
	assert.Error(t, noID.Validate())

	noDate := valid
	noDate.Date = time.Time{}
	assert.Error(t, noDate.Validate())

	badStatus := valid
	badStatus.Status = "DONE"
	assert.Error(t, badStatus.Validate())
}

func TestAuditActionStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, ActionApprove.Status())
	assert.Equal(t, StatusCorrected, ActionCorrect.Status())
	assert.True(t, StatusCorrected.Terminal())
	assert.False(t, StatusPending.Terminal())
}
