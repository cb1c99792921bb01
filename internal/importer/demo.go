package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

type demoRow struct {
	id, date, description, relation, glAccount, period string
	amount                                             int64
	direction                                          model.Direction
	risk                                               model.RiskLevel
	category                                           model.Category
	status                                             model.Status
}

var demoRows = []demoRow{
	{"1", "2024-01-05", "Huur Kantoor Q1 2024", "Vastgoed BV", "4000", "2024-Q1", 15000, model.DirectionDebit, model.RiskLow, model.CategoryPrepaid, model.StatusPending},
	{"2", "2023-12-20", "Software Licenties 2024 (Jaar)", "TechSoft", "4500", "2024-YEAR", 12000, model.DirectionDebit, model.RiskMedium, model.CategoryPrepaid, model.StatusPending},
	{"3", "2024-01-15", "Schoonmaak Januari", "CleanPro", "4100", "2024-01", 500, model.DirectionDebit, model.RiskLow, model.CategoryStandard, model.StatusApproved},
	{"4", "2024-03-01", "Accountantkosten 2023 nabetaling", "AuditFirm", "4800", "2023-YEAR", 2500, model.DirectionDebit, model.RiskHigh, model.CategoryCorrection, model.StatusPending},
	{"5", "2024-02-28", "Nog te ontvangen rente Q1", "Bank NL", "8000", "2024-Q1", 450, model.DirectionCredit, model.RiskLow, model.CategoryAccrued, model.StatusPending},
	{"6", "2024-02-15", "Leaseautos Februari", "LeasePlan", "4200", "2024-02", 3200, model.DirectionDebit, model.RiskLow, model.CategoryStandard, model.StatusPending},
}

// DemoYear is the reporting year the demo dataset is built around.
const DemoYear = 2024

// DemoTransactions returns the built-in sample ledger.
func DemoTransactions() []model.Transaction {
	txns := make([]model.Transaction, 0, len(demoRows))
	for _, r := range demoRows {
		date, _ := time.Parse(model.DateLayout, r.date)
		txns = append(txns, model.Transaction{
			ID:              r.id,
			Date:            date,
			Description:     r.description,
			Amount:          decimal.NewFromInt(r.amount),
			Direction:       r.direction,
			Relation:        r.relation,
			GLAccount:       r.glAccount,
			RiskLevel:       r.risk,
			AllocatedPeriod: r.period,
			Category:        r.category,
			Status:          r.status,
		})
	}
	return txns
}
