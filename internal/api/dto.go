package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/format"
	"github.com/Veraticus/transitoria/internal/model"
)

type transactionJSON struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	Amount          json.Number     `json:"amount"`
	DisplayAmount   string          `json:"displayAmount"`
	Type            model.Direction `json:"type"`
	Relation        string          `json:"relation"`
	GLAccount       string          `json:"glAccount,omitempty"`
	ProjectCode     string          `json:"projectCode,omitempty"`
	AllocatedPeriod string          `json:"allocatedPeriod"`
	AIAnalysis      string          `json:"aiAnalysis,omitempty"`
	RiskLevel       model.RiskLevel `json:"riskLevel"`
	Category        model.Category  `json:"category"`
	CategoryLabel   string          `json:"categoryLabel"`
	Status          model.Status    `json:"status"`
	ManagerComment  string          `json:"managerComment,omitempty"`
}

type pointJSON struct {
	Month     string      `json:"month"`
	Booked    json.Number `json:"booked"`
	Allocated json.Number `json:"allocated"`
}

type allocationIssueJSON struct {
	TransactionID string `json:"transactionId"`
	Period        string `json:"period"`
	Error         string `json:"error"`
}

type timeShiftJSON struct {
	Year           int                   `json:"year"`
	Policy         string                `json:"policy"`
	Points         []pointJSON           `json:"points"`
	BookedTotal    json.Number           `json:"bookedTotal"`
	AllocatedTotal json.Number           `json:"allocatedTotal"`
	Issues         []allocationIssueJSON `json:"issues"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type pasteRequest struct {
	Text string `json:"text" binding:"required"`
}

type importResponse struct {
	Imported int    `json:"imported"`
	Mode     string `json:"mode"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (s *Server) transactionView(t model.Transaction) transactionJSON {
	return transactionJSON{
		ID:              t.ID,
		Date:            t.Date.Format(model.DateLayout),
		Description:     t.Description,
		Amount:          number(t.Amount),
		DisplayAmount:   format.Currency(t.Amount, format.Options{InThousands: s.settings.CurrencyInThousands}),
		Type:            t.Direction,
		Relation:        t.Relation,
		GLAccount:       t.GLAccount,
		ProjectCode:     t.ProjectCode,
		AllocatedPeriod: t.AllocatedPeriod,
		AIAnalysis:      t.AIAnalysis,
		RiskLevel:       t.RiskLevel,
		Category:        t.Category,
		CategoryLabel:   t.Category.Label(string(s.settings.Language)),
		Status:          t.Status,
		ManagerComment:  t.ManagerComment,
	}
}

func seriesView(year int, policy string, series allocation.Series, issues []allocation.AllocationIssue) timeShiftJSON {
	booked, allocated := series.Totals()
	out := timeShiftJSON{
		Year:           year,
		Policy:         policy,
		Points:         make([]pointJSON, 0, len(series)),
		BookedTotal:    number(booked),
		AllocatedTotal: number(allocated),
		Issues:         make([]allocationIssueJSON, 0, len(issues)),
	}
	for _, p := range series {
		out.Points = append(out.Points, pointJSON{
			Month:     p.Month,
			Booked:    number(p.Booked),
			Allocated: number(p.Allocated),
		})
	}
	for _, issue := range issues {
		msg := ""
		if issue.Err != nil {
			msg = issue.Err.Error()
		}
		out.Issues = append(out.Issues, allocationIssueJSON{
			TransactionID: issue.TransactionID,
			Period:        issue.Period,
			Error:         msg,
		})
	}
	return out
}
