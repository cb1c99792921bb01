// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the booking date format used on every boundary.
const DateLayout = "2006-01-02"

// MonthLayout is the month key format (YYYY-MM).
const MonthLayout = "2006-01"

// Direction marks a ledger line as debit or credit. It only affects display.
type Direction string

// Direction constants.
const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// ParseDirection accepts English and Dutch spellings (debet/credit, D/C).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBIT", "DEBET", "D":
		return DirectionDebit, true
	case "CREDIT", "C":
		return DirectionCredit, true
	default:
		return "", false
	}
}

// DirectionFor derives a direction from the sign of an amount.
func DirectionFor(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return DirectionCredit
	}
	return DirectionDebit
}

// Transaction is one posted ledger line under review.
//
// Amount is never changed after creation; only the period attribution and
// the review fields move.
type Transaction struct {
	Date            time.Time
	Amount          decimal.Decimal
	ID              string
	Description     string
	Relation        string
	GLAccount       string
	ProjectCode     string
	AllocatedPeriod string // YYYY-MM, YYYY-Qn or YYYY-YEAR; empty when unclassified
	AIAnalysis      string
	ManagerComment  string
	Direction       Direction
	Category        Category
	RiskLevel       RiskLevel
	Status          Status
}

// BookedMonth returns the booking date truncated to YYYY-MM.
func (t Transaction) BookedMonth() string {
	return t.Date.Format(MonthLayout)
}

// Validate checks the fields every imported transaction must carry.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: date is required", t.ID)
	}
	if !t.Direction.Valid() {
		return fmt.Errorf("transaction %s: invalid direction %q", t.ID, t.Direction)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("transaction %s: invalid status %q", t.ID, t.Status)
	}
	return nil
}

// NewPending returns a transaction in its initial review state.
func NewPending(id string, date time.Time, description string, amount decimal.Decimal, direction Direction) Transaction {
	if !direction.Valid() {
		direction = DirectionFor(amount)
	}
	return Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   direction,
		Category:    CategoryUnknown,
		RiskLevel:   RiskLow,
		Status:      StatusPending,
	}
}
