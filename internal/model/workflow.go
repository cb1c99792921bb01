package model

import "time"

// Status is the review state of a transaction.
type Status string

// Status constants.
const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusCorrected Status = "CORRECTED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusCorrected
}

// Terminal reports whether a review decision has been recorded.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusCorrected
}

// AuditAction is the decision recorded in an audit entry.
type AuditAction string

// Audit action constants.
const (
	ActionApprove AuditAction = "APPROVE"
	ActionCorrect AuditAction = "CORRECT"
)

// Status returns the status an action moves a transaction into.
func (a AuditAction) Status() Status {
	if a == ActionCorrect {
		return StatusCorrected
	}
	return StatusApproved
}

// AuditLogEntry is an immutable record of one review decision.
type AuditLogEntry struct {
	Timestamp     time.Time   `json:"timestamp"`
	ID            string      `json:"id"`
	TransactionID string      `json:"transactionId"`
	Action        AuditAction `json:"action"`
	User          string      `json:"user"`
	Details       string      `json:"details"`
}
