package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/transitoria/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAuditEntry  = errors.New("invalid audit entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransactions(txns []model.Transaction) error {
	for i, txn := range txns {
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("%w at index %d: %w", ErrInvalidTransaction, i, err)
		}
	}
	return nil
}

func validateAuditEntry(e model.AuditLogEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAuditEntry)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidAuditEntry)
	}
	if e.Action != model.ActionApprove && e.Action != model.ActionCorrect {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAuditEntry, e.Action)
	}
	return nil
}
