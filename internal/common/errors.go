// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Allocation errors.
	ErrInvalidPeriodFormat = errors.New("invalid period format")

	// Store and workflow errors.
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateEntry      = errors.New("duplicate entry")

	// Classification errors.
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrNoTransactions            = errors.New("no transactions to classify")

	// Import errors.
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrMalformedRow      = errors.New("malformed row")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrDisabled marks a feature switched off in the app settings.
	ErrDisabled = errors.New("disabled in settings")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
