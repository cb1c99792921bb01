// Package sheets exports the review state to a Google Sheets workbook.
package sheets

import (
	"errors"
	"fmt"
	"time"
)

// AuthMethod says how the writer obtains Google credentials.
type AuthMethod int

const (
	AuthNone AuthMethod = iota
	AuthOAuth
	AuthServiceAccount
)

var (
	ErrNoAuth        = errors.New("no Google Sheets credentials configured")
	ErrAmbiguousAuth = errors.New("both OAuth2 and service account credentials configured")
)

// Config configures the export workbook and the credentials used to reach it.
// An empty SpreadsheetID creates a fresh spreadsheet named SpreadsheetName.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string

	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string

	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the export defaults. Credentials are left empty.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Transitoria Controle",
		TimeZone:         "Europe/Amsterdam",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// Auth reports the configured credential kind. Partial OAuth2 settings count
// as none.
func (c *Config) Auth() (AuthMethod, error) {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	account := c.ServiceAccountPath != ""
	switch {
	case oauth && account:
		return AuthNone, ErrAmbiguousAuth
	case account:
		return AuthServiceAccount, nil
	case oauth:
		return AuthOAuth, nil
	default:
		return AuthNone, ErrNoAuth
	}
}

// Validate rejects configs the writer cannot run with.
func (c *Config) Validate() error {
	if _, err := c.Auth(); err != nil {
		return err
	}
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.RetryAttempts < 0:
		return fmt.Errorf("retry attempts must not be negative, got %d", c.RetryAttempts)
	case c.RetryDelay < 0:
		return fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}
