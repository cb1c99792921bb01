package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/model"
)

func testReport() Report {
	rent := model.NewPending("1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Huur Kantoor Q1 2024", decimal.NewFromInt(15000), model.DirectionDebit)
	rent.AllocatedPeriod = "2024-Q1"
	rent.Category = model.CategoryPrepaid
	rent.Relation = "Vastgoed BV"
	rent.ManagerComment = "Akkoord"

	return Report{
		GeneratedAt:  time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
		Title:        "Transitoria Controle Tool",
		Language:     "nl",
		Transactions: []model.Transaction{rent},
		TimeShift: allocation.Series{
			{Month: "2024-01", Booked: decimal.NewFromInt(15000), Allocated: decimal.NewFromInt(5000)},
			{Month: "2024-02", Booked: decimal.Zero, Allocated: decimal.NewFromInt(5000)},
			{Month: "2024-03", Booked: decimal.Zero, Allocated: decimal.NewFromInt(5000)},
		},
		Audit: []model.AuditLogEntry{{
			Timestamp:     time.Date(2024, 4, 1, 14, 5, 9, 0, time.UTC),
			ID:            "a1",
			TransactionID: "1",
			Action:        model.ActionApprove,
			User:          "J. de Vries",
			Details:       "Transactie goedgekeurd voor periode",
		}},
		Completeness: []model.CompletenessIssue{{Description: "Schoonmaak maart ontbreekt", ExpectedPeriod: "2024-03", Confidence: 0.9}},
	}
}

func TestTransactionValues(t *testing.T) {
	values := transactionValues(testReport())
	require.Len(t, values, 4)

	assert.Equal(t, []any{"Transitoria Controle Tool", "2024-04-02 09:30"}, values[0])
	assert.Equal(t, "Bedrag", values[2][5])
	assert.Equal(t, []any{
		"1", "2024-01-05", "Huur Kantoor Q1 2024", "Vastgoed BV", "", 15000.0, "DEBIT",
		"2024-Q1", "Vooruitbetaalde kosten", "LOW", "PENDING", "", "Akkoord",
	}, values[3])
}

func TestTimeShiftValues(t *testing.T) {
	values := timeShiftValues(testReport())
	require.Len(t, values, 6)

	assert.Equal(t, []any{"2024-01", 15000.0, 5000.0, -10000.0}, values[1])
	assert.Equal(t, []any{"2024-02", 0.0, 5000.0, 5000.0}, values[2])
	assert.Equal(t, []any{"Totaal", 15000.0, 15000.0, 0.0}, values[5])
}

func TestAuditAndCompletenessValues(t *testing.T) {
	r := testReport()

	audit := auditValues(r)
	require.Len(t, audit, 2)
	assert.Equal(t, []any{"2024-04-01 14:05:09", "1", "APPROVE", "J. de Vries", "Transactie goedgekeurd voor periode"}, audit[1])

	completeness := completenessValues(r)
	require.Len(t, completeness, 2)
	assert.Equal(t, []any{"Schoonmaak maart ontbreekt", "2024-03", 0.9}, completeness[1])

	tabs := tabValues(r)
	assert.Len(t, tabs, len(tabOrder))
}

func TestMissingTabRequests(t *testing.T) {
	requests := missingTabRequests([]string{"Sheet1", TabTransactions, TabAudit})
	require.Len(t, requests, 2)
	assert.Equal(t, TabTimeShift, requests[0].AddSheet.Properties.Title)
	assert.Equal(t, TabCompleteness, requests[1].AddSheet.Properties.Title)

	assert.Empty(t, missingTabRequests(tabOrder))
}

func TestFormattingRequests(t *testing.T) {
	requests := formattingRequests(map[string]int64{TabTransactions: 0, TabTimeShift: 7})
	require.Len(t, requests, 5)
	assert.Equal(t, int64(7), requests[3].RepeatCell.Range.SheetId)
	assert.Equal(t, "€ #,##0.00", requests[4].RepeatCell.Cell.UserEnteredFormat.NumberFormat.Pattern)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"service account", func(c *Config) { c.ServiceAccountPath = "/key.json" }, false},
		{"oauth", func(c *Config) { c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "refresh" }, false},
		{"no auth", func(*Config) {}, true},
		{"both auth methods", func(c *Config) {
			c.ServiceAccountPath = "/key.json"
			c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "refresh"
		}, true},
		{"bad batch size", func(c *Config) { c.ServiceAccountPath = "/key.json"; c.BatchSize = 0 }, true},
		{"negative retries", func(c *Config) { c.ServiceAccountPath = "/key.json"; c.RetryAttempts = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	got, err := GetOrCreateToken(context.Background(), OAuth2Config{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter()
	require.NoError(t, m.Write(context.Background(), testReport()))
	assert.Equal(t, 1, m.Calls())
	assert.Equal(t, "Transitoria Controle Tool", m.LastReport.Title)

	m.SetWriteError(errors.New("quota"))
	assert.EqualError(t, m.Write(context.Background(), Report{}), "quota")

	var _ ReportWriter = m
	var _ ReportWriter = (*Writer)(nil)
}

func TestConfigAuth(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.Auth()
	assert.ErrorIs(t, err, ErrNoAuth)

	cfg.ClientID, cfg.ClientSecret = "id", "secret"
	_, err = cfg.Auth()
	assert.ErrorIs(t, err, ErrNoAuth, "partial oauth settings")

	cfg.RefreshToken = "refresh"
	method, err := cfg.Auth()
	require.NoError(t, err)
	assert.Equal(t, AuthOAuth, method)

	cfg.ServiceAccountPath = "/key.json"
	_, err = cfg.Auth()
	assert.ErrorIs(t, err, ErrAmbiguousAuth)
}
