package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestParseCSVEnglishHeaders(t *testing.T) {
	input := `id,date,description,amount,direction,relation,gl_account,project_code,period
1,2024-01-05,Huur Kantoor Q1 2024,15000,DEBIT,Vastgoed BV,4000,,2024-q1
5,2024-02-28,Nog te ontvangen rente Q1,450.50,CREDIT,Bank NL,8000,P-7,

`
	txns, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "1", txns[0].ID)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "Huur Kantoor Q1 2024", txns[0].Description)
	assertAmount(t, "15000", txns[0].Amount)
	assert.Equal(t, model.DirectionDebit, txns[0].Direction)
	assert.Equal(t, "Vastgoed BV", txns[0].Relation)
	assert.Equal(t, "4000", txns[0].GLAccount)
	assert.Equal(t, "2024-Q1", txns[0].AllocatedPeriod)
	assert.Equal(t, model.StatusPending, txns[0].Status)

	assert.Equal(t, model.DirectionCredit, txns[1].Direction)
	assertAmount(t, "450.5", txns[1].Amount)
	assert.Equal(t, "P-7", txns[1].ProjectCode)
	assert.Empty(t, txns[1].AllocatedPeriod)
}

func TestParseCSVDutchSemicolon(t *testing.T) {
	input := "Boekdatum;Omschrijving;Debet;Credit;Relatie;Grootboekrekening\n" +
		"15-01-2024;Schoonmaak Januari;500,00;;CleanPro;4100\n" +
		"28-02-2024;Rente Q1;;1.450,25;Bank NL;8000\n"

	txns, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.NotEmpty(t, txns[0].ID, "missing ids are generated")
	assert.NotEqual(t, txns[0].ID, txns[1].ID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assertAmount(t, "500", txns[0].Amount)
	assert.Equal(t, model.DirectionDebit, txns[0].Direction)
	assertAmount(t, "1450.25", txns[1].Amount)
	assert.Equal(t, model.DirectionCredit, txns[1].Direction)
	assert.Equal(t, "4100", txns[0].GLAccount)
}

func TestParseCSVDerivesDirectionFromSign(t *testing.T) {
	txns, err := ParseCSV(strings.NewReader("datum\tomschrijving\tbedrag\n2024-03-01\tCreditnota\t-250\n"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.DirectionCredit, txns[0].Direction)
	assertAmount(t, "-250", txns[0].Amount)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing date column", "description,amount\nx,1\n"},
		{"missing amount column", "date,description\n2024-01-01,x\n"},
		{"bad date", "date,description,amount\n2024-31-01,x,1\n"},
		{"bad amount", "date,description,amount\n2024-01-01,x,abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, common.ErrMalformedRow)
		})
	}
}

func TestParseCSVEmpty(t *testing.T) {
	txns, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"1234.56":     "1234.56",
		"1.234,56":    "1234.56",
		"1,234.56":    "1234.56",
		"€ 15.000,00": "15000",
		"-450":        "-450",
		"0,5":         "0.5",
		"EUR 12":      "12",
		"15.000":      "15000",
		"€ 15.000":    "15000",
		"-€ 2.500":    "-2500",
		"1.234.567":   "1234567",
		"1.234.567,5": "1234567.5",
		"1,234,567":   "1234567",
		"15.00":       "15",
		"1.5":         "1.5",
		"1234.567":    "1234.567",
	}
	for in, want := range tests {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assertAmount(t, want, got)
	}

	_, err := ParseAmount("")
	assert.Error(t, err)
	_, err = ParseAmount("1.23.4")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-02-05", "05-02-2024", "5-2-2024", "05/02/2024", "20240205"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Datum", "Omschrijving", "Bedrag", "Relatie", "Periode"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2023-12-20", "Software Licenties 2024", "12000", "TechSoft", "2024-YEAR"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	txns, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Software Licenties 2024", txns[0].Description)
	assertAmount(t, "12000", txns[0].Amount)
	assert.Equal(t, "2024-YEAR", txns[0].AllocatedPeriod)
	assert.Equal(t, "TechSoft", txns[0].Relation)
}

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>0123456789
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240215120000[0:GMT]
<TRNAMT>-3200.00
<FITID>2024021501
<NAME>LeasePlan
<MEMO>Leaseautos Februari
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20240328120000[0:GMT]
<TRNAMT>450.00
<FITID>2024032801
<NAME>Bank NL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseOFX(t *testing.T) {
	txns, err := ParseOFX(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	lease := txns[0]
	assert.Equal(t, "2024021501", lease.ID)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), lease.Date)
	assert.Equal(t, "Leaseautos Februari", lease.Description)
	assert.Equal(t, "LeasePlan", lease.Relation)
	assertAmount(t, "3200", lease.Amount)
	assert.Equal(t, model.DirectionDebit, lease.Direction)
	assert.Equal(t, "0123456789", lease.GLAccount)

	interest := txns[1]
	assert.Equal(t, model.DirectionCredit, interest.Direction)
	assert.Equal(t, "Bank NL", interest.Description)
}

func TestParseOFXInvalid(t *testing.T) {
	_, err := ParseOFX(strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func TestParsePasted(t *testing.T) {
	input := `# datum  omschrijving  bedrag
2024-01-01  Factuur 2024001  Huur Q1  15000

15-02-2024	Leaseautos Februari	-3.200,00
`
	txns, err := ParsePasted(input)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "Factuur 2024001 - Huur Q1", txns[0].Description)
	assertAmount(t, "15000", txns[0].Amount)
	assert.Equal(t, model.DirectionDebit, txns[0].Direction)

	assert.Equal(t, "Leaseautos Februari", txns[1].Description)
	assertAmount(t, "-3200", txns[1].Amount)
	assert.Equal(t, model.DirectionCredit, txns[1].Direction)

	_, err = ParsePasted("2024-01-01 only-two")
	assert.ErrorIs(t, err, common.ErrMalformedRow)
}

func TestDemoTransactions(t *testing.T) {
	txns := DemoTransactions()
	require.Len(t, txns, 6)

	for _, txn := range txns {
		assert.NoError(t, txn.Validate())
	}
	assert.Equal(t, "Huur Kantoor Q1 2024", txns[0].Description)
	assert.Equal(t, model.StatusApproved, txns[2].Status)
	assert.Equal(t, model.CategoryCorrection, txns[3].Category)
	assert.Equal(t, model.DirectionCredit, txns[4].Direction)

	txns[0].Description = "changed"
	assert.Equal(t, "Huur Kantoor Q1 2024", DemoTransactions()[0].Description)
}

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"export.CSV":              FormatCSV,
		"gs://bucket/ledger.xlsx": FormatXLSX,
		"bank.qfx":                FormatOFX,
	} {
		got, err := DetectFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DetectFormat("scan.pdf")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := ParseGCSURI("gs://ledgers/2024/q1.csv")
	require.NoError(t, err)
	assert.Equal(t, "ledgers", bucket)
	assert.Equal(t, "2024/q1.csv", object)

	for _, bad := range []string{"s3://x/y", "gs://bucket", "gs:///object"} {
		_, _, err := ParseGCSURI(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoaderLocalAndRemote(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,description,amount\n2024-01-01,Huur,100\n"), 0o600))

	var fetched string
	loader := NewLoader(func(_ context.Context, uri string) ([]byte, error) {
		fetched = uri
		return []byte("date,description,amount\n2024-02-01,Lease,200\n"), nil
	})

	local, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, "Huur", local[0].Description)

	remote, err := loader.Load(context.Background(), "gs://ledgers/feb.csv")
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, "gs://ledgers/feb.csv", fetched)

	failing := NewLoader(func(context.Context, string) ([]byte, error) { return nil, errors.New("denied") })
	_, err = failing.Load(context.Background(), "gs://ledgers/feb.csv")
	assert.Error(t, err)
}

func TestWatcherImportsDroppedFiles(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	w := NewWatcher(dir, 50*time.Millisecond, func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(path))
		return nil
	}, common.DiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte("date,description,amount\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 3*time.Second, 25*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ledger.csv"}, seen)
}
