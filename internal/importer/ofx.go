package importer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of bare tags
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseOFX reads bank and credit card statements from an OFX/QFX file.
// Outgoing payments become debit lines and incoming ones credit lines; the
// amount is stored without sign.
func ParseOFX(r io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var txns []model.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, tx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFX(tx, string(stmt.BankAcctFrom.AcctID)))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, tx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFX(tx, string(stmt.CCAcctFrom.AcctID)))
		}
	}

	slog.Info("Parsed OFX file", "transactions", len(txns))
	return txns, nil
}

func convertOFX(tx ofxgo.Transaction, accountID string) model.Transaction {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		amount = decimal.Zero
	}

	direction := model.DirectionCredit
	if amount.IsNegative() {
		direction = model.DirectionDebit
	}

	posted := tx.DtPosted.Time.UTC()
	date := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)

	t := model.NewPending(string(tx.FiTID), date, ofxDescription(tx), amount.Abs(), direction)
	t.Relation = ofxRelation(tx)
	t.GLAccount = accountID
	return t
}

func ofxDescription(tx ofxgo.Transaction) string {
	if tx.Memo != "" {
		return strings.TrimSpace(string(tx.Memo))
	}
	return strings.TrimSpace(string(tx.Name))
}

func ofxRelation(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	return strings.TrimSpace(string(tx.Name))
}
