package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// InsertTransactions appends transactions after the existing ones.
func (s *SQLiteStorage) InsertTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateTransactions(txns); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM transactions`).Scan(&next); err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}
		return insertTransactionsTx(ctx, tx, txns, next)
	})
}

// ReplaceTransactions swaps the whole transaction set and clears
// completeness issues. The audit log is left alone.
func (s *SQLiteStorage) ReplaceTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateTransactions(txns); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("failed to clear transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM completeness_issues`); err != nil {
			return fmt.Errorf("failed to clear completeness issues: %w", err)
		}
		return insertTransactionsTx(ctx, tx, txns, 0)
	})
}

func insertTransactionsTx(ctx context.Context, tx *sql.Tx, txns []model.Transaction, position int) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, position, date, description, relation, gl_account, project_code,
			amount, direction, allocated_period, category, risk_level,
			ai_analysis, status, manager_comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range txns {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			position+i,
			t.Date.Format(model.DateLayout),
			t.Description,
			t.Relation,
			t.GLAccount,
			t.ProjectCode,
			t.Amount.String(),
			string(t.Direction),
			t.AllocatedPeriod,
			string(t.Category),
			string(t.RiskLevel),
			t.AIAnalysis,
			string(t.Status),
			t.ManagerComment,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, t.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

// GetTransactions returns all transactions in import order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactionsTx(ctx, s.db)
}

func getTransactionsTx(ctx context.Context, q queryable) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, date, description, relation, gl_account, project_code,
		       amount, direction, allocated_period, category, risk_level,
		       ai_analysis, status, manager_comment
		FROM transactions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var (
			t                                      model.Transaction
			date, amount                           string
			direction, category, riskLevel, status string
		)
		if err := rows.Scan(
			&t.ID, &date, &t.Description, &t.Relation, &t.GLAccount, &t.ProjectCode,
			&amount, &direction, &t.AllocatedPeriod, &category, &riskLevel,
			&t.AIAnalysis, &status, &t.ManagerComment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if t.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid date %q: %w", t.ID, date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", t.ID, amount, err)
		}
		t.Direction = model.Direction(direction)
		t.Category = model.Category(category)
		t.RiskLevel = model.RiskLevel(riskLevel)
		t.Status = model.Status(status)

		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// UpdateComment stores the reviewer comment of one transaction.
func (s *SQLiteStorage) UpdateComment(ctx context.Context, id, comment string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE transactions SET manager_comment = ? WHERE id = ?`, comment, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", common.ErrTransactionNotFound, id)
	}
	return nil
}
