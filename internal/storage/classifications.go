package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/transitoria/internal/model"
)

// SaveClassification stores the model-owned fields of the updated
// transactions, appends them to the classification history and replaces
// the completeness issues.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, updated []model.Transaction, completeness []model.CompletenessIssue) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range updated {
			result, err := tx.ExecContext(ctx, `
				UPDATE transactions
				SET ai_analysis = ?, risk_level = ?, allocated_period = ?, category = ?
				WHERE id = ?
			`, t.AIAnalysis, string(t.RiskLevel), t.AllocatedPeriod, string(t.Category), t.ID)
			if err != nil {
				return fmt.Errorf("failed to update classification of %s: %w", t.ID, err)
			}
			if err := expectOneRow(result, t.ID); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO classification_history (
					transaction_id, allocated_period, category, risk_level, ai_analysis
				) VALUES (?, ?, ?, ?, ?)
			`, t.ID, t.AllocatedPeriod, string(t.Category), string(t.RiskLevel), t.AIAnalysis); err != nil {
				return fmt.Errorf("failed to record classification history: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM completeness_issues`); err != nil {
			return fmt.Errorf("failed to clear completeness issues: %w", err)
		}
		for i, issue := range completeness {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO completeness_issues (position, description, expected_period, confidence)
				VALUES (?, ?, ?, ?)
			`, i, issue.Description, issue.ExpectedPeriod, issue.Confidence); err != nil {
				return fmt.Errorf("failed to insert completeness issue: %w", err)
			}
		}
		return nil
	})
}

// ClassificationHistoryCount returns how many classifications were recorded for a transaction.
func (s *SQLiteStorage) ClassificationHistoryCount(ctx context.Context, transactionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM classification_history WHERE transaction_id = ?`, transactionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count classification history: %w", err)
	}
	return n, nil
}

func getCompletenessTx(ctx context.Context, q queryable) ([]model.CompletenessIssue, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT description, expected_period, confidence
		FROM completeness_issues
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completeness issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []model.CompletenessIssue
	for rows.Next() {
		var issue model.CompletenessIssue
		if err := rows.Scan(&issue.Description, &issue.ExpectedPeriod, &issue.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan completeness issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completeness issues: %w", err)
	}
	return issues, nil
}
