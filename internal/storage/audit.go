package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/transitoria/internal/model"
)

// RecordDecision writes the new status and the audit entry in one transaction.
func (s *SQLiteStorage) RecordDecision(ctx context.Context, txn model.Transaction, entry model.AuditLogEntry) error {
	if err := validateAuditEntry(entry); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE transactions SET status = ? WHERE id = ?`, string(txn.Status), txn.ID)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if err := expectOneRow(result, txn.ID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_log (id, timestamp, transaction_id, action, user, details)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			entry.ID,
			entry.Timestamp.UTC().Format(time.RFC3339Nano),
			entry.TransactionID,
			string(entry.Action),
			entry.User,
			entry.Details,
		)
		if err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
}

// GetAuditLog returns every entry in insertion order.
func (s *SQLiteStorage) GetAuditLog(ctx context.Context) ([]model.AuditLogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAuditLogTx(ctx, s.db)
}

func getAuditLogTx(ctx context.Context, q queryable) ([]model.AuditLogEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, timestamp, transaction_id, action, user, details
		FROM audit_log
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditLogEntry
	for rows.Next() {
		var (
			e          model.AuditLogEntry
			ts, action string
		)
		if err := rows.Scan(&e.ID, &ts, &e.TransactionID, &action, &e.User, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("audit entry %s has invalid timestamp %q: %w", e.ID, ts, err)
		}
		e.Action = model.AuditAction(action)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}
	return entries, nil
}
