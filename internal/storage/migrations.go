package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					relation TEXT NOT NULL DEFAULT '',
					gl_account TEXT NOT NULL DEFAULT '',
					project_code TEXT NOT NULL DEFAULT '',
					amount TEXT NOT NULL,
					direction TEXT NOT NULL,
					allocated_period TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT 'UNKNOWN',
					risk_level TEXT NOT NULL DEFAULT 'LOW',
					ai_analysis TEXT NOT NULL DEFAULT '',
					status TEXT NOT NULL DEFAULT 'PENDING',
					manager_comment TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_position ON transactions(position)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,

				`CREATE TABLE IF NOT EXISTS audit_log (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT UNIQUE NOT NULL,
					timestamp TEXT NOT NULL,
					transaction_id TEXT NOT NULL,
					action TEXT NOT NULL,
					user TEXT NOT NULL,
					details TEXT NOT NULL
				)`,
				`CREATE INDEX idx_audit_log_transaction ON audit_log(transaction_id)`,
				`CREATE TRIGGER audit_log_no_update BEFORE UPDATE ON audit_log
				BEGIN
					SELECT RAISE(ABORT, 'audit_log is append-only');
				END`,
				`CREATE TRIGGER audit_log_no_delete BEFORE DELETE ON audit_log
				BEGIN
					SELECT RAISE(ABORT, 'audit_log is append-only');
				END`,

				`CREATE TABLE IF NOT EXISTS completeness_issues (
					position INTEGER NOT NULL,
					description TEXT NOT NULL,
					expected_period TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add classification history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS classification_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					transaction_id TEXT NOT NULL,
					allocated_period TEXT NOT NULL,
					category TEXT NOT NULL,
					risk_level TEXT NOT NULL,
					ai_analysis TEXT NOT NULL,
					classified_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_classification_history_transaction ON classification_history(transaction_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion returns the version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
