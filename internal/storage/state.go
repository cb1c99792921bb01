package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/transitoria/internal/store"
)

// LoadState reads transactions, completeness issues and the audit log in
// one read transaction.
func (s *SQLiteStorage) LoadState(ctx context.Context) (store.State, error) {
	var state store.State
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if state.Transactions, err = getTransactionsTx(ctx, tx); err != nil {
			return err
		}
		if state.Completeness, err = getCompletenessTx(ctx, tx); err != nil {
			return err
		}
		if state.Audit, err = getAuditLogTx(ctx, tx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return store.State{}, fmt.Errorf("failed to load state: %w", err)
	}
	return state, nil
}

var _ store.Persister = (*SQLiteStorage)(nil)
