package store

import (
	"context"
	"fmt"

	"github.com/Veraticus/transitoria/internal/audit"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

// Approve marks a transaction as approved and records the decision.
func (s *Store) Approve(ctx context.Context, id, user string) (model.AuditLogEntry, error) {
	return s.decide(ctx, id, user, model.ActionApprove)
}

// Correct marks a transaction as requiring correction and records the decision.
func (s *Store) Correct(ctx context.Context, id, user string) (model.AuditLogEntry, error) {
	return s.decide(ctx, id, user, model.ActionCorrect)
}

// decide applies a review action. Deciding again on an already reviewed
// transaction is allowed and adds another entry. The status change and the
// audit entry are committed together or not at all.
func (s *Store) decide(ctx context.Context, id, user string, action model.AuditAction) (model.AuditLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.AuditLogEntry{}, fmt.Errorf("%w: %s", common.ErrTransactionNotFound, id)
	}

	updated := s.txns[i]
	previous := updated.Status
	updated.Status = action.Status()

	entry := s.log.NewEntry(id, action, user, audit.Details(action, s.language))

	if s.persist != nil {
		if err := s.persist.RecordDecision(ctx, updated, entry); err != nil {
			return model.AuditLogEntry{}, fmt.Errorf("failed to record decision: %w", err)
		}
	}

	s.txns[i] = updated
	s.log.Append(entry)

	s.logger.Info("Recorded review decision",
		"transaction_id", id,
		"action", action,
		"previous_status", previous,
		"user", user)

	return entry, nil
}

// SetComment stores the reviewer's comment on a transaction.
func (s *Store) SetComment(ctx context.Context, id, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrTransactionNotFound, id)
	}

	if s.persist != nil {
		if err := s.persist.UpdateComment(ctx, id, comment); err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
	}

	s.txns[i].ManagerComment = comment
	return nil
}

// Summary counts transactions per status and risk.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Corrected int `json:"corrected"`
	HighRisk  int `json:"highRisk"`
	Issues    int `json:"completenessIssues"`
}

// Summary returns the dashboard counters.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{Total: len(s.txns), Issues: len(s.completeness)}
	for _, t := range s.txns {
		switch t.Status {
		case model.StatusApproved:
			sum.Approved++
		case model.StatusCorrected:
			sum.Corrected++
		default:
			sum.Pending++
		}
		if t.RiskLevel == model.RiskHigh {
			sum.HighRisk++
		}
	}
	return sum
}
