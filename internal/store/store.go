// Package store owns the canonical transaction list, the completeness
// issues of the last analysis run and the audit log.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/transitoria/internal/audit"
	"github.com/Veraticus/transitoria/internal/classify"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

// ErrStaleSnapshot is returned when a classification result was computed
// for a transaction set that has since been replaced or extended.
var ErrStaleSnapshot = errors.New("analysis snapshot is stale")

// State is everything the store keeps, as loaded from or saved to a Persister.
type State struct {
	Transactions []model.Transaction
	Completeness []model.CompletenessIssue
	Audit        []model.AuditLogEntry
}

// Persister writes store mutations through to durable storage. Every method
// must be all-or-nothing; the store only changes memory after it returns nil.
type Persister interface {
	LoadState(ctx context.Context) (State, error)
	InsertTransactions(ctx context.Context, txns []model.Transaction) error
	ReplaceTransactions(ctx context.Context, txns []model.Transaction) error
	SaveClassification(ctx context.Context, updated []model.Transaction, completeness []model.CompletenessIssue) error
	RecordDecision(ctx context.Context, txn model.Transaction, entry model.AuditLogEntry) error
	UpdateComment(ctx context.Context, id, comment string) error
}

// Snapshot is a consistent copy of the transaction list.
type Snapshot struct {
	Transactions []model.Transaction
	Generation   uint64
}

// Store serializes all mutations behind one lock.
type Store struct {
	persist      Persister
	logger       *slog.Logger
	log          *audit.Log
	index        map[string]int
	language     string
	txns         []model.Transaction
	completeness []model.CompletenessIssue
	generation   uint64
	mu           sync.RWMutex
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	persist  Persister
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	language string
}

// WithPersister writes every mutation through p.
func WithPersister(p Persister) Option {
	return func(c *storeConfig) { c.persist = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *storeConfig) { c.logger = l }
}

// WithClock sets the audit clock.
func WithClock(now func() time.Time) Option {
	return func(c *storeConfig) { c.now = now }
}

// WithIDGenerator sets the audit entry id source.
func WithIDGenerator(newID func() string) Option {
	return func(c *storeConfig) { c.newID = newID }
}

// WithLanguage selects the language of audit details (nl or en).
func WithLanguage(lang string) Option {
	return func(c *storeConfig) { c.language = lang }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	cfg := storeConfig{language: "nl", logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var logOpts []audit.Option
	if cfg.now != nil {
		logOpts = append(logOpts, audit.WithClock(cfg.now))
	}
	if cfg.newID != nil {
		logOpts = append(logOpts, audit.WithIDGenerator(cfg.newID))
	}

	return &Store{
		persist:  cfg.persist,
		logger:   cfg.logger,
		language: cfg.language,
		log:      audit.NewLog(logOpts...),
		index:    make(map[string]int),
	}
}

// Load replaces the in-memory state with what the persister holds.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	state, err := s.persist.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setTransactions(state.Transactions)
	s.completeness = state.Completeness
	s.log.Restore(state.Audit)
	s.generation++

	s.logger.Debug("Loaded store state",
		"transactions", len(s.txns),
		"audit_entries", s.log.Len())
	return nil
}

// Import appends transactions. The whole batch is rejected if any record is
// invalid or reuses an id.
func (s *Store) Import(ctx context.Context, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBatch(txns, true); err != nil {
		return err
	}
	if len(txns) == 0 {
		return nil
	}

	if s.persist != nil {
		if err := s.persist.InsertTransactions(ctx, txns); err != nil {
			return fmt.Errorf("failed to persist import: %w", err)
		}
	}

	for _, t := range txns {
		s.index[t.ID] = len(s.txns)
		s.txns = append(s.txns, t)
	}
	s.generation++

	s.logger.Info("Imported transactions", "count", len(txns), "total", len(s.txns))
	return nil
}

// Replace swaps the whole transaction list, as the demo loader does.
// Completeness issues are cleared; the audit log is kept.
func (s *Store) Replace(ctx context.Context, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBatch(txns, false); err != nil {
		return err
	}

	if s.persist != nil {
		if err := s.persist.ReplaceTransactions(ctx, txns); err != nil {
			return fmt.Errorf("failed to persist replacement: %w", err)
		}
	}

	s.setTransactions(txns)
	s.completeness = nil
	s.generation++

	s.logger.Info("Replaced transactions", "count", len(txns))
	return nil
}

func (s *Store) checkBatch(txns []model.Transaction, againstExisting bool) error {
	seen := make(map[string]bool, len(txns))
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrMalformedRow, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: transaction id %s appears twice", common.ErrDuplicateEntry, t.ID)
		}
		if _, exists := s.index[t.ID]; againstExisting && exists {
			return fmt.Errorf("%w: transaction id %s already imported", common.ErrDuplicateEntry, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (s *Store) setTransactions(txns []model.Transaction) {
	s.txns = make([]model.Transaction, len(txns))
	copy(s.txns, txns)
	s.index = make(map[string]int, len(txns))
	for i, t := range s.txns {
		s.index[t.ID] = i
	}
}

// Snapshot copies the current transaction list with its generation.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Transactions: s.copyTransactions(), Generation: s.generation}
}

// Transactions returns a copy of all transactions in import order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyTransactions()
}

func (s *Store) copyTransactions() []model.Transaction {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Get returns one transaction.
func (s *Store) Get(id string) (model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %s", common.ErrTransactionNotFound, id)
	}
	return s.txns[i], nil
}

// Generation increases whenever the transaction set is imported or replaced.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ApplyClassification merges r into the current list. It fails with
// ErrStaleSnapshot if the set changed since generation was read, and leaves
// everything untouched on any error.
func (s *Store) ApplyClassification(ctx context.Context, generation uint64, r classify.Result) (classify.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return classify.Outcome{}, fmt.Errorf("%w: generation %d, current %d", ErrStaleSnapshot, generation, s.generation)
	}

	out := classify.Merge(s.txns, r)

	if s.persist != nil {
		if err := s.persist.SaveClassification(ctx, out.UpdatedTransactions(), out.Completeness); err != nil {
			return classify.Outcome{}, fmt.Errorf("failed to persist classification: %w", err)
		}
	}

	s.txns = out.Transactions
	s.completeness = out.Completeness

	for _, f := range out.Fallbacks {
		s.logger.Warn("Ignored suggested value",
			"transaction_id", f.TransactionID,
			"field", f.Field,
			"value", f.Value)
	}
	if len(out.Unmatched) > 0 {
		s.logger.Warn("Suggestions for unknown transactions", "ids", out.Unmatched)
	}

	return out, nil
}

// CompletenessIssues returns the issues of the last analysis run.
func (s *Store) CompletenessIssues() []model.CompletenessIssue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CompletenessIssue, len(s.completeness))
	copy(out, s.completeness)
	return out
}

// AuditLog returns the entries newest first.
func (s *Store) AuditLog() []model.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Newest()
}
