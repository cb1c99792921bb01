// Package engine runs AI analysis over the transaction store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/store"
)

// RunStatus is the state of an analysis run.
type RunStatus string

// Run states.
const (
	RunIdle        RunStatus = "IDLE"
	RunRunning     RunStatus = "RUNNING"
	RunApplied     RunStatus = "APPLIED"
	RunUnavailable RunStatus = "UNAVAILABLE"
	RunStale       RunStatus = "STALE"
	RunCanceled    RunStatus = "CANCELED"
)

// Report describes the outcome of one analysis run.
type Report struct {
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Status       RunStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	Unmatched    []string  `json:"unmatched,omitempty"`
	Generation   uint64    `json:"generation"`
	Transactions int       `json:"transactions"`
	Updated      int       `json:"updated"`
	Fallbacks    int       `json:"fallbacks"`
	Completeness int       `json:"completenessIssues"`
}

// Engine runs analyses one at a time. Starting a run cancels the previous
// one; a response that arrives after the store's transaction set changed is
// discarded.
type Engine struct {
	store    *store.Store
	analyzer Analyzer
	logger   *slog.Logger
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	last     Report
	runID    uint64
	mu       sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. A nil analyzer makes every run report RunUnavailable.
func New(st *store.Store, analyzer Analyzer, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		analyzer: analyzer,
		logger:   slog.Default(),
		now:      time.Now,
		last:     Report{Status: RunIdle},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs an analysis and waits for its report.
func (e *Engine) Analyze(ctx context.Context) Report {
	return <-e.start(ctx)
}

// Start runs an analysis in the background, canceling any run in flight.
func (e *Engine) Start(ctx context.Context) {
	e.start(ctx)
}

// Status returns the report of the latest run, or RunRunning while it is in
// flight.
func (e *Engine) Status() Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Wait blocks until the current run has finished and returns its report.
func (e *Engine) Wait() Report {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
	return e.Status()
}

// Stop cancels the run in flight, if any.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) start(ctx context.Context) <-chan Report {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.runID++
	id := e.runID
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	// The run analyzes the ledger as it is now; an import after this point
	// makes the response stale.
	snap := e.store.Snapshot()
	e.last = Report{
		Status:       RunRunning,
		StartedAt:    e.now(),
		Generation:   snap.Generation,
		Transactions: len(snap.Transactions),
	}
	e.mu.Unlock()

	out := make(chan Report, 1)
	go func() {
		defer close(done)
		defer cancel()

		report := e.run(runCtx, snap)

		e.mu.Lock()
		if e.runID == id {
			e.last = report
			e.cancel = nil
		}
		e.mu.Unlock()

		out <- report
	}()
	return out
}

func (e *Engine) run(ctx context.Context, snap store.Snapshot) (report Report) {
	report = Report{
		StartedAt:    e.now(),
		Generation:   snap.Generation,
		Transactions: len(snap.Transactions),
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Analysis run panicked", "panic", r)
			report.Status = RunUnavailable
			report.Error = fmt.Sprintf("%v: analysis panicked: %v", common.ErrClassificationUnavailable, r)
		}
		report.FinishedAt = e.now()
	}()

	if e.analyzer == nil {
		report.Status = RunUnavailable
		report.Error = fmt.Errorf("%w: no analyzer configured", common.ErrClassificationUnavailable).Error()
		return report
	}

	e.logger.Info("Starting analysis", "transactions", len(snap.Transactions), "generation", snap.Generation)

	result, err := e.analyzer.Analyze(ctx, snap.Transactions)
	if ctx.Err() != nil {
		report.Status = RunCanceled
		report.Error = ctx.Err().Error()
		return report
	}
	if err != nil {
		e.logger.Warn("Analysis unavailable", "error", err)
		report.Status = RunUnavailable
		report.Error = err.Error()
		return report
	}

	out, err := e.store.ApplyClassification(ctx, snap.Generation, result)
	switch {
	case errors.Is(err, store.ErrStaleSnapshot):
		e.logger.Info("Discarding analysis of an outdated transaction set", "generation", snap.Generation)
		report.Status = RunStale
		report.Error = err.Error()
		return report
	case err != nil:
		e.logger.Error("Failed to apply analysis", "error", err)
		report.Status = RunUnavailable
		report.Error = err.Error()
		return report
	}

	report.Status = RunApplied
	report.Updated = out.Updated
	report.Unmatched = out.Unmatched
	report.Fallbacks = len(out.Fallbacks)
	report.Completeness = len(out.Completeness)

	e.logger.Info("Analysis applied",
		"updated", out.Updated,
		"unmatched", len(out.Unmatched),
		"completeness_issues", len(out.Completeness))
	return report
}
