package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/transitoria/internal/classify"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

// Analyzer classifies a whole ledger in one model call.
type Analyzer struct {
	client    Client
	cache     *resultCache
	spacer    *callSpacer
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// NewAnalyzer wraps client with caching, rate limiting and retries.
func NewAnalyzer(client Client, cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		Logger:       logger,
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Analyzer{
		client:    client,
		cache:     newResultCache(cfg.CacheTTL),
		spacer:    newCallSpacer(cfg.RateLimit),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Analyze asks the model for period, category, risk and a short analysis per
// transaction plus a list of missing recurring costs. Every failure wraps
// common.ErrClassificationUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, txns []model.Transaction) (classify.Result, error) {
	if len(txns) == 0 {
		return classify.Result{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, common.ErrNoTransactions)
	}

	prompt := BuildPrompt(txns)
	key := promptKey(prompt)
	if result, ok := a.cache.get(key); ok {
		a.logger.Debug("Analysis cache hit", "transactions", len(txns))
		return result, nil
	}

	var raw string
	err := common.WithRetry(ctx, func() error {
		if err := a.spacer.wait(ctx); err != nil {
			return &common.RetryableError{Err: err}
		}
		var err error
		raw, err = a.client.Complete(ctx, prompt)
		return err
	}, a.retryOpts)
	if err != nil {
		a.logger.Warn("Analysis request failed", "error", err)
		return classify.Result{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	result, err := ParseResponse(raw)
	if err != nil {
		a.logger.Warn("Analysis response rejected", "error", err)
		return classify.Result{}, err
	}

	a.cache.set(key, result)
	a.logger.Info("Analysis received",
		"transactions", len(txns),
		"suggestions", len(result.Suggestions),
		"completeness_issues", len(result.Completeness))
	return result, nil
}

// Close stops the cache janitor.
func (a *Analyzer) Close() {
	a.cache.Close()
}
