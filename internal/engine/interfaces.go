package engine

import (
	"context"

	"github.com/Veraticus/transitoria/internal/classify"
	"github.com/Veraticus/transitoria/internal/model"
)

// Analyzer produces model suggestions for a ledger snapshot.
type Analyzer interface {
	Analyze(ctx context.Context, txns []model.Transaction) (classify.Result, error)
}
