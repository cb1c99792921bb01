package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/transitoria/internal/classify"
	"github.com/Veraticus/transitoria/internal/model"
)

// MockAnalyzer is a deterministic Analyzer for tests. It suggests periods and
// categories from keywords in the description.
type MockAnalyzer struct {
	// AnalyzeFunc replaces the keyword rules when set.
	AnalyzeFunc func(ctx context.Context, txns []model.Transaction) (classify.Result, error)
	calls       [][]model.Transaction
	mu          sync.Mutex
}

// NewMockAnalyzer creates a mock analyzer.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze implements Analyzer.
func (m *MockAnalyzer) Analyze(ctx context.Context, txns []model.Transaction) (classify.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]model.Transaction(nil), txns...))
	fn := m.AnalyzeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, txns)
	}

	var r classify.Result
	for _, t := range txns {
		r.Suggestions = append(r.Suggestions, suggest(t))
	}
	return r, nil
}

// Calls returns the snapshots the analyzer was called with.
func (m *MockAnalyzer) Calls() [][]model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Transaction(nil), m.calls...)
}

func suggest(t model.Transaction) classify.Suggestion {
	desc := strings.ToLower(t.Description)
	year := t.Date.Format("2006")
	s := classify.Suggestion{ID: t.ID, Risk: "LOW", Period: t.BookedMonth(), Category: "Regulier", Analysis: "Reguliere kosten"}

	switch {
	case strings.Contains(desc, "q1"):
		s.Period, s.Category, s.Analysis = year+"-Q1", "Vooruitbetaalde kosten", "Kwartaal vooruitbetaald"
	case strings.Contains(desc, "jaar") || strings.Contains(desc, "licentie"):
		s.Period, s.Category, s.Analysis = year+"-YEAR", "Vooruitbetaalde kosten", "Jaarkosten vooruitbetaald"
	case strings.Contains(desc, "nabetaling"):
		s.Risk, s.Category, s.Analysis = "HIGH", "Correctie", "Kosten vorig boekjaar"
	}
	return s
}
