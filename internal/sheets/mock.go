package sheets

import (
	"context"
	"sync"
)

// MockWriter is a ReportWriter for tests.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, report Report) error
	LastReport *Report
	WriteCalls int
	mu         sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the report and calls WriteFunc when set.
func (m *MockWriter) Write(ctx context.Context, report Report) error {
	m.mu.Lock()
	m.WriteCalls++
	m.LastReport = &report
	fn := m.WriteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, report)
	}
	return nil
}

// SetWriteError makes every following Write return err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteFunc = func(context.Context, Report) error { return err }
}

// Calls returns the number of Write calls.
func (m *MockWriter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WriteCalls
}
