package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testConfig() Config {
	return Config{MaxRetries: 3, RetryDelay: time.Millisecond, RateLimit: 6000}
}

func ledger() []model.Transaction {
	return []model.Transaction{
		model.NewPending("1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Huur Kantoor Q1 2024", decimal.NewFromInt(15000), model.DirectionDebit),
	}
}

func TestAnalyzerAnalyze(t *testing.T) {
	client := &mockClient{}
	client.On("Complete", mock.Anything, mock.AnythingOfType("string")).
		Return(sampleResponse, nil).Once()

	a := NewAnalyzer(client, testConfig(), common.DiscardLogger())
	defer a.Close()

	result, err := a.Analyze(context.Background(), ledger())
	require.NoError(t, err)
	assert.Len(t, result.Suggestions, 2)

	// the second call for the same ledger is served from the cache
	again, err := a.Analyze(context.Background(), ledger())
	require.NoError(t, err)
	assert.Equal(t, result, again)
	client.AssertExpectations(t)
}

func TestAnalyzerRetriesTransientErrors(t *testing.T) {
	client := &mockClient{}
	client.On("Complete", mock.Anything, mock.Anything).
		Return("", &common.RetryableError{Err: errors.New("503"), Retryable: true}).Once()
	client.On("Complete", mock.Anything, mock.Anything).
		Return(sampleResponse, nil).Once()

	a := NewAnalyzer(client, testConfig(), common.DiscardLogger())
	defer a.Close()

	_, err := a.Analyze(context.Background(), ledger())
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestAnalyzerUnavailable(t *testing.T) {
	t.Run("permanent provider error", func(t *testing.T) {
		client := &mockClient{}
		client.On("Complete", mock.Anything, mock.Anything).
			Return("", &common.RetryableError{Err: errors.New("401")}).Once()

		a := NewAnalyzer(client, testConfig(), common.DiscardLogger())
		defer a.Close()

		_, err := a.Analyze(context.Background(), ledger())
		assert.ErrorIs(t, err, common.ErrClassificationUnavailable)
		client.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("malformed response", func(t *testing.T) {
		client := &mockClient{}
		client.On("Complete", mock.Anything, mock.Anything).Return("sorry, geen idee", nil).Once()

		a := NewAnalyzer(client, testConfig(), common.DiscardLogger())
		defer a.Close()

		_, err := a.Analyze(context.Background(), ledger())
		assert.ErrorIs(t, err, common.ErrClassificationUnavailable)
		assert.Zero(t, a.cache.size())
	})

	t.Run("empty ledger", func(t *testing.T) {
		a := NewAnalyzer(&mockClient{}, testConfig(), common.DiscardLogger())
		defer a.Close()

		_, err := a.Analyze(context.Background(), nil)
		assert.ErrorIs(t, err, common.ErrClassificationUnavailable)
		assert.ErrorIs(t, err, common.ErrNoTransactions)
	})

	t.Run("canceled context", func(t *testing.T) {
		client := &mockClient{}
		client.On("Complete", mock.Anything, mock.Anything).Return("", context.Canceled).Maybe()

		a := NewAnalyzer(client, testConfig(), common.DiscardLogger())
		defer a.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := a.Analyze(ctx, ledger())
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, common.ErrClassificationUnavailable)
	})
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "openai"})
	assert.ErrorIs(t, err, common.ErrClassificationUnavailable)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewClient(context.Background(), Config{})
	assert.ErrorIs(t, err, common.ErrClassificationUnavailable)

	_, err = NewClient(context.Background(), Config{Provider: "llama", APIKey: "k"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	client, err := NewClient(context.Background(), Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &anthropicClient{}, client)

	client, err = NewClient(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &geminiClient{}, client)
}
