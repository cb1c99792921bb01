package llm

import (
	"context"
	"time"
)

// Client sends a single prompt to a model and returns its raw text answer.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures the provider and the analyzer around it.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)
