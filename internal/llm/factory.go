package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/transitoria/internal/common"
)

// NewClient creates a provider client. An empty provider selects Gemini.
// A missing API key yields common.ErrClassificationUnavailable so callers can
// report the analysis as unavailable instead of failing startup.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w: no API key for %s", common.ErrClassificationUnavailable, common.ErrMissingConfig, providerName(cfg))
	}

	switch providerName(cfg) {
	case ProviderGemini:
		return newGeminiClient(ctx, cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

func providerName(cfg Config) string {
	p := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if p == "" {
		return ProviderGemini
	}
	return p
}
