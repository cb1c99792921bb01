package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/llm"
	"github.com/Veraticus/transitoria/internal/store"
)

// loadLLMConfig reads the llm section. API keys fall back to the provider's
// usual environment variable.
func loadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		Timeout:     viper.GetDuration("llm.timeout"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}
	if cfg.Provider == "" {
		cfg.Provider = llm.ProviderGemini
	}

	switch cfg.Provider {
	case llm.ProviderGemini:
		cfg.APIKey = firstNonEmpty(viper.GetString("llm.gemini_api_key"), os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	case llm.ProviderOpenAI:
		cfg.APIKey = firstNonEmpty(viper.GetString("llm.openai_api_key"), os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		cfg.APIKey = firstNonEmpty(viper.GetString("llm.anthropic_api_key"), os.Getenv("ANTHROPIC_API_KEY"))
	}
	return cfg
}

// newEngine wires the configured model into an analysis engine. Without a
// usable model the engine still runs and reports every analysis as
// unavailable; the returned cleanup must always be called.
func newEngine(ctx context.Context, st *store.Store) (*engine.Engine, func(), error) {
	cfg := loadLLMConfig()

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		if errors.Is(err, common.ErrClassificationUnavailable) {
			slog.Warn("AI analysis unavailable", "provider", cfg.Provider, "error", err)
			return engine.New(st, nil, engine.WithLogger(slog.Default())), func() {}, nil
		}
		return nil, nil, err
	}

	analyzer := llm.NewAnalyzer(client, cfg, slog.Default())
	eng := engine.New(st, analyzer, engine.WithLogger(slog.Default()))
	return eng, func() {
		eng.Stop()
		analyzer.Close()
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
