package llm

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/store"
)

// NewProvider creates a Provider from configuration.
// The base provider is wrapped as caller → retry → metrics → logging → base.
// A nil eventRepo skips event recording and a nil reg skips metrics.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger, reg prometheus.Registerer) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	wrapped := WithLogging(base, cfg.Provider, eventRepo, logger)
	if reg != nil {
		wrapped = WithMetrics(wrapped, cfg.Provider, reg)
	}
	return WithRetry(wrapped, cfg.Retry), nil
}
