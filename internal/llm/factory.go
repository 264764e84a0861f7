package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/musiclab/internal/store"
)

// NewProvider builds the configured vendor and stacks retry over event
// logging over it. A nil events repo disables logging.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	vendor, err := newVendor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = vendor
	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	return WithRetry(p, cfg.Retry), nil
}

func newVendor(ctx context.Context, cfg Config) (*Adapter, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
