package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with retry and,
// when a sink is given, request audit logging.
// Middleware order: caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, sink RequestSink) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	wrapped := base
	if sink != nil {
		wrapped = WithLogging(wrapped, sink)
	}
	return WithRetry(wrapped, cfg.Retry), nil
}
