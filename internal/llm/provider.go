package llm

import (
	"context"
	"fmt"

	"ai-diet-planner/internal/config"
)

// NewGenerator builds the generator selected by cfg.LLMProvider.
// The result may also implement Closer.
func NewGenerator(ctx context.Context, cfg *config.Config) (StructuredGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	case config.ProviderGemini, "":
		client, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
