package pipeline

import (
	"context"
	"fmt"

	"github.com/oukeidos/hanmd/internal/gemini"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/openai"
)

// newInvoker constructs the model client for the resolved provider. The
// returned closer releases provider resources; it is a no-op for providers
// without a persistent connection.
func newInvoker(ctx context.Context, cfg Config) (llm.Invoker, func() error, error) {
	if cfg.Client != nil {
		return cfg.Client, func() error { return nil }, nil
	}

	switch ResolveProvider(cfg.Provider, cfg.Model) {
	case ProviderOpenAI:
		return openai.NewClient(cfg.APIKey, cfg.Model), func() error { return nil }, nil
	case ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// usageOf reads accumulated token usage when the client tracks it.
func usageOf(inv llm.Invoker) llm.Usage {
	if reporter, ok := inv.(llm.UsageReporter); ok {
		return reporter.Usage()
	}
	return llm.Usage{}
}
