// Package llm defines the model-invocation contract consumed by the core.
// Providers live in internal/gemini and internal/openai.
package llm

import "context"

// Invoker issues one blocking model call. Implementations classify
// failures via internal/apperrors; the caller applies per-call fallback
// policy and never lets a single failed call abort a document.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Usage holds accumulated token usage across all calls in a run.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Add accumulates another call's usage.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// UsageReporter is implemented by providers that track token usage.
type UsageReporter interface {
	Usage() Usage
}
