package pipeline

import (
	"fmt"
	"strings"

	"github.com/oukeidos/hanmd/internal/config"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/translator"
)

// Providers.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration required for running a translation session.
type Config struct {
	// IO Paths
	InputPath  string
	OutputPath string
	LogPath    string // Optional: JSONL log file

	// API Configuration
	Provider string // gemini, openai, or auto (resolved from the model name)
	Model    string
	APIKey   string

	// Processing Parameters
	MaxTokens    int
	GlossaryPath string

	// Flags
	Overwrite bool // If true, overwrite output file without asking

	// Client overrides provider construction. Used by validation-only runs
	// and tests; when set, Provider/APIKey are not consulted.
	Client llm.Invoker

	// Callbacks
	// OnProgress is called with per-chunk translation progress updates.
	OnProgress func(translator.Progress)

	// OnConfirmOverwrite is called when the output file exists.
	// It should return true if the file should be overwritten.
	OnConfirmOverwrite func(path string) bool
}

const (
	MinMaxTokens = 50
	MaxMaxTokens = 32000
)

// ResolveProvider maps the auto provider to a concrete one based on the
// model name.
func ResolveProvider(provider, model string) string {
	if provider != ProviderAuto && provider != "" {
		return provider
	}
	if strings.HasPrefix(strings.ToLower(model), "gpt") {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// Normalize applies safe bounds to config values and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.MaxTokens <= 0 {
		notes = append(notes, fmt.Sprintf("max-tokens defaulted from %d to %d", c.MaxTokens, config.DefaultMaxTokens))
		c.MaxTokens = config.DefaultMaxTokens
	}
	if c.MaxTokens < MinMaxTokens {
		notes = append(notes, fmt.Sprintf("max-tokens raised from %d to %d (min %d)", c.MaxTokens, MinMaxTokens, MinMaxTokens))
		c.MaxTokens = MinMaxTokens
	}
	if c.MaxTokens > MaxMaxTokens {
		notes = append(notes, fmt.Sprintf("max-tokens clamped from %d to %d (max %d)", c.MaxTokens, MaxMaxTokens, MaxMaxTokens))
		c.MaxTokens = MaxMaxTokens
	}
	return c, notes
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be greater than 0, got %d", c.MaxTokens)
	}
	switch c.Provider {
	case "", ProviderAuto, ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.Client == nil {
		if c.Model == "" {
			return fmt.Errorf("model name is required")
		}
		if c.APIKey == "" {
			return fmt.Errorf("API key is required")
		}
	}
	return nil
}
