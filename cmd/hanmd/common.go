package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/oukeidos/hanmd/internal/auth"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/metadata"
	"github.com/oukeidos/hanmd/internal/pipeline"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
)

// resolveAPIKey handles the logic for finding the API key.
func resolveAPIKey(service string, allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		allowEnv = true
	}
	if envOnly {
		if key, ok := getEnvKey(service); ok {
			return key, "Environment Variable", nil
		}
		return "", "", fmt.Errorf("env-only set but %s_API_KEY is not set", strings.ToUpper(service))
	}

	if key, source := getKey(service, false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(service); ok {
			return key, "Environment Variable", nil
		}
	}

	if isTerminal(int(os.Stdin.Fd())) {
		svcName := "Gemini"
		if service == pipeline.ProviderOpenAI {
			svcName = "OpenAI"
		}
		key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", svcName))
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "Terminal Prompt", nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no API key available (non-interactive shell); set keychain or use --allow-env")
	}
	if allowEnv {
		return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
}

// defaultModel returns the model used when none is configured.
func defaultModel(provider string) string {
	if provider == pipeline.ProviderOpenAI {
		return "gpt-5.2"
	}
	return "gemini-3-flash-preview"
}

// validateMarkdownPath rejects paths that do not look like Markdown documents.
func validateMarkdownPath(path, role string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	}
	return fmt.Errorf("%s file %s must have a .md or .markdown extension", role, path)
}

func printUsageStats(usage llm.Usage, duration time.Duration, provider, model string) {
	fmt.Println("\n--- Execution Stats ---")
	fmt.Printf("Time: %s\n", duration)
	fmt.Printf("Model: %s\n", model)
	if usage.TotalTokens > 0 {
		fmt.Printf("Tokens: In=%d, Out=%d, Total=%d\n",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
		fmt.Printf("Estimated Cost: $%.5f\n", metadata.EstimateCost(provider, model, usage))
	}
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
