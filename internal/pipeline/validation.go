package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/markdown"
	"github.com/oukeidos/hanmd/internal/summary"
)

// RunValidation compares an existing original/translated file pair without
// translating anything: both files are summarized and the summaries diffed
// for completeness.
func RunValidation(ctx context.Context, cfg Config, originalPath, translatedPath string) (ValidationResult, error) {
	if err := cfg.Validate(); err != nil {
		return ValidationResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	original, err := os.ReadFile(originalPath)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to read original file: %w", err)
	}
	translated, err := os.ReadFile(translatedPath)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to read translated file: %w", err)
	}

	inv, closeClient, err := newInvoker(ctx, cfg)
	if err != nil {
		return ValidationResult{}, err
	}
	defer func() {
		if err := closeClient(); err != nil {
			logger.Warn("Failed to close model client", "error", err)
		}
	}()

	logger.Info("Validating translation", "original", originalPath, "translated", translatedPath)

	result := ValidationResult{
		OriginalSummary:   summary.Generate(ctx, inv, bodyOf(string(original)), summary.RoleOriginal),
		TranslatedSummary: summary.Generate(ctx, inv, bodyOf(string(translated)), summary.RoleTranslated),
	}
	result.Comparison = summary.Compare(ctx, inv, result.OriginalSummary, result.TranslatedSummary)
	result.Score = result.Comparison.Score
	result.Usage = usageOf(inv)

	logger.Info("Validation finished", "score", result.Score)
	return result, nil
}

// bodyOf strips front matter so only document content feeds the summaries.
func bodyOf(content string) string {
	_, meta := markdown.Parse(content)
	return strings.TrimPrefix(strings.ReplaceAll(content, "\r\n", "\n"), meta.Raw)
}
