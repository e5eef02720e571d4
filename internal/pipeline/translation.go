package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oukeidos/hanmd/internal/files"
	"github.com/oukeidos/hanmd/internal/glossary"
	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/metadata"
	"github.com/oukeidos/hanmd/internal/report"
	"github.com/oukeidos/hanmd/internal/translator"
)

// RunTranslation executes the full translation pipeline for one file.
func RunTranslation(ctx context.Context, cfg Config) (TranslationResult, error) {
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return TranslationResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// 1. Validation & Setup
	absIn, err := filepath.Abs(cfg.InputPath)
	if err != nil {
		return TranslationResult{}, fmt.Errorf("failed to resolve input path: %w", err)
	}
	absOut, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return TranslationResult{}, fmt.Errorf("failed to resolve output path: %w", err)
	}
	if absIn == absOut {
		return TranslationResult{}, fmt.Errorf("input and output files are the same (%s)", absIn)
	}
	if inInfo, err := os.Stat(absIn); err == nil {
		if outInfo, err := os.Stat(absOut); err == nil {
			if os.SameFile(inInfo, outInfo) {
				return TranslationResult{}, fmt.Errorf("input and output files are the same (%s)", absIn)
			}
		} else if !os.IsNotExist(err) {
			return TranslationResult{}, fmt.Errorf("failed to stat output path: %w", err)
		}
	} else {
		return TranslationResult{}, fmt.Errorf("failed to stat input path: %w", err)
	}
	if err := files.RejectSymlinkPath(cfg.OutputPath); err != nil {
		return TranslationResult{}, err
	}

	shouldOverwrite := cfg.Overwrite
	outputExists := false
	if _, err := os.Stat(cfg.OutputPath); err == nil {
		outputExists = true
		if cfg.OnConfirmOverwrite != nil {
			shouldOverwrite = cfg.OnConfirmOverwrite(cfg.OutputPath)
		}
		if !shouldOverwrite {
			logger.Info("Output file exists. Aborted by user.", "path", cfg.OutputPath)
			return TranslationResult{Status: StatusSkipped}, nil // Not an error, just user cancellation
		}
		logger.Info("Overwriting output file", "path", cfg.OutputPath)
	}

	// 2. Load input
	raw, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return TranslationResult{}, fmt.Errorf("failed to read input file: %w", err)
	}
	logger.Info("Loaded document", "bytes", len(raw), "path", cfg.InputPath)

	// 3. Initialize client & translator
	inv, closeClient, err := newInvoker(ctx, cfg)
	if err != nil {
		return TranslationResult{}, err
	}
	defer func() {
		if err := closeClient(); err != nil {
			logger.Warn("Failed to close model client", "error", err)
		}
	}()

	tr := translator.New(inv)
	if cfg.GlossaryPath != "" {
		g, err := glossary.LoadFile(cfg.GlossaryPath)
		if err != nil {
			return TranslationResult{}, fmt.Errorf("failed to load glossary: %w", err)
		}
		tr.SetGlossary(g)
		logger.Info("Loaded glossary", "terms", g.Len(), "path", cfg.GlossaryPath)
	}

	// 4. Translate with completeness verification
	logger.Info("Starting translation", "model", cfg.Model, "provider", ResolveProvider(cfg.Provider, cfg.Model))
	translated, meta, stats := TranslateContent(ctx, inv, tr, string(raw), cfg.MaxTokens, cfg.Model, cfg.OnProgress)

	status := statusFromCounts(len(stats.FailedChunks), stats.ChunkCount)
	result := TranslationResult{
		Status: status,
		Stats:  stats,
		Usage:  usageOf(inv),
	}
	logger.Info("Translation finished", "status", status, "score", stats.Score(), "retranslated", stats.Retranslated)

	// 5. Save output: front matter re-emitted verbatim ahead of the body.
	effectiveOutputPath := cfg.OutputPath
	if !(outputExists && shouldOverwrite) {
		safePath, changed, err := files.SafePath(cfg.OutputPath)
		if err != nil {
			return result, fmt.Errorf("failed to resolve output path: %w", err)
		}
		if changed {
			logger.Warn("Output path adjusted to avoid overwrite", "original", cfg.OutputPath, "effective", safePath)
			effectiveOutputPath = safePath
		}
	}

	out := meta.Raw + translated
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := files.AtomicWrite(effectiveOutputPath, []byte(out), 0644); err != nil {
		return result, fmt.Errorf("failed to save output file: %w", err)
	}
	result.OutputPath = effectiveOutputPath
	logger.Info("Saved translation", "path", effectiveOutputPath)

	// 6. Persist the run report next to the output.
	reportPath := report.GenerateReportPath(effectiveOutputPath)
	run := &report.RunReport{
		InputPath:         cfg.InputPath,
		OutputPath:        effectiveOutputPath,
		Provider:          ResolveProvider(cfg.Provider, cfg.Model),
		Model:             cfg.Model,
		ChunkCount:        stats.ChunkCount,
		FailedChunks:      stats.FailedChunks,
		Retranslated:      stats.Retranslated,
		CompletenessScore: stats.Score(),
		OriginalSummary:   report.FromRecord(stats.OriginalSummary),
		TranslatedSummary: report.FromRecord(stats.TranslatedSummary),
		Comparison:        report.FromResult(stats.Comparison),
		EstimatedCostUSD:  metadata.EstimateCost(ResolveProvider(cfg.Provider, cfg.Model), cfg.Model, result.Usage),
		Status:            string(status),
	}
	if ctx.Err() != nil {
		run.StatusReason = "canceled"
	}
	run.SetUsage(result.Usage)
	if err := report.Save(reportPath, run); err != nil {
		logger.Error("Failed to save run report", "error", err)
	} else {
		result.ReportPath = reportPath
		logger.Info("Saved run report", "path", reportPath)
	}

	return result, nil
}
