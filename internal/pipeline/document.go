package pipeline

import (
	"context"
	"strings"

	"github.com/oukeidos/hanmd/internal/chunker"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/markdown"
	"github.com/oukeidos/hanmd/internal/summary"
	"github.com/oukeidos/hanmd/internal/translator"
)

// Pipeline phases, logged as the run advances.
const (
	phaseParsing              = "parsing"
	phaseChunking             = "chunking"
	phaseTranslating          = "translating"
	phaseSummarizingOriginal  = "summarizing_original"
	phaseSummarizingTranslate = "summarizing_translated"
	phaseComparing            = "comparing"
	phaseRetranslating        = "retranslating_focused"
	phaseResummarizing        = "resummarizing"
	phaseRecomparing          = "recomparing"
	phaseDone                 = "done"
)

// TranslateContent runs the full per-document translation loop over raw
// Markdown text: parse, chunk, translate sequentially, merge, then verify
// completeness by comparing model-generated summaries of both sides, with
// at most one focused whole-document retranslation pass.
//
// Front matter is extracted and returned on the metadata untouched; the
// returned text is the translated body only. Model-call failures degrade
// per the chunk/summary/comparison fallback policies and never abort the
// document.
func TranslateContent(ctx context.Context, inv llm.Invoker, tr *translator.Translator, content string, maxTokens int, model string, onProgress func(translator.Progress)) (string, markdown.Metadata, DocumentStats) {
	logger.Debug("Pipeline phase", "phase", phaseParsing)
	segments, meta := markdown.Parse(content)
	body := strings.TrimPrefix(strings.ReplaceAll(content, "\r\n", "\n"), meta.Raw)

	logger.Debug("Pipeline phase", "phase", phaseChunking)
	chunks := chunker.Build(segments, maxTokens, model)
	stats := DocumentStats{ChunkCount: len(chunks)}

	if len(chunks) == 0 {
		// Nothing to translate and nothing that can be missing.
		logger.Info("Document has no translatable content")
		stats.Comparison = summary.Result{Score: 10, Missing: summary.MissingNone}
		return "", meta, stats
	}
	logger.Info("Document chunked", "chunks", len(chunks), "max_tokens", maxTokens)

	logger.Debug("Pipeline phase", "phase", phaseTranslating)
	translated, failed := tr.TranslateChunks(ctx, chunks, onProgress)
	stats.FailedChunks = failed
	merged := chunker.Merge(translated)

	logger.Debug("Pipeline phase", "phase", phaseSummarizingOriginal)
	stats.OriginalSummary = summary.Generate(ctx, inv, body, summary.RoleOriginal)

	logger.Debug("Pipeline phase", "phase", phaseSummarizingTranslate)
	stats.TranslatedSummary = summary.Generate(ctx, inv, merged, summary.RoleTranslated)

	logger.Debug("Pipeline phase", "phase", phaseComparing)
	stats.Comparison = summary.Compare(ctx, inv, stats.OriginalSummary, stats.TranslatedSummary)

	if stats.Comparison.NeedsRetranslation() {
		logger.Info("Possible missing content detected, retranslating",
			"score", stats.Comparison.Score, "missing", stats.Comparison.Missing)

		logger.Debug("Pipeline phase", "phase", phaseRetranslating)
		retranslated, err := tr.TranslateDocument(ctx, body, stats.Comparison.Missing)
		if err != nil {
			// Non-fatal: keep the merged translation and its comparison.
			logger.Warn("Focused retranslation failed, keeping prior translation", "error", err)
		} else {
			merged = retranslated
			stats.Retranslated = true

			logger.Debug("Pipeline phase", "phase", phaseResummarizing)
			stats.TranslatedSummary = summary.Generate(ctx, inv, merged, summary.RoleTranslated)

			logger.Debug("Pipeline phase", "phase", phaseRecomparing)
			stats.Comparison = summary.Compare(ctx, inv, stats.OriginalSummary, stats.TranslatedSummary)
			logger.Info("Completeness after retranslation", "score", stats.Comparison.Score)
		}
	}

	logger.Debug("Pipeline phase", "phase", phaseDone)
	return merged, meta, stats
}
