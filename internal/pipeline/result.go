package pipeline

import (
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/summary"
)

// Status is the terminal state of a translation run.
type Status string

const (
	StatusSuccess        Status = "Success"
	StatusPartialSuccess Status = "Partial Success"
	StatusFailure        Status = "Failure"
	StatusSkipped        Status = "Skipped"
)

// DocumentStats captures everything the completeness loop learned about one
// document.
type DocumentStats struct {
	OriginalSummary   summary.Record
	TranslatedSummary summary.Record
	Comparison        summary.Result
	ChunkCount        int
	FailedChunks      []int
	// Retranslated is true when the focused retranslation pass replaced the
	// merged translation.
	Retranslated bool
}

// Score returns the final completeness score.
func (s DocumentStats) Score() int {
	return s.Comparison.Score
}

// TranslationResult contains structured outputs from RunTranslation.
type TranslationResult struct {
	Status     Status
	OutputPath string
	ReportPath string
	Stats      DocumentStats
	Usage      llm.Usage
}

// ValidationResult contains the outcome of comparing two existing files.
type ValidationResult struct {
	Score             int
	OriginalSummary   summary.Record
	TranslatedSummary summary.Record
	Comparison        summary.Result
	Usage             llm.Usage
}

// BatchFileResult is one file's outcome inside a batch run.
type BatchFileResult struct {
	InputPath  string
	OutputPath string
	Score      int
	Status     Status
	Err        error
}

// BatchResult aggregates a batch run. Per-file failures are recorded, not
// propagated; aggregation lives in this driver, outside the per-document core.
type BatchResult struct {
	Files        []BatchFileResult
	Succeeded    int
	AverageScore float64
	Usage        llm.Usage
}

func statusFromCounts(failed, total int) Status {
	switch {
	case total > 0 && failed == total:
		return StatusFailure
	case failed > 0:
		return StatusPartialSuccess
	default:
		return StatusSuccess
	}
}
