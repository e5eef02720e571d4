// Package report persists per-run translation statistics as a JSON file
// next to the output document.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/oukeidos/hanmd/internal/files"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/summary"
)

// Run statuses.
const (
	StatusSuccess        = "Success"
	StatusPartialSuccess = "Partial Success"
	StatusFailure        = "Failure"
)

// SummaryRecord is the persisted form of a summary.Record.
type SummaryRecord struct {
	Topic     string   `json:"topic"`
	KeyPoints []string `json:"key_points"`
	Source    string   `json:"source"`
}

// ComparisonResult is the persisted form of a summary.Result.
type ComparisonResult struct {
	CompletenessScore int    `json:"completeness_score"`
	MissingContent    string `json:"missing_content"`
	Suggestions       string `json:"suggestions,omitempty"`
}

// RunReport captures everything a translation run produced besides the
// translated document itself.
type RunReport struct {
	ReportVersion      int              `json:"report_version"`
	InputPath          string           `json:"input_path"`
	OutputPath         string           `json:"output_path"`
	Provider           string           `json:"provider"`
	Model              string           `json:"model"`
	ChunkCount         int              `json:"chunk_count"`
	FailedChunks       []int            `json:"failed_chunks,omitempty"`
	Retranslated       bool             `json:"retranslated"`
	CompletenessScore  int              `json:"completeness_score"`
	OriginalSummary    SummaryRecord    `json:"original_summary"`
	TranslatedSummary  SummaryRecord    `json:"translated_summary"`
	Comparison         ComparisonResult `json:"comparison_result"`
	PromptTokens       int              `json:"prompt_tokens"`
	CompletionTokens   int              `json:"completion_tokens"`
	TotalTokens        int              `json:"total_tokens"`
	EstimatedCostUSD   float64          `json:"estimated_cost_usd"`
	Status             string           `json:"status"`
	StatusReason       string           `json:"status_reason,omitempty"`
}

const CurrentReportVersion = 1

// FromRecord converts a summary.Record for persistence.
func FromRecord(rec summary.Record) SummaryRecord {
	return SummaryRecord{
		Topic:     rec.Topic,
		KeyPoints: rec.KeyPoints,
		Source:    string(rec.Source),
	}
}

// FromResult converts a summary.Result for persistence.
func FromResult(res summary.Result) ComparisonResult {
	return ComparisonResult{
		CompletenessScore: res.Score,
		MissingContent:    res.Missing,
		Suggestions:       res.Suggestions,
	}
}

// SetUsage records accumulated token usage on the report.
func (r *RunReport) SetUsage(u llm.Usage) {
	r.PromptTokens = u.PromptTokens
	r.CompletionTokens = u.CompletionTokens
	r.TotalTokens = u.TotalTokens
}

// Save writes the report atomically.
func Save(path string, r *RunReport) error {
	if r.ReportVersion == 0 {
		r.ReportVersion = CurrentReportVersion
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return files.AtomicWrite(path, data, 0600)
}

// Load reads a report back from disk.
func Load(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.ReportVersion == 0 {
		r.ReportVersion = CurrentReportVersion
	}
	return &r, nil
}

// GenerateReportPath creates a unique filename for the run report.
// Logic:
// 1. [basename]_report.json
// 2. [basename]_report_0.json ~ _9.json
// 3. [basename]_report_[UUIDv7].json (with collision check)
func GenerateReportPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	primary := filepath.Join(dir, fmt.Sprintf("%s_report.json", base))
	if _, err := os.Stat(primary); os.IsNotExist(err) {
		return primary
	}

	for i := 0; i <= 9; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_report_%d.json", base, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}

	for i := 0; i < 100; i++ {
		u, err := uuid.NewV7()
		var suffix string
		if err != nil {
			suffix = uuid.NewString()[:8]
		} else {
			suffix = u.String()
		}
		candidate := filepath.Join(dir, fmt.Sprintf("%s_report_%s.json", base, suffix))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%s_report_final_%d.json", base, os.Getpid()))
}

// DetermineStatus maps run outcomes to a report status.
func DetermineStatus(failedChunks []int, chunkCount int) string {
	switch {
	case chunkCount > 0 && len(failedChunks) == chunkCount:
		return StatusFailure
	case len(failedChunks) > 0:
		return StatusPartialSuccess
	default:
		return StatusSuccess
	}
}
