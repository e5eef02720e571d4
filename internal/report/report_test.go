package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/summary"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out_report.json")

	r := &RunReport{
		InputPath:         "in.md",
		OutputPath:        "out.md",
		Provider:          "gemini",
		Model:             "gemini-3-flash-preview",
		ChunkCount:        4,
		FailedChunks:      []int{2},
		CompletenessScore: 9,
		OriginalSummary:   FromRecord(summary.Record{Topic: "t", KeyPoints: []string{"a"}, Source: summary.RoleOriginal}),
		Comparison:        FromResult(summary.Result{Score: 9, Missing: summary.MissingNone}),
		Status:            StatusPartialSuccess,
	}
	r.SetUsage(llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150})

	if err := Save(path, r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ReportVersion != CurrentReportVersion {
		t.Fatalf("expected report version %d, got %d", CurrentReportVersion, loaded.ReportVersion)
	}
	if loaded.TotalTokens != 150 || loaded.ChunkCount != 4 {
		t.Fatalf("unexpected loaded report: %+v", loaded)
	}
	if loaded.OriginalSummary.Source != "original" {
		t.Fatalf("unexpected summary source: %q", loaded.OriginalSummary.Source)
	}
	if loaded.Comparison.MissingContent != summary.MissingNone {
		t.Fatalf("unexpected missing content: %q", loaded.Comparison.MissingContent)
	}
}

func TestGenerateReportPath_CollisionAvoidance(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "doc.md")

	first := GenerateReportPath(out)
	if first != filepath.Join(dir, "doc_report.json") {
		t.Fatalf("unexpected primary path: %s", first)
	}

	if err := os.WriteFile(first, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	second := GenerateReportPath(out)
	if second != filepath.Join(dir, "doc_report_0.json") {
		t.Fatalf("unexpected fallback path: %s", second)
	}

	if err := os.WriteFile(second, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	third := GenerateReportPath(out)
	if !strings.HasPrefix(filepath.Base(third), "doc_report_1") {
		t.Fatalf("unexpected second fallback path: %s", third)
	}
}

func TestDetermineStatus(t *testing.T) {
	tests := []struct {
		name   string
		failed []int
		total  int
		want   string
	}{
		{"all good", nil, 3, StatusSuccess},
		{"some failed", []int{1}, 3, StatusPartialSuccess},
		{"all failed", []int{0, 1, 2}, 3, StatusFailure},
		{"empty document", nil, 0, StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineStatus(tt.failed, tt.total); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
