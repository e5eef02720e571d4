package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/hanmd/internal/llm"
)

func TestGenerate_ParsesTopicAndPoints(t *testing.T) {
	mock := &llm.Mock{Responses: []string{
		"主题：分布式缓存的设计取舍\n要点：\n1. 一致性哈希减少再平衡\n2. 过期策略影响命中率\n3. 热点键需要本地缓存",
	}}

	rec := Generate(context.Background(), mock, "# Caching\nsome content", RoleOriginal)
	if rec.Source != RoleOriginal {
		t.Fatalf("expected source original, got %q", rec.Source)
	}
	if rec.Topic != "分布式缓存的设计取舍" {
		t.Fatalf("unexpected topic: %q", rec.Topic)
	}
	if len(rec.KeyPoints) != 3 {
		t.Fatalf("expected 3 key points, got %d: %+v", len(rec.KeyPoints), rec.KeyPoints)
	}
	if rec.KeyPoints[2] != "热点键需要本地缓存" {
		t.Fatalf("unexpected third point: %q", rec.KeyPoints[2])
	}
}

func TestGenerate_BulletedOutput(t *testing.T) {
	mock := &llm.Mock{Responses: []string{
		"主题: topic here\n要点：\n- first\n* second\n• third",
	}}
	rec := Generate(context.Background(), mock, "content", RoleTranslated)
	if len(rec.KeyPoints) != 3 {
		t.Fatalf("expected 3 bulleted points, got %+v", rec.KeyPoints)
	}
}

func TestGenerate_FailureDegradesToEmpty(t *testing.T) {
	mock := &llm.Mock{Errs: map[int]error{0: errors.New("boom")}}
	rec := Generate(context.Background(), mock, "content", RoleOriginal)
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record on call failure, got %+v", rec)
	}
	if rec.Source != RoleOriginal {
		t.Fatalf("expected role to survive degradation, got %q", rec.Source)
	}
}

func TestGenerate_EmptyContentSkipsModelCall(t *testing.T) {
	mock := &llm.Mock{}
	rec := Generate(context.Background(), mock, "   \n", RoleOriginal)
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record for empty content")
	}
	if mock.Calls() != 0 {
		t.Fatalf("expected no model call for empty content, got %d", mock.Calls())
	}
}

func TestCompare_IdenticalSummariesScoreTen(t *testing.T) {
	mock := &llm.Mock{Responses: []string{
		"完整性评分：10\n遗漏内容：无\n改进建议：无",
	}}
	orig := Record{Topic: "t", KeyPoints: []string{"a", "b"}, Source: RoleOriginal}
	trans := Record{Topic: "t", KeyPoints: []string{"a", "b"}, Source: RoleTranslated}

	result := Compare(context.Background(), mock, orig, trans)
	if result.Score != 10 {
		t.Fatalf("expected score 10, got %d", result.Score)
	}
	if result.Missing != MissingNone {
		t.Fatalf("expected missing sentinel, got %q", result.Missing)
	}
	if result.NeedsRetranslation() {
		t.Fatalf("expected no retranslation for a complete translation")
	}
}

func TestCompare_MissingContentTriggersRetranslation(t *testing.T) {
	mock := &llm.Mock{Responses: []string{
		"完整性评分：6\n遗漏内容：缺少第三节的性能数据和第五节的结论\n改进建议：补充缺失段落",
	}}
	result := Compare(context.Background(), mock, Record{Topic: "a"}, Record{Topic: "b"})
	if result.Score != 6 {
		t.Fatalf("expected score 6, got %d", result.Score)
	}
	if result.Missing == MissingNone {
		t.Fatalf("expected concrete missing content")
	}
	if !result.NeedsRetranslation() {
		t.Fatalf("expected retranslation to be required")
	}
	if result.Suggestions != "补充缺失段落" {
		t.Fatalf("unexpected suggestions: %q", result.Suggestions)
	}
}

func TestCompare_ScoreClamped(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want int
	}{
		{"above range", "完整性评分：15\n遗漏内容：无", 10},
		{"below range", "完整性评分：-3\n遗漏内容：无", 0},
		{"in range", "完整性评分：8\n遗漏内容：无", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &llm.Mock{Responses: []string{tt.resp}}
			result := Compare(context.Background(), mock, Record{}, Record{})
			if result.Score != tt.want {
				t.Fatalf("expected score %d, got %d", tt.want, result.Score)
			}
		})
	}
}

func TestCompare_ParseFailureUsesConservativeScore(t *testing.T) {
	mock := &llm.Mock{Responses: []string{"I cannot help with that."}}
	result := Compare(context.Background(), mock, Record{}, Record{})
	if result.Score != 5 {
		t.Fatalf("expected conservative score 5, got %d", result.Score)
	}
	if result.Missing != MissingNone {
		t.Fatalf("expected missing sentinel on parse failure, got %q", result.Missing)
	}
	if result.NeedsRetranslation() {
		t.Fatalf("parse noise must not trigger retranslation")
	}
}

func TestCompare_CallFailureUsesConservativeScore(t *testing.T) {
	mock := &llm.Mock{Errs: map[int]error{0: errors.New("network down")}}
	result := Compare(context.Background(), mock, Record{}, Record{})
	if result.Score != 5 || result.Missing != MissingNone {
		t.Fatalf("expected degraded result, got %+v", result)
	}
}

func TestCompare_PromptContainsBothSummaries(t *testing.T) {
	mock := &llm.Mock{Responses: []string{"完整性评分：9\n遗漏内容：无"}}
	orig := Record{Topic: "original topic", KeyPoints: []string{"p1"}, Source: RoleOriginal}
	trans := Record{Topic: "translated topic", KeyPoints: []string{"q1"}, Source: RoleTranslated}
	Compare(context.Background(), mock, orig, trans)

	if len(mock.Prompts) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(mock.Prompts))
	}
	prompt := mock.Prompts[0]
	for _, want := range []string{"original topic", "translated topic", "p1", "q1"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("comparison prompt missing %q", want)
		}
	}
}

func TestNormalizeMissing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"无", MissingNone},
		{"  无。", MissingNone},
		{"没有", MissingNone},
		{"None", MissingNone},
		{"", MissingNone},
		{"缺少结论段", "缺少结论段"},
	}
	for _, tt := range tests {
		if got := normalizeMissing(tt.in); got != tt.want {
			t.Fatalf("normalizeMissing(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
