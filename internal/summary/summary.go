// Package summary generates structured document summaries via the model and
// compares them to estimate translation completeness.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/oukeidos/hanmd/internal/llm"
)

// Role marks which side of a translation a summary describes.
type Role string

const (
	RoleOriginal   Role = "original"
	RoleTranslated Role = "translated"
)

// MissingNone is the sentinel the comparator uses to report that nothing is
// missing from the translation.
const MissingNone = "无"

// fallbackScore is the conservative completeness score used when the model's
// comparison response cannot be parsed. Paired with MissingNone it never
// triggers a retranslation pass on parse noise alone.
const fallbackScore = 5

// Record is a structured summary of one document.
type Record struct {
	Topic     string
	KeyPoints []string
	Source    Role
}

// IsEmpty reports whether the record carries no information, which is the
// degraded result of a failed summary call.
func (r Record) IsEmpty() bool {
	return r.Topic == "" && len(r.KeyPoints) == 0
}

// Result is the outcome of comparing an original summary with a translated one.
type Result struct {
	// Score is the model's completeness estimate, clamped to [0, 10].
	Score int
	// Missing describes content absent from the translation, or MissingNone.
	Missing string
	// Suggestions carries the model's improvement advice, if any.
	Suggestions string
}

// NeedsRetranslation reports whether the comparison calls for a focused
// retranslation pass.
func (r Result) NeedsRetranslation() bool {
	return r.Score < 8 && r.Missing != MissingNone
}

const generateTemplate = `你是一个专业的文档分析专家。请分析以下内容，提炼文档主题和关键要点。

输出格式要求：
主题：用一句话概括文档主题
要点：
1. 第一个关键要点
2. 第二个关键要点
（依次列出所有关键要点，每行一条）

请只输出主题和要点，不要添加任何解释。

内容：
%s`

// Generate issues one model call to summarize content. Failures are
// non-fatal: a call or parse failure degrades to an empty Record so that
// downstream comparison can still run.
func Generate(ctx context.Context, inv llm.Invoker, content string, role Role) Record {
	empty := Record{Source: role}
	if strings.TrimSpace(content) == "" {
		return empty
	}

	prompt := fmt.Sprintf(generateTemplate, content)
	resp, err := inv.Invoke(ctx, prompt)
	if err != nil {
		slog.Warn("Summary generation failed, continuing with empty summary", "role", string(role), "error", err)
		return empty
	}

	rec := parseRecord(resp, role)
	if rec.IsEmpty() {
		slog.Warn("Summary response was unparseable, continuing with empty summary", "role", string(role))
	}
	return rec
}

var (
	topicRe = regexp.MustCompile(`^主题\s*[:：]\s*(.*)$`)
	pointRe = regexp.MustCompile(`^\s*(?:\d+\s*[.、)]|[-*•])\s*(.*)$`)
)

func parseRecord(resp string, role Role) Record {
	rec := Record{Source: role}
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := topicRe.FindStringSubmatch(line); m != nil {
			if rec.Topic == "" {
				rec.Topic = strings.TrimSpace(m[1])
			}
			continue
		}
		if m := pointRe.FindStringSubmatch(line); m != nil {
			point := strings.TrimSpace(m[1])
			if point != "" {
				rec.KeyPoints = append(rec.KeyPoints, point)
			}
		}
	}
	return rec
}

const compareTemplate = `你是一个专业的翻译质量审核专家。请比较以下原文摘要和译文摘要，判断译文是否完整保留了原文的信息。

原文摘要：
%s

译文摘要：
%s

请按照以下格式输出，不要添加任何解释：
完整性评分：0到10的整数（10表示完全一致）
遗漏内容：译文中缺失的内容描述；如果没有遗漏，输出"无"
改进建议：对译文的改进建议；如果没有，输出"无"`

// Compare issues one model call to semantically diff two summaries. The
// semantic judgment is owned by the model; this function only builds the
// prompt deterministically and parses the response. A call or parse failure
// degrades to a conservative mid-low score with Missing set to MissingNone.
func Compare(ctx context.Context, inv llm.Invoker, original, translated Record) Result {
	degraded := Result{Score: fallbackScore, Missing: MissingNone}

	prompt := fmt.Sprintf(compareTemplate, formatRecord(original), formatRecord(translated))
	resp, err := inv.Invoke(ctx, prompt)
	if err != nil {
		slog.Warn("Summary comparison failed, using conservative score", "score", fallbackScore, "error", err)
		return degraded
	}

	result, ok := parseResult(resp)
	if !ok {
		slog.Warn("Comparison response was unparseable, using conservative score", "score", fallbackScore)
		return degraded
	}
	return result
}

// formatRecord renders a record the way the comparison prompt expects. An
// empty record renders as an explicit placeholder so the model grades the
// degraded side low instead of hallucinating content for it.
func formatRecord(rec Record) string {
	if rec.IsEmpty() {
		return "（摘要生成失败，无可用内容）"
	}
	var sb strings.Builder
	sb.WriteString("主题：")
	sb.WriteString(rec.Topic)
	sb.WriteString("\n要点：\n")
	for i, p := range rec.KeyPoints {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(sb.String(), "\n")
}

var (
	scoreRe       = regexp.MustCompile(`完整性评分\s*[:：]\s*(-?\d+)`)
	missingRe     = regexp.MustCompile(`遗漏内容\s*[:：]\s*(.*)`)
	suggestionsRe = regexp.MustCompile(`改进建议\s*[:：]\s*(.*)`)
)

func parseResult(resp string) (Result, bool) {
	m := scoreRe.FindStringSubmatch(resp)
	if m == nil {
		return Result{}, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return Result{}, false
	}

	result := Result{
		Score:   clampScore(score),
		Missing: MissingNone,
	}
	if mm := missingRe.FindStringSubmatch(resp); mm != nil {
		result.Missing = normalizeMissing(mm[1])
	}
	if sm := suggestionsRe.FindStringSubmatch(resp); sm != nil {
		if s := strings.TrimSpace(sm[1]); s != MissingNone {
			result.Suggestions = s
		}
	}
	return result, true
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// normalizeMissing standardizes the model's various ways of saying "nothing
// is missing" to the MissingNone sentinel.
func normalizeMissing(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(strings.Trim(s, "。．.!！")) {
	case "", "无", "没有", "没有遗漏", "none", "n/a":
		return MissingNone
	}
	return s
}
