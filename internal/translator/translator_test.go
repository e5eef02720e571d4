package translator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/hanmd/internal/apperrors"
	"github.com/oukeidos/hanmd/internal/chunker"
	"github.com/oukeidos/hanmd/internal/glossary"
	"github.com/oukeidos/hanmd/internal/llm"
)

func TestTranslateChunks_SequentialInOrder(t *testing.T) {
	mock := &llm.Mock{Responses: []string{"译文一", "译文二", "译文三"}}
	chunks := []chunker.Chunk{
		{Content: "first", Kind: chunker.KindParagraph, Index: 0},
		{Content: "second", Kind: chunker.KindParagraph, Index: 1},
		{Content: "third", Kind: chunker.KindParagraph, Index: 2},
	}

	translated, failed := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if len(failed) != 0 {
		t.Fatalf("expected no failures, got %v", failed)
	}
	want := []string{"译文一", "译文二", "译文三"}
	for i := range want {
		if translated[i] != want[i] {
			t.Fatalf("chunk %d: expected %q, got %q", i, want[i], translated[i])
		}
	}
	if mock.Calls() != 3 {
		t.Fatalf("expected 3 model calls, got %d", mock.Calls())
	}
}

func TestTranslateChunks_FailureEmitsMarker(t *testing.T) {
	// Non-retryable error so the chunk degrades without backoff sleeps.
	mock := &llm.Mock{
		Responses: []string{"译文"},
		Errs:      map[int]error{0: apperrors.BadRequest(errors.New("rejected"))},
	}
	chunks := []chunker.Chunk{
		{Content: "bad chunk", Kind: chunker.KindParagraph, Index: 0},
		{Content: "good chunk", Kind: chunker.KindParagraph, Index: 1},
	}

	translated, failed := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if len(failed) != 1 || failed[0] != 0 {
		t.Fatalf("expected chunk 0 to fail, got %v", failed)
	}
	if !strings.Contains(translated[0], "[!译文缺失]") {
		t.Fatalf("expected failure marker, got %q", translated[0])
	}
	if !strings.Contains(translated[0], "bad chunk") {
		t.Fatalf("expected marker to embed untranslated source, got %q", translated[0])
	}
	if translated[1] != "译文" {
		t.Fatalf("expected second chunk to translate despite first failing, got %q", translated[1])
	}
}

func TestTranslateCodeBlock_OnlyCommentsTranslated(t *testing.T) {
	mock := &llm.Mock{Responses: []string{"计算总和", "返回结果"}}
	code := "```go\n// compute the sum\nfunc sum(a, b int) int {\n\t// return the result\n\treturn a + b\n}\n```"
	chunks := []chunker.Chunk{{Content: code, Kind: chunker.KindCode, Index: 0}}

	translated, failed := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if len(failed) != 0 {
		t.Fatalf("expected no failures, got %v", failed)
	}
	lines := strings.Split(translated[0], "\n")
	want := []string{"```go", "计算总和", "func sum(a, b int) int {", "\t返回结果", "\treturn a + b", "}", "```"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), translated[0])
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTranslateCodeBlock_NoCommentsByteIdentical(t *testing.T) {
	mock := &llm.Mock{}
	code := "```python\nx = 1\ny = x * 2\nprint(y)\n```"
	chunks := []chunker.Chunk{{Content: code, Kind: chunker.KindCode, Index: 0}}

	translated, _ := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if translated[0] != code {
		t.Fatalf("expected code without comments to pass through unchanged:\n%q\nvs\n%q", code, translated[0])
	}
	if mock.Calls() != 0 {
		t.Fatalf("expected no model calls for comment-free code, got %d", mock.Calls())
	}
}

func TestTranslateCodeBlock_CommentFailureKeepsLine(t *testing.T) {
	mock := &llm.Mock{Errs: map[int]error{0: errors.New("boom")}}
	code := "# setup step\nmake build"
	chunks := []chunker.Chunk{{Content: code, Kind: chunker.KindCode, Index: 0}}

	translated, failed := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if len(failed) != 0 {
		t.Fatalf("a failed comment line must not fail the chunk, got %v", failed)
	}
	if translated[0] != code {
		t.Fatalf("expected original lines kept on comment failure, got %q", translated[0])
	}
}

func TestBuildTranslationPrompt_GlossaryInjection(t *testing.T) {
	tr := New(&llm.Mock{})

	prompt := tr.BuildTranslationPrompt("content")
	if strings.Contains(prompt, "术语表") {
		t.Fatalf("expected no glossary section without a glossary")
	}

	tr.SetGlossary(glossary.New(map[string]string{"chunk": "分块"}))
	prompt = tr.BuildTranslationPrompt("content")
	if !strings.Contains(prompt, "术语表") || !strings.Contains(prompt, "chunk => 分块") {
		t.Fatalf("expected glossary section in prompt, got:\n%s", prompt)
	}
}

func TestTranslateDocument_SingleCall(t *testing.T) {
	mock := &llm.Mock{Responses: []string{"完整译文"}}
	tr := New(mock)

	out, err := tr.TranslateDocument(context.Background(), "original text", "missing point")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "完整译文" {
		t.Fatalf("unexpected output: %q", out)
	}
	if mock.Calls() != 1 {
		t.Fatalf("expected exactly one call, got %d", mock.Calls())
	}
	if !strings.Contains(mock.Prompts[0], "original text") || !strings.Contains(mock.Prompts[0], "missing point") {
		t.Fatalf("retranslation prompt missing inputs:\n%s", mock.Prompts[0])
	}
}

func TestTranslateDocument_FailurePropagatesWithoutRetry(t *testing.T) {
	mock := &llm.Mock{Errs: map[int]error{0: apperrors.Transient(errors.New("down"))}}
	_, err := New(mock).TranslateDocument(context.Background(), "text", "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if mock.Calls() != 1 {
		t.Fatalf("retranslation must not retry, got %d calls", mock.Calls())
	}
}

func TestRetryDecision(t *testing.T) {
	transient := apperrors.Transient(errors.New("x"))

	t.Run("nil error", func(t *testing.T) {
		if retry, _ := retryDecision(nil, 1, 3); retry {
			t.Fatalf("expected no retry for nil error")
		}
	})

	t.Run("attempt cap", func(t *testing.T) {
		if retry, _ := retryDecision(transient, 3, 3); retry {
			t.Fatalf("expected no retry at max attempts")
		}
	})

	t.Run("non-retryable kind", func(t *testing.T) {
		if retry, _ := retryDecision(apperrors.Auth(errors.New("denied")), 1, 3); retry {
			t.Fatalf("expected no retry for auth error")
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		if retry, _ := retryDecision(context.Canceled, 1, 3); retry {
			t.Fatalf("expected no retry after cancellation")
		}
	})

	t.Run("transient backoff grows", func(t *testing.T) {
		_, b1 := retryDecision(transient, 1, 3)
		_, b2 := retryDecision(transient, 2, 3)
		if b1 <= 0 || b2 <= 0 {
			t.Fatalf("expected positive backoff, got %v and %v", b1, b2)
		}
	})

	t.Run("rate limit doubles backoff", func(t *testing.T) {
		rl := apperrors.RateLimit(errors.New("429"))
		retry, backoff := retryDecision(rl, 1, 3)
		if !retry {
			t.Fatalf("expected retry for rate limit")
		}
		if backoff < 2*time.Second {
			t.Fatalf("expected at least 2s backoff for rate limit, got %v", backoff)
		}
	})
}

func TestRetryExhaustionThenMarker(t *testing.T) {
	// Validation errors are retryable; exhausting attempts must degrade to
	// the failure marker. Uses an empty-output response which classifies as
	// validation failure on every attempt.
	mock := &llm.Mock{Responses: []string{"   "}}
	chunks := []chunker.Chunk{{Content: "text", Kind: chunker.KindParagraph, Index: 0}}

	translated, failed := New(mock).TranslateChunks(context.Background(), chunks, nil)
	if len(failed) != 1 {
		t.Fatalf("expected the chunk to fail after retries, got %v", failed)
	}
	if mock.Calls() != 3 {
		t.Fatalf("expected 3 attempts, got %d", mock.Calls())
	}
	if !strings.Contains(translated[0], "text") {
		t.Fatalf("expected marker with source, got %q", translated[0])
	}
}
