package translator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oukeidos/hanmd/internal/apperrors"
	"github.com/oukeidos/hanmd/internal/chunker"
	"github.com/oukeidos/hanmd/internal/glossary"
	"github.com/oukeidos/hanmd/internal/llm"
	"github.com/oukeidos/hanmd/internal/logger"
)

const translationTemplate = `你是一个专业的英译汉翻译专家，具有深厚的语言功底和跨文化理解能力。

翻译要求：
1. 准确传达原文的含义和语调
2. 保持Markdown格式完全不变（标题、列表、代码块、链接等）
3. 使用地道的中文表达，符合中文阅读习惯
4. 保持专业术语的准确性和一致性
5. 对于代码、URL、专有名词等，保持原文不变
6. 确保翻译的流畅性和可读性
%s
请翻译以下内容，只输出翻译结果，不要添加任何解释或说明：

%s

翻译结果：`

const glossarySection = `
术语表（以下术语必须按照指定译法翻译）：
%s`

const retranslationTemplate = `你是一个专业的英译汉翻译专家。现在需要你重新翻译以下内容，特别注意包含所有重要信息。

原文：
%s

之前的翻译存在遗漏，缺少以下内容：
%s

请重新进行完整翻译，确保：
1. 包含所有原文信息，特别是上述缺失的内容
2. 保持Markdown格式完全不变
3. 使用地道的中文表达
4. 确保翻译的准确性和完整性

只输出翻译结果：`

// FailureMarker wraps an untranslated chunk in a recognizable Markdown
// callout so a partly failed run still yields valid output.
func FailureMarker(source string) string {
	return "> [!译文缺失]\n> 本段翻译失败，以下保留原文：\n\n" + source
}

// State represents the current state of a chunk translation.
type State int

const (
	StateStarted State = iota
	StateRetrying
	StateCompleted
	StateFailed
)

// Progress reports per-chunk translation progress to the caller.
type Progress struct {
	ChunkIndex  int
	TotalChunks int
	Attempt     int
	State       State
	Error       error
}

// Translator drives per-chunk document translation against one model client.
type Translator struct {
	client   llm.Invoker
	glossary *glossary.Glossary
}

func New(client llm.Invoker) *Translator {
	return &Translator{client: client}
}

// SetGlossary pins fixed term translations injected into every prompt.
func (t *Translator) SetGlossary(g *glossary.Glossary) {
	t.glossary = g
}

// BuildTranslationPrompt composes the per-chunk translation prompt.
func (t *Translator) BuildTranslationPrompt(content string) string {
	section := ""
	if t.glossary.Len() > 0 {
		section = fmt.Sprintf(glossarySection, t.glossary.PromptSection())
	}
	return fmt.Sprintf(translationTemplate, section, content)
}

// BuildRetranslationPrompt composes the focused whole-document
// retranslation prompt listing the reported missing content.
func (t *Translator) BuildRetranslationPrompt(original, missing string) string {
	return fmt.Sprintf(retranslationTemplate, original, missing)
}

// TranslateChunks translates chunks sequentially in Index order. Each chunk
// is translated independently with no inter-chunk context carried forward.
// A failed chunk degrades to its failure marker and never aborts the run;
// the returned slice of indices names the chunks that failed.
func (t *Translator) TranslateChunks(ctx context.Context, chunks []chunker.Chunk, onProgress func(Progress)) ([]string, []int) {
	translated := make([]string, len(chunks))
	var failed []int

	for i, chunk := range chunks {
		if onProgress != nil {
			onProgress(Progress{ChunkIndex: i, TotalChunks: len(chunks), Attempt: 1, State: StateStarted})
		}

		out, err := t.translateChunk(ctx, chunk, i, len(chunks), onProgress)
		if err != nil {
			logger.Error("Chunk translation failed, emitting failure marker", "index", i, "kind", chunk.Kind.String(), "error", err)
			translated[i] = FailureMarker(chunk.Content)
			failed = append(failed, i)
			if onProgress != nil {
				onProgress(Progress{ChunkIndex: i, TotalChunks: len(chunks), State: StateFailed, Error: err})
			}
			continue
		}

		translated[i] = out
		if onProgress != nil {
			onProgress(Progress{ChunkIndex: i, TotalChunks: len(chunks), State: StateCompleted})
		}
	}

	return translated, failed
}

func (t *Translator) translateChunk(ctx context.Context, chunk chunker.Chunk, index, total int, onProgress func(Progress)) (string, error) {
	if chunk.Kind == chunker.KindCode {
		return t.translateCodeBlock(ctx, chunk.Content), nil
	}
	return t.invokeWithRetry(ctx, t.BuildTranslationPrompt(chunk.Content), func(attempt int, err error) {
		if onProgress != nil {
			onProgress(Progress{ChunkIndex: index, TotalChunks: total, Attempt: attempt, State: StateRetrying, Error: err})
		}
	})
}

// translateCodeBlock translates only comment lines (leading # or // after
// trim); every other line passes through byte-identical with its original
// indentation. A failed comment translation keeps the source line, so this
// never fails.
func (t *Translator) translateCodeBlock(ctx context.Context, code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "//") {
			out[i] = line
			continue
		}

		translation, err := t.client.Invoke(ctx, t.BuildTranslationPrompt(trimmed))
		if err != nil || strings.TrimSpace(translation) == "" {
			out[i] = line
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out[i] = indent + strings.TrimSpace(translation)
	}

	return strings.Join(out, "\n")
}

// TranslateDocument performs the focused whole-document retranslation pass.
// It is issued exactly once per run with no retry; the caller keeps the
// prior merged translation when it fails.
func (t *Translator) TranslateDocument(ctx context.Context, original, missing string) (string, error) {
	out, err := t.client.Invoke(ctx, t.BuildRetranslationPrompt(original, missing))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty retranslation output")
	}
	return out, nil
}

const maxAttempts = 3

func (t *Translator) invokeWithRetry(ctx context.Context, prompt string, onRetry func(attempt int, err error)) (string, error) {
	var out string
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 && onRetry != nil {
			onRetry(attempt, err)
		}

		out, err = t.client.Invoke(ctx, prompt)
		if err == nil {
			trimmed := strings.TrimSpace(out)
			if trimmed == "" {
				err = apperrors.Validation(fmt.Errorf("empty model output"))
			} else {
				return trimmed, nil
			}
		}

		retry, backoff := retryDecision(err, attempt, maxAttempts)
		if !retry {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", err
}

func retryDecision(err error, attempt, maxAttempts int) (bool, time.Duration) {
	if err == nil {
		return false, 0
	}
	if attempt >= maxAttempts {
		return false, 0
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}
	if !apperrors.IsRetryable(err) {
		return false, 0
	}
	base := 1 * time.Second
	maxBackoff := 20 * time.Second
	jitterMax := 1 * time.Second

	backoff := base << (attempt - 1)
	if apperrors.IsRateLimit(err) {
		backoff = backoff * 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(jitterMax)))
	return true, backoff + jitter
}
