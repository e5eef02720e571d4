// Package chunker groups structural segments into token-bounded chunks.
// Code segments are atomic: they are never merged with other content and
// never split, even when they alone exceed the budget.
package chunker

import (
	"strings"

	"github.com/oukeidos/hanmd/internal/markdown"
	"github.com/oukeidos/hanmd/internal/tokens"
)

// Kind classifies a chunk for translation dispatch.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindCode
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindCode:
		return "code"
	case KindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Chunk is one token-bounded unit of document content sent to the model
// as a single translation request.
type Chunk struct {
	Content         string
	Kind            Kind
	EstimatedTokens int
	// Index is strictly increasing with no gaps; chunks must be translated
	// and re-merged in Index order.
	Index int
}

// Build packs segments into chunks of at most maxTokens estimated tokens.
// The cap is hard for packing decisions and advisory for atomic units: a
// single code block or oversized segment keeps its own chunk regardless.
// An empty segment slice yields an empty chunk slice.
func Build(segments []markdown.Segment, maxTokens int, model string) []Chunk {
	var chunks []Chunk

	var buf []string
	var bufKinds []markdown.Kind
	bufTokens := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		content := strings.Join(buf, "\n\n")
		chunks = append(chunks, Chunk{
			Content:         content,
			Kind:            packedKind(bufKinds),
			EstimatedTokens: tokens.Estimate(content, model),
			Index:           len(chunks),
		})
		buf = buf[:0]
		bufKinds = bufKinds[:0]
		bufTokens = 0
	}

	for _, seg := range segments {
		if seg.Kind == markdown.Blank || strings.TrimSpace(seg.Text) == "" {
			continue
		}

		if seg.Kind == markdown.Code {
			// A code segment always starts (and fills) its own chunk.
			flush()
			chunks = append(chunks, Chunk{
				Content:         seg.Text,
				Kind:            KindCode,
				EstimatedTokens: tokens.Estimate(seg.Text, model),
				Index:           len(chunks),
			})
			continue
		}

		segTokens := tokens.Estimate(seg.Text, model)
		if len(buf) > 0 && bufTokens+segTokens > maxTokens {
			flush()
		}
		buf = append(buf, seg.Text)
		bufKinds = append(bufKinds, seg.Kind)
		bufTokens += segTokens
	}
	flush()

	return chunks
}

// Merge joins per-chunk outputs back into one document: exactly one
// blank-line-separated unit per non-empty chunk, in the given order.
func Merge(contents []string) string {
	var parts []string
	for _, c := range contents {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, "\n\n")
}

func packedKind(kinds []markdown.Kind) Kind {
	if len(kinds) == 0 {
		return KindParagraph
	}
	uniform := true
	for _, k := range kinds[1:] {
		if k != kinds[0] {
			uniform = false
			break
		}
	}
	if !uniform {
		return KindMixed
	}
	if kinds[0] == markdown.Heading {
		return KindHeading
	}
	return KindParagraph
}
