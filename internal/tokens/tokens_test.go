package tokens

import (
	"strings"
	"testing"
)

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate("", "gemini-3-flash-preview"); got != 0 {
		t.Errorf("Estimate(empty) = %d, want 0", got)
	}
}

func TestEstimateLatin(t *testing.T) {
	// 400 latin characters at ~4 chars/token.
	text := strings.Repeat("word ", 80)
	got := Estimate(text, "gemini-3-flash-preview")
	if got < 80 || got > 120 {
		t.Errorf("Estimate(latin 400 chars) = %d, want ~100", got)
	}
}

func TestEstimateCJKHeavierThanLatin(t *testing.T) {
	latin := strings.Repeat("abcd", 50)
	cjk := strings.Repeat("中文翻译", 50)
	if le, ce := Estimate(latin, "gpt-4o"), Estimate(cjk, "gpt-4o"); ce <= le {
		t.Errorf("CJK text should estimate heavier: latin=%d cjk=%d", le, ce)
	}
}

func TestEstimateUnknownModelFallsBack(t *testing.T) {
	if got := Estimate("hello world", "mystery-model"); got < 1 {
		t.Errorf("Estimate with unknown model = %d, want >= 1", got)
	}
}

func TestEstimateMinimumOne(t *testing.T) {
	if got := Estimate("a", "gemini-3-flash-preview"); got != 1 {
		t.Errorf("Estimate(single char) = %d, want 1", got)
	}
}
