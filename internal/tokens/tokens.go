// Package tokens provides an approximate, model-aware token count used for
// chunk packing decisions. It is a heuristic, not the provider's tokenizer.
package tokens

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// modelProfile holds per-model-family estimation factors.
// latinPerToken is the average number of non-CJK graphemes per token;
// cjkPerToken is the average number of CJK graphemes per token.
type modelProfile struct {
	latinPerToken float64
	cjkPerToken   float64
}

var profiles = map[string]modelProfile{
	"gemini": {latinPerToken: 4.0, cjkPerToken: 1.0},
	"gpt":    {latinPerToken: 4.0, cjkPerToken: 1.2},
}

var defaultProfile = modelProfile{latinPerToken: 4.0, cjkPerToken: 1.0}

func profileFor(model string) modelProfile {
	model = strings.ToLower(model)
	for prefix, p := range profiles {
		if strings.HasPrefix(model, prefix) {
			return p
		}
	}
	return defaultProfile
}

// Estimate returns an approximate token count of text for the given model.
// Pure function; result is always >= 1 for non-empty text.
func Estimate(text, model string) int {
	if text == "" {
		return 0
	}
	p := profileFor(model)

	var latin, cjk int
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) > 0 && isCJK(runes[0]) {
			cjk++
		} else {
			latin++
		}
	}

	est := int(float64(latin)/p.latinPerToken + float64(cjk)/p.cjkPerToken + 0.5)
	if est < 1 {
		est = 1
	}
	return est
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
