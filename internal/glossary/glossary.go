package glossary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TermMapping pins the Chinese rendering of an English source term so the
// model keeps terminology consistent across chunks.
type TermMapping struct {
	Source string
	Target string
}

// Glossary is a set of English-to-Chinese term mappings.
type Glossary struct {
	terms map[string]string
}

func New(terms map[string]string) *Glossary {
	g := &Glossary{terms: make(map[string]string, len(terms))}
	for src, tgt := range terms {
		src = strings.TrimSpace(src)
		tgt = strings.TrimSpace(tgt)
		if src == "" || tgt == "" {
			continue
		}
		g.terms[src] = tgt
	}
	return g
}

func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.terms)
}

// PromptSection renders the glossary as a numbered term list for inclusion in
// a translation prompt. Returns "" when the glossary is empty.
func (g *Glossary) PromptSection() string {
	if g.Len() == 0 {
		return ""
	}
	sources := make([]string, 0, len(g.terms))
	for src := range g.terms {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var sb strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&sb, "%d. %s => %s\n", i+1, src, g.terms[src])
	}
	return sb.String()
}

func EncodeMappings(mappings []TermMapping) ([]byte, error) {
	out := make([]map[string]string, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, map[string]string{
			"en": m.Source,
			"zh": m.Target,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func DecodeMappings(data []byte) ([]TermMapping, error) {
	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	mappings := make([]TermMapping, 0, len(raw))
	for _, entry := range raw {
		srcVal, ok := entry["en"]
		if !ok {
			return nil, fmt.Errorf("missing source field %q", "en")
		}
		tgtVal, ok := entry["zh"]
		if !ok {
			return nil, fmt.Errorf("missing target field %q", "zh")
		}
		mappings = append(mappings, TermMapping{
			Source: srcVal,
			Target: tgtVal,
		})
	}
	return mappings, nil
}
