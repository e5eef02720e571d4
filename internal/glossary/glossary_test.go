package glossary

import (
	"strings"
	"testing"
)

func TestEncodeDecodeMappings(t *testing.T) {
	in := []TermMapping{{Source: "pipeline", Target: "流水线"}}
	data, err := EncodeMappings(in)
	if err != nil {
		t.Fatalf("EncodeMappings failed: %v", err)
	}
	if !strings.Contains(string(data), `"zh"`) {
		t.Fatalf("expected zh key in output, got: %s", string(data))
	}
	out, err := DecodeMappings(data)
	if err != nil {
		t.Fatalf("DecodeMappings failed: %v", err)
	}
	if len(out) != 1 || out[0].Source != "pipeline" || out[0].Target != "流水线" {
		t.Fatalf("unexpected decoded mappings: %+v", out)
	}
}

func TestDecodeMappings_MissingKey(t *testing.T) {
	data := []byte(`[{"en":"cache"}]`)
	_, err := DecodeMappings(data)
	if err == nil {
		t.Fatalf("expected error for missing target key")
	}
}

func TestPromptSection_SortedAndNumbered(t *testing.T) {
	g := New(map[string]string{
		"token":   "词元",
		"chunk":   "分块",
		"  ":      "忽略",
		"dropped": "",
	})
	got := g.PromptSection()
	want := "1. chunk => 分块\n2. token => 词元\n"
	if got != want {
		t.Fatalf("unexpected prompt section:\n%q\nwant:\n%q", got, want)
	}
}

func TestPromptSection_Empty(t *testing.T) {
	if got := New(nil).PromptSection(); got != "" {
		t.Fatalf("expected empty section, got %q", got)
	}
	var g *Glossary
	if g.Len() != 0 {
		t.Fatalf("expected nil glossary to report zero terms")
	}
}
