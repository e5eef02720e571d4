package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Provider != DefaultProvider {
		t.Fatalf("expected default provider %q, got %q", DefaultProvider, f.Provider)
	}
	if f.MaxTokens != DefaultMaxTokens {
		t.Fatalf("expected default max_tokens %d, got %d", DefaultMaxTokens, f.MaxTokens)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "provider = \"openai\"\nmodel = \"gpt-5.2\"\nmax_tokens = 500\nverbose = true\n"
	if err := os.WriteFile(filepath.Join(dir, "hanmd.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Provider != "openai" || f.Model != "gpt-5.2" || f.MaxTokens != 500 || !f.Verbose {
		t.Fatalf("unexpected config: %+v", f)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "hanmd.toml"), []byte("provider = ["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HANMD_PROVIDER", "gemini")

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Provider != "gemini" {
		t.Fatalf("expected env override, got %q", f.Provider)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
