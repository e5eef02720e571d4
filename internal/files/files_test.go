package files

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.md")

	if err := AtomicWrite(path, []byte("# 标题\n"), 0600); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# 标题\n" {
		t.Errorf("content = %q", data)
	}

	// Overwrite in place.
	if err := AtomicWrite(path, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWrite overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("overwrite content = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file leaked: %s", e.Name())
		}
	}
}

func TestSafePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if changed || got != path {
		t.Errorf("non-existing path should be unchanged, got %q changed=%v", got, changed)
	}

	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	got, changed, err = SafePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("existing path should be adjusted")
	}
	want := filepath.Join(dir, "report_1.json")
	if got != want {
		t.Errorf("SafePath = %q, want %q", got, want)
	}
}

func TestRejectSymlinkPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.Mkdir(target, 0700); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	if err := RejectSymlinkPath(filepath.Join(link, "out.md")); err == nil {
		t.Error("expected rejection for path under symlink")
	}
	if err := RejectSymlinkPath(filepath.Join(target, "out.md")); err != nil {
		t.Errorf("plain path rejected: %v", err)
	}
	if err := RejectSymlinkPath("  "); err == nil {
		t.Error("expected rejection for empty path")
	}
}
