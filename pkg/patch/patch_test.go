package patch

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietPatcher() *Patcher {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPatcher(logrus.NewEntry(logger))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "RELEASE")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPatchFileRewritesAssignment(t *testing.T) {
	path := writeFile(t, "FOO=/old/path\nBAR=/untouched\n")

	updated, err := quietPatcher().PatchFile(path, map[string]string{"FOO": "/new/path"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 1 || updated[0] != "FOO" {
		t.Fatalf("updated = %v, want [FOO]", updated)
	}

	want := "FOO=/new/path\nBAR=/untouched\n"
	if got := readFile(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestPatchFilePreservesOperators(t *testing.T) {
	path := writeFile(t, "FOO?=/old\nBAR:=/old\nBAZ=/old\n")
	values := map[string]string{"FOO": "/new", "BAR": "/new", "BAZ": "/new"}

	if _, err := quietPatcher().PatchFile(path, values); err != nil {
		t.Fatal(err)
	}

	want := "FOO?=/new\nBAR:=/new\nBAZ=/new\n"
	if got := readFile(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestPatchFileSkipsCommentsAndIndentedLines(t *testing.T) {
	content := "#FOO=/old/path\n    FOO=/old/path\n\tFOO=/old/path\n"
	path := writeFile(t, content)

	updated, err := quietPatcher().PatchFile(path, map[string]string{"FOO": "/new/path"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 0 {
		t.Fatalf("expected no updates, got %v", updated)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("protected lines changed: %q", got)
	}
}

func TestPatchFileNoOpIsByteIdenticalAndNotRewritten(t *testing.T) {
	content := "OTHER=/path\n# comment\n\nKEEP:=value\n"
	path := writeFile(t, content)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	updated, err := quietPatcher().PatchFile(path, map[string]string{"FOO": "/new"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 0 {
		t.Fatalf("expected no updates, got %v", updated)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("no-op patch modified content: %q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Error("no-op patch touched the file on disk")
	}
}

func TestPatchFileAlreadyCorrectValueNotRewritten(t *testing.T) {
	content := "FOO=/new/path\n"
	path := writeFile(t, content)

	updated, err := quietPatcher().PatchFile(path, map[string]string{"FOO": "/new/path"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 0 {
		t.Fatalf("expected idempotent second pass, got updates %v", updated)
	}
}

func TestPatchFileDiscardsTrailingWhitespace(t *testing.T) {
	path := writeFile(t, "FOO=/old/path   \n")

	updated, err := quietPatcher().PatchFile(path, map[string]string{"FOO": "/new/path"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected one update, got %v", updated)
	}
	if got := readFile(t, path); got != "FOO=/new/path\n" {
		t.Errorf("file = %q, want %q", got, "FOO=/new/path\n")
	}
}

func TestPatchFilesContinuesPastFailures(t *testing.T) {
	good := writeFile(t, "FOO=/old\n")
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	updated, patched, failed := quietPatcher().PatchFiles(
		[]string{missing, good},
		map[string]string{"FOO": "/new"},
	)
	if patched != 1 {
		t.Fatalf("patched = %d, want 1", patched)
	}
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if len(updated) != 1 || updated[0] != "FOO" {
		t.Fatalf("updated = %v, want [FOO]", updated)
	}
}
