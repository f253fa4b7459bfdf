package diffview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codefionn/sbxpanel/internal/changes"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Cleanup() })
	return r
}

func mustBeEmptyPlaceholder(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("placeholder %s does not exist: %v", path, err)
	}
	if info.Size() != 0 {
		t.Errorf("placeholder %s is not empty (%d bytes)", path, info.Size())
	}
}

func TestResolveCreate(t *testing.T) {
	r := newTestResolver(t)

	spec, err := r.Resolve(changes.Entry{
		Destination: "/w/new.txt",
		Operation:   changes.OpCreate,
		Staged:      "/tmp/s",
	})
	if err != nil {
		t.Fatal(err)
	}

	mustBeEmptyPlaceholder(t, spec.Left)
	if spec.Right != "/tmp/s" {
		t.Errorf("right = %q, want /tmp/s", spec.Right)
	}
}

func TestResolveRemoveFallsBackToSource(t *testing.T) {
	r := newTestResolver(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "old-name.txt")
	if err := os.WriteFile(source, []byte("content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	spec, err := r.Resolve(changes.Entry{
		Destination: filepath.Join(dir, "does-not-exist.txt"),
		Operation:   changes.OpRemove,
		Source:      source,
	})
	if err != nil {
		t.Fatal(err)
	}

	if spec.Left != source {
		t.Errorf("left = %q, want %q", spec.Left, source)
	}
	mustBeEmptyPlaceholder(t, spec.Right)
}

func TestResolveRemoveNothingOnDisk(t *testing.T) {
	r := newTestResolver(t)

	spec, err := r.Resolve(changes.Entry{
		Destination: "/definitely/not/here.txt",
		Operation:   changes.OpRemove,
	})
	if err != nil {
		t.Fatal(err)
	}
	mustBeEmptyPlaceholder(t, spec.Left)
	mustBeEmptyPlaceholder(t, spec.Right)
}

func TestResolveRenamePrefersSource(t *testing.T) {
	r := newTestResolver(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "before.txt")
	if err := os.WriteFile(source, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	spec, err := r.Resolve(changes.Entry{
		Destination: filepath.Join(dir, "after.txt"),
		Operation:   changes.OpRename,
		Source:      source,
		Staged:      "/tmp/staged-after",
	})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Left != source {
		t.Errorf("left = %q, want %q", spec.Left, source)
	}
	if spec.Right != "/tmp/staged-after" {
		t.Errorf("right = %q, want /tmp/staged-after", spec.Right)
	}
}

func TestResolveModifyStagedPriority(t *testing.T) {
	r := newTestResolver(t)

	dir := t.TempDir()
	dest := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(dest, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// staged wins over tmp_path, tmp_path over destination.
	spec, err := r.Resolve(changes.Entry{Destination: dest, Operation: changes.OpModify, Staged: "/s", TmpPath: "/t"})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Left != dest || spec.Right != "/s" {
		t.Errorf("got left=%q right=%q, want left=%q right=/s", spec.Left, spec.Right, dest)
	}

	spec, err = r.Resolve(changes.Entry{Destination: dest, Operation: changes.OpModify, TmpPath: "/t"})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Right != "/t" {
		t.Errorf("right = %q, want /t", spec.Right)
	}

	spec, err = r.Resolve(changes.Entry{Destination: dest, Operation: "unknown-op"})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Right != dest {
		t.Errorf("right = %q, want %q", spec.Right, dest)
	}
}

func TestCleanupRemovesPlaceholders(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatal(err)
	}
	spec, err := r.Resolve(changes.Entry{Destination: "/nope", Operation: changes.OpCreate})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(spec.Left); !os.IsNotExist(err) {
		t.Errorf("placeholder %s survived cleanup", spec.Left)
	}
}

func TestRenderUnified(t *testing.T) {
	input := `--- a/foo.txt
+++ b/foo.txt
@@ -1,2 +1,2 @@
 context
-old line
+new line
`
	out := RenderUnified(input)
	if !strings.Contains(out, "old line") || !strings.Contains(out, "new line") {
		t.Errorf("rendered diff lost content:\n%s", out)
	}
	if !strings.Contains(out, "file(s) changed") {
		t.Errorf("rendered diff missing stat line:\n%s", out)
	}
}

func TestRenderUnifiedPassthroughOnGarbage(t *testing.T) {
	input := "error: sandbox is not running\n"
	if out := RenderUnified(input); out != input {
		t.Errorf("non-diff output should pass through unchanged, got %q", out)
	}
}
