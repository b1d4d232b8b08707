package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverRustFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/lib.rs", "pub fn hello() {}")
	writeFile(t, dir, "src/util/mod.rs", "pub fn helper() {}")
	// Manifest is not a source file
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"x\"")
	// Hidden file should be ignored
	writeFile(t, dir, "src/.hidden.rs", "secret")

	entries, err := Files(dir, []string{".rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[1].Path != filepath.Join("src", "util", "mod.rs") {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}

	for _, e := range entries {
		if !filepath.IsAbs(e.Abs) {
			t.Errorf("entry %q: Abs = %q, want absolute path", e.Path, e.Abs)
		}
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "target/debug/build/out.rs", "")
	writeFile(t, dir, "vendor/dep/src/lib.rs", "")
	writeFile(t, dir, ".cargo/registry/lib.rs", "")

	entries, err := Files(dir, []string{".rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("expected src/lib.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.rs", "")
	writeFile(t, dir, "lib.rs", "")

	entries, err := Files(dir, []string{".rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for .rs filter, got %d", len(entries))
	}

	entries, err = Files(dir, []string{".py"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries for .py filter, got %d", len(entries))
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "generated/bindings.rs", "")

	entries, err := Files(dir, []string{".rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("expected src/lib.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.rs", "")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.rs"), filepath.Join(dir, "link.rs"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, []string{".rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "real.rs" {
		t.Errorf("expected real.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "missing"), []string{".rs"})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	got := Paths([]FileEntry{{Path: "a.rs", Abs: "/x/a.rs"}, {Path: "b.rs", Abs: "/x/b.rs"}})
	if len(got) != 2 || got[0] != "/x/a.rs" || got[1] != "/x/b.rs" {
		t.Errorf("Paths = %v", got)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
