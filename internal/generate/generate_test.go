package generate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaixt/laibrary/internal/discover"
	"github.com/contaixt/laibrary/internal/lang"
	"github.com/contaixt/laibrary/internal/model"
	"github.com/contaixt/laibrary/internal/rust"
)

func newRegistry() *lang.Registry {
	return lang.NewRegistry(rust.New())
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDemoCrate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n")
	writeFile(t, dir, "README.md", "# Demo\n")
	writeFile(t, dir, "src/lib.rs", `//! Demo crate.
pub mod module;
pub use module::Format;

/// Process.
pub fn process(format: Format) -> String {
    String::new()
}
`)
	writeFile(t, dir, "src/module.rs", "pub enum Format { Text, Binary }\n")
	return dir
}

const demoXML = `<library name="demo" version="0.1.0">
    <documentation>
# Demo
    </documentation>
    <api>
        <namespace name="demo">
//! Demo crate.

pub enum Format { Text, Binary }

/// Process.
pub fn process(format: Format) -> String {
    String::new()
}
        </namespace>
        <namespace name="demo::module">
pub enum Format { Text, Binary }
        </namespace>

    </api>
</library>`

func TestGenerateXML(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, demoXML, got)
}

func TestGenerateTOON(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir, Format: FormatTOON}, discardLogger())
	require.NoError(t, err)
	assert.Contains(t, got, "library: demo\nversion: 0.1.0\n")
	assert.Contains(t, got, "namespaces[2]{name,symbols,doc}:\n  demo,2,Demo crate.\n")
	assert.Contains(t, got, "symbols[3]{namespace,name,signature}:")
	assert.Contains(t, got, `  demo,process,"pub fn process(format: Format) -> String"`)
}

func TestGenerateUnsupportedLanguageBeforeIO(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := Generate(context.Background(), newRegistry(), Options{Language: "cobol", Root: missing}, discardLogger())
	require.ErrorIs(t, err, model.ErrUnsupportedLanguage)

	var ule *model.UnsupportedLanguageError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "cobol", ule.Language)
}

func TestGenerateUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: t.TempDir(), Format: "yaml"}, discardLogger())
	assert.ErrorContains(t, err, `unknown output format "yaml"`)
}

func TestGenerateMissingManifest(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/lib.rs", "pub fn f() {}\n")

	_, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir}, discardLogger())
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestGenerateMissingModuleFile(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "module.rs")))

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir}, discardLogger())
	assert.ErrorIs(t, err, model.ErrMissingModule)
	assert.Empty(t, got)
}

func TestGenerateCycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"loop\"\n")
	writeFile(t, dir, "src/lib.rs", "pub mod a;\npub mod b;\n")
	writeFile(t, dir, "src/a.rs", "pub use crate::b::x;\n")
	writeFile(t, dir, "src/b.rs", "pub use crate::a::x;\n")

	_, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir}, discardLogger())
	assert.ErrorIs(t, err, model.ErrReExportCycle)
}

func TestGenerateEmptyLibrary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"quiet\"\nversion = \"1.0.0\"\ndescription = \"Nothing public.\"\n")
	writeFile(t, dir, "src/lib.rs", "fn private() {}\n")

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "<library name=\"quiet\" version=\"1.0.0\">\n    <documentation>\nNothing public.\n    </documentation>\n    <api>\n\n    </api>\n</library>", got)
}

func TestGenerateUsesFreshCache(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	cache := filepath.Join(t.TempDir(), "api.xml")
	opts := Options{Language: "rust", Root: dir, CachePath: cache}

	got, err := Generate(context.Background(), newRegistry(), opts, discardLogger())
	require.NoError(t, err)
	data, err := os.ReadFile(cache)
	require.NoError(t, err)
	assert.Equal(t, "laibrary-cache language=rust format=xml\n"+got, string(data))

	// A cache newer than every source is returned without its header.
	require.NoError(t, os.WriteFile(cache, []byte(cacheHeader("rust", FormatXML)+"cached"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cache, future, future))

	got, err = Generate(context.Background(), newRegistry(), opts, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "cached", got)
}

func TestGenerateIgnoresStaleCache(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	cache := filepath.Join(t.TempDir(), "api.xml")
	require.NoError(t, os.WriteFile(cache, []byte("stale"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cache, past, past))

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir, CachePath: cache}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, demoXML, got)
}

func TestGenerateCacheKeyedByFormat(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	cache := filepath.Join(t.TempDir(), "api.cache")

	xml, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir, Format: FormatXML, CachePath: cache}, discardLogger())
	require.NoError(t, err)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cache, future, future))

	summary, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir, Format: FormatTOON, CachePath: cache}, discardLogger())
	require.NoError(t, err)
	assert.NotEqual(t, xml, summary)
	assert.Contains(t, summary, "library: demo\nversion: 0.1.0\n")

	data, err := os.ReadFile(cache)
	require.NoError(t, err)
	assert.Equal(t, cacheHeader("rust", FormatTOON)+summary, string(data))
}

func TestGenerateIgnoresHeaderlessCache(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	cache := filepath.Join(t.TempDir(), "api.xml")
	require.NoError(t, os.WriteFile(cache, []byte("plain output"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cache, future, future))

	got, err := Generate(context.Background(), newRegistry(), Options{Language: "rust", Root: dir, CachePath: cache}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, demoXML, got)
}

func TestCacheIsFreshManifestChange(t *testing.T) {
	t.Parallel()
	dir := writeDemoCrate(t)
	cache := filepath.Join(t.TempDir(), "api.xml")
	require.NoError(t, os.WriteFile(cache, []byte("x"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes(cache, now, now))

	past := now.Add(-time.Hour)
	for _, rel := range []string{"Cargo.toml", "README.md", "src/lib.rs", "src/module.rs"} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, rel), past, past))
	}
	files := []string{"src/lib.rs", "src/module.rs"}
	entries := entriesFor(dir, files)
	assert.True(t, cacheIsFresh(cache, dir, entries))

	later := now.Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "Cargo.toml"), later, later))
	assert.False(t, cacheIsFresh(cache, dir, entries))
}

func entriesFor(root string, rels []string) []discover.FileEntry {
	entries := make([]discover.FileEntry, len(rels))
	for i, rel := range rels {
		entries[i] = discover.FileEntry{Path: filepath.FromSlash(rel), Abs: filepath.Join(root, rel)}
	}
	return entries
}
