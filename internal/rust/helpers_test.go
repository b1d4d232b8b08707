package rust

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"github.com/contaixt/laibrary/internal/model"
	"github.com/contaixt/laibrary/internal/parse"
)

const stubCrateName = "test_crate"

func newTestParser(t *testing.T) *sitter.Parser {
	t.Helper()
	return parse.NewParser(New().ParserLanguage())
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeCrate writes files (relative path -> content) under a fresh directory
// and returns the directory.
func writeCrate(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func stubSymbol(name string) model.Symbol {
	return model.Symbol{Name: name, SourceCode: "pub fn " + name + "() {}"}
}

func findNamespace(namespaces []model.Namespace, name string) *model.Namespace {
	for i := range namespaces {
		if namespaces[i].Name == name {
			return &namespaces[i]
		}
	}
	return nil
}

func symbolNames(symbols []model.Symbol) []string {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name
	}
	return names
}

func findModule(g *RawModuleGraph, path string) *RawModule {
	for _, m := range g.Modules {
		if m.Path == path {
			return m
		}
	}
	return nil
}
