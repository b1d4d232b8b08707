package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaixt/laibrary/internal/model"
)

func TestFormatNamespace(t *testing.T) {
	t.Parallel()
	ns := model.Namespace{
		Name: "test",
		Symbols: []model.Symbol{
			{Name: "test", SourceCode: "pub fn test() -> () {}"},
			{Name: "TestEnum", SourceCode: "pub enum TestEnum { A, B }"},
		},
	}

	got, err := New().FormatNamespace(ns)
	require.NoError(t, err)
	assert.Equal(t, "pub fn test() -> () {}\n\npub enum TestEnum { A, B }", got)
}

func TestFormatNamespaceDocComment(t *testing.T) {
	t.Parallel()
	ns := model.Namespace{
		Name:       "test",
		DocComment: "Utilities.\n\nSee below.",
		Symbols:    []model.Symbol{{Name: "f", SourceCode: "pub fn f() {}"}},
	}

	got, err := New().FormatNamespace(ns)
	require.NoError(t, err)
	assert.Equal(t, "//! Utilities.\n//!\n//! See below.\n\npub fn f() {}", got)
}

func TestFormatNamespaceEmpty(t *testing.T) {
	t.Parallel()

	got, err := New().FormatNamespace(model.Namespace{Name: "empty"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
