package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaixt/laibrary/internal/model"
)

// lineFormatter joins symbol sources with single newlines.
type lineFormatter struct{}

func (lineFormatter) FormatNamespace(ns model.Namespace) (string, error) {
	parts := make([]string, len(ns.Symbols))
	for i, s := range ns.Symbols {
		parts[i] = s.SourceCode
	}
	return strings.Join(parts, "\n"), nil
}

type failingFormatter struct{ fail string }

var errBroken = errors.New("broken namespace")

func (f failingFormatter) FormatNamespace(ns model.Namespace) (string, error) {
	if ns.Name == f.fail {
		return "", errBroken
	}
	return "ok", nil
}

var testMetadata = model.PackageMetadata{
	Name:          "test-lib",
	Version:       "0.1.0",
	Documentation: "\n  A test library.\n\n",
}

func TestLibrary(t *testing.T) {
	t.Parallel()
	namespaces := []model.Namespace{
		{
			Name: "test",
			Symbols: []model.Symbol{
				{Name: "test", SourceCode: "pub fn test() -> () {}"},
				{Name: "Test", SourceCode: "pub struct Test { field: String }"},
				{Name: "TestEnum", SourceCode: "pub enum TestEnum { A, B }"},
			},
		},
		{Name: "empty"},
	}

	got, err := Library(testMetadata, namespaces, lineFormatter{})
	require.NoError(t, err)

	want := `<library name="test-lib" version="0.1.0">
    <documentation>
A test library.
    </documentation>
    <api>
        <namespace name="test">
pub fn test() -> () {}
pub struct Test { field: String }
pub enum TestEnum { A, B }
        </namespace>
        <namespace name="empty">

        </namespace>

    </api>
</library>`
	assert.Equal(t, want, got)
}

func TestLibraryEmpty(t *testing.T) {
	t.Parallel()

	got, err := Library(testMetadata, nil, lineFormatter{})
	require.NoError(t, err)

	assert.Contains(t, got, `<library name="test-lib" version="0.1.0">`)
	assert.Contains(t, got, "<documentation>\nA test library.\n    </documentation>")
	assert.Contains(t, got, "<api>\n\n    </api>")
	assert.NotContains(t, got, "<namespace")
	assert.True(t, strings.HasSuffix(got, "</library>"))
}

func TestLibraryFormattingError(t *testing.T) {
	t.Parallel()
	namespaces := []model.Namespace{{Name: "good"}, {Name: "bad"}, {Name: "never"}}

	got, err := Library(testMetadata, namespaces, failingFormatter{fail: "bad"})
	require.Error(t, err)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, model.ErrFormatting)
	assert.ErrorIs(t, err, errBroken)

	var fe *model.FormattingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "bad", fe.Namespace)
}
