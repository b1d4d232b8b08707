// Package lang defines the per-language analyser capability and the registry
// that maps language names to analysers.
package lang

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/contaixt/laibrary/internal/model"
)

// Analyser extracts and formats the public API of libraries written in one
// source language.
type Analyser interface {
	// Name is the language name used to select the analyser.
	Name() string

	// FileExtensions lists the source file extensions, with the leading dot.
	FileExtensions() []string

	// ParserLanguage returns the tree-sitter grammar for the language.
	ParserLanguage() *sitter.Language

	// PackageMetadata loads name, version and documentation for the
	// library rooted at root.
	PackageMetadata(root string) (model.PackageMetadata, error)

	// ExtractPublicAPI builds the namespaces of the library rooted at root
	// from its source files. The parser is configured with ParserLanguage.
	ExtractPublicAPI(ctx context.Context, root string, files []string, packageName string, parser *sitter.Parser) ([]model.Namespace, error)

	// FormatNamespace renders the body of one namespace.
	FormatNamespace(ns model.Namespace) (string, error)
}

// Registry maps language names to analysers. It is built once at startup
// and passed to whoever needs it.
type Registry struct {
	analysers map[string]Analyser
}

// NewRegistry returns a registry holding analysers, keyed by their Name.
// A later analyser with the same name replaces an earlier one.
func NewRegistry(analysers ...Analyser) *Registry {
	r := &Registry{analysers: make(map[string]Analyser, len(analysers))}
	for _, a := range analysers {
		r.analysers[a.Name()] = a
	}
	return r
}

// Get returns the analyser for language or an *model.UnsupportedLanguageError.
func (r *Registry) Get(language string) (Analyser, error) {
	a, ok := r.analysers[language]
	if !ok {
		return nil, &model.UnsupportedLanguageError{Language: language}
	}
	return a, nil
}

// Names returns the registered language names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analysers))
	for name := range r.analysers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
