// Package rust extracts the public API of Rust crates.
//
// The crate is read starting at its root module (src/lib.rs, or src/main.rs
// for binaries). Module declarations are followed to their files, public
// items are collected with their doc comments and attributes, and `pub use`
// re-exports are resolved so that every item appears in each public module
// that exposes it.
package rust

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/contaixt/laibrary/internal/model"
)

// LanguageName is the name the analyser is registered under.
const LanguageName = "rust"

var errNoEntryPoint = errors.New("no src/lib.rs or src/main.rs among source files")

// entryPoints are the crate root files, in order of preference.
var entryPoints = []string{"src/lib.rs", "src/main.rs"}

// Analyser implements lang.Analyser for Rust.
type Analyser struct {
	logger *log.Logger
}

// Option configures an Analyser.
type Option func(*Analyser)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyser) {
		a.logger = logger
	}
}

// New returns a Rust analyser.
func New(opts ...Option) *Analyser {
	a := &Analyser{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns "rust".
func (a *Analyser) Name() string { return LanguageName }

// FileExtensions returns the extensions of Rust source files.
func (a *Analyser) FileExtensions() []string { return []string{".rs"} }

// ParserLanguage returns the tree-sitter Rust grammar.
func (a *Analyser) ParserLanguage() *sitter.Language { return tsrust.GetLanguage() }

// ExtractPublicAPI finds the crate root module of the package at root among
// files and builds its namespaces.
func (a *Analyser) ExtractPublicAPI(ctx context.Context, root string, files []string, packageName string, parser *sitter.Parser) ([]model.Namespace, error) {
	entry, err := entryPoint(root, files)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("crate root", "file", entry)
	return BuildPublicAPI(ctx, entry, packageName, parser, a.logger)
}

// entryPoint picks the crate root file of the package at root, preferring
// a library. Roots of nested packages, such as workspace members, are ignored.
func entryPoint(root string, files []string) (string, error) {
	for _, want := range entryPoints {
		for _, f := range files {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				continue
			}
			if filepath.ToSlash(rel) == want {
				return f, nil
			}
		}
	}
	return "", &model.ParseError{Path: filepath.Join(root, entryPoints[0]), Err: errNoEntryPoint}
}
