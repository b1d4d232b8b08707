// Package parse turns source files into tree-sitter syntax trees.
package parse

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/contaixt/laibrary/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

var errNoTree = errors.New("parser produced no tree")

// Tree is a parsed source file. The tree references Source, so the two
// travel together; call Close when done walking it.
type Tree struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

// Root returns the root node of the syntax tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// HasErrors reports whether tree-sitter had to recover from syntax errors.
func (t *Tree) HasErrors() bool {
	return t.Root().HasError()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// NewParser creates a tree-sitter parser for language.
// Parsers are not safe for concurrent use.
func NewParser(language *sitter.Language) *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(language)
	return p
}

// File reads and parses the file at path.
func File(ctx context.Context, parser *sitter.Parser, path string) (*Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}
	return Source(ctx, parser, path, source)
}

// Source parses source, attributing failures to path.
func Source(ctx context.Context, parser *sitter.Parser, path string, source []byte) (*Tree, error) {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}
	if tree == nil {
		return nil, &model.ParseError{Path: path, Err: errNoTree}
	}
	return &Tree{Path: path, Source: source, tree: tree}, nil
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// NamedChildren returns the named children of node in source order.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	n := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, n)
	for i := 0; i < n; i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
