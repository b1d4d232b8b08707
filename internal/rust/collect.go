package rust

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/contaixt/laibrary/internal/graph"
	"github.com/contaixt/laibrary/internal/model"
	"github.com/contaixt/laibrary/internal/parse"
)

var errDuplicateFile = errors.New("module file included more than once")

// itemKinds are the declarations that become symbols when public.
var itemKinds = map[string]struct{}{
	"function_item": {},
	"struct_item":   {},
	"enum_item":     {},
	"union_item":    {},
	"type_item":     {},
	"trait_item":    {},
	"const_item":    {},
	"static_item":   {},
}

// UseEdge is one name republished by a `pub use` declaration.
type UseEdge struct {
	Path       []string // imported path, e.g. ["crate", "a", "f"]
	Alias      string   // local name; empty for globs
	Glob       bool
	Global     bool // path began with "::"
	Visibility string
}

// Submodule is a `mod` declaration inside a module.
type Submodule struct {
	Name   string
	Path   string
	Public bool
	Inline bool
	File   string
}

// RawModule holds what one module declares, before any resolution.
type RawModule struct {
	Path       string
	File       string
	Doc        string
	Items      []model.Symbol
	Submodules []Submodule
	Uses       []UseEdge
}

// RawModuleGraph is the collector's output. Modules[0] is the crate root;
// the rest follow in declaration order, depth first.
type RawModuleGraph struct {
	Modules []*RawModule
}

type collector struct {
	ctx    context.Context
	parser *sitter.Parser
	logger *log.Logger
	graph  *RawModuleGraph
	files  map[string]struct{}
}

// scope is a module body being walked.
type scope struct {
	mod  *RawModule
	dir  string // where files of child modules live
	file string
}

// CollectSymbols walks the module tree rooted at entry and records every
// public item, module declaration and `pub use` edge it finds.
func CollectSymbols(ctx context.Context, entry string, parser *sitter.Parser, logger *log.Logger) (*RawModuleGraph, error) {
	c := &collector{
		ctx:    ctx,
		parser: parser,
		logger: logger,
		graph:  &RawModuleGraph{},
		files:  make(map[string]struct{}),
	}
	root := &RawModule{Path: "", File: entry}
	c.graph.Modules = append(c.graph.Modules, root)
	if err := c.collectFile(root, entry, filepath.Dir(entry)); err != nil {
		return nil, err
	}
	return c.graph, nil
}

func (c *collector) collectFile(mod *RawModule, path, dir string) error {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if _, dup := c.files[key]; dup {
		return &model.ParseError{Path: path, Err: errDuplicateFile}
	}
	c.files[key] = struct{}{}

	tree, err := parse.File(c.ctx, c.parser, path)
	if err != nil {
		return err
	}
	defer tree.Close()

	if tree.HasErrors() {
		c.logger.Warn("syntax errors in file, using recovered tree", "file", path)
	}
	c.logger.Debug("collecting module", "module", displayPath(mod.Path), "file", path)

	inner, err := c.walk(scope{mod: mod, dir: dir, file: path}, tree.Root(), tree.Source)
	if err != nil {
		return err
	}
	if mod.Doc == "" {
		mod.Doc = inner
	}
	return nil
}

// walk visits the declarations of a source file or inline module body and
// returns the module's inner documentation.
func (c *collector) walk(sc scope, list *sitter.Node, src []byte) (string, error) {
	var (
		leads    []*sitter.Node
		inner    []string
		seenItem bool
	)
	for _, node := range parse.NamedChildren(list) {
		switch node.Type() {
		case "line_comment", "block_comment":
			text := parse.NodeText(node, src)
			switch {
			case isOuterDoc(text):
				leads = append(leads, node)
			case isInnerDoc(text):
				if !seenItem {
					inner = append(inner, text)
				}
				leads = nil
			}
			continue
		case "attribute_item":
			leads = append(leads, node)
			continue
		case "inner_attribute_item":
			leads = nil
			continue
		}

		seenItem = true
		if err := c.item(sc, node, leads, src); err != nil {
			return "", err
		}
		leads = nil
	}
	return docText(inner), nil
}

func (c *collector) item(sc scope, node *sitter.Node, leads []*sitter.Node, src []byte) error {
	kind := node.Type()
	switch kind {
	case "mod_item":
		return c.module(sc, node, leads, src)
	case "use_declaration":
		if vis := visibility(node, src); vis == "pub" {
			sc.mod.Uses = append(sc.mod.Uses, useEdges(node, src, vis)...)
		}
		return nil
	case "macro_definition":
		if !hasAttribute(attributes(leads, src), "macro_export") {
			return nil
		}
		// exported macros always live at the crate root
		if sym, ok := symbol(node, leads, src); ok {
			root := c.graph.Modules[0]
			root.Items = append(root.Items, sym)
		}
		return nil
	}

	if _, ok := itemKinds[kind]; !ok {
		return nil
	}
	if visibility(node, src) != "pub" {
		return nil
	}
	if sym, ok := symbol(node, leads, src); ok {
		sc.mod.Items = append(sc.mod.Items, sym)
	}
	return nil
}

func (c *collector) module(sc scope, node *sitter.Node, leads []*sitter.Node, src []byte) error {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := parse.NodeText(nameNode, src)
	attrs := attributes(leads, src)
	if hasAttribute(attrs, "cfg(test)") {
		c.logger.Debug("skipping test-only module", "module", graph.Join(sc.mod.Path, name))
		return nil
	}

	child := &RawModule{
		Path: graph.Join(sc.mod.Path, name),
		Doc:  docText(outerDocs(leads, src)),
	}
	sub := Submodule{
		Name:   name,
		Path:   child.Path,
		Public: visibility(node, src) == "pub",
	}
	c.graph.Modules = append(c.graph.Modules, child)

	if body := node.ChildByFieldName("body"); body != nil {
		child.File = sc.file
		sub.Inline, sub.File = true, sc.file
		sc.mod.Submodules = append(sc.mod.Submodules, sub)

		inner, err := c.walk(scope{mod: child, dir: filepath.Join(sc.dir, name), file: sc.file}, body, src)
		if err != nil {
			return err
		}
		if child.Doc == "" {
			child.Doc = inner
		}
		return nil
	}

	file, err := moduleFile(sc, name, attrs)
	if err != nil {
		return err
	}
	child.File, sub.File = file, file
	sc.mod.Submodules = append(sc.mod.Submodules, sub)
	return c.collectFile(child, file, moduleDir(file))
}

// moduleFile locates the file holding the body of `mod name;`.
func moduleFile(sc scope, name string, attrs []string) (string, error) {
	if p, ok := pathAttribute(attrs); ok {
		file := filepath.Join(filepath.Dir(sc.file), p)
		if !fileExists(file) {
			return "", &model.ParseError{Path: file, Err: fmt.Errorf("%w: mod %s", model.ErrMissingModule, name)}
		}
		return file, nil
	}

	candidates := []string{
		filepath.Join(sc.dir, name+".rs"),
		filepath.Join(sc.dir, name, "mod.rs"),
	}
	for _, f := range candidates {
		if fileExists(f) {
			return f, nil
		}
	}
	return "", &model.ParseError{
		Path: candidates[0],
		Err:  fmt.Errorf("%w: mod %s (looked for %s)", model.ErrMissingModule, name, strings.Join(candidates, ", ")),
	}
}

// moduleDir is where the children of the module defined in file live:
// next to a mod.rs, in a directory named after any other file.
func moduleDir(file string) string {
	if filepath.Base(file) == "mod.rs" {
		return filepath.Dir(file)
	}
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func symbol(node *sitter.Node, leads []*sitter.Node, src []byte) (model.Symbol, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return model.Symbol{}, false
	}
	start := node.StartByte()
	if len(leads) > 0 {
		start = leads[0].StartByte()
	}
	return model.Symbol{
		Name:       parse.NodeText(nameNode, src),
		SourceCode: string(src[start:node.EndByte()]),
	}, true
}

// visibility returns the item's visibility modifier, e.g. "pub" or
// "pub(crate)", or "" for private items.
func visibility(node *sitter.Node, src []byte) string {
	for _, child := range parse.NamedChildren(node) {
		if child.Type() == "visibility_modifier" {
			return strings.ReplaceAll(parse.CollapseWhitespace(parse.NodeText(child, src)), " ", "")
		}
	}
	return ""
}

func useEdges(node *sitter.Node, src []byte, vis string) []UseEdge {
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return nil
	}
	var edges []UseEdge
	expandUse(arg, nil, false, src, func(e UseEdge) {
		e.Visibility = vis
		edges = append(edges, e)
	})
	return edges
}

// expandUse flattens a use tree into one edge per republished name.
func expandUse(node *sitter.Node, prefix []string, global bool, src []byte, emit func(UseEdge)) {
	switch node.Type() {
	case "use_as_clause":
		p, a := node.ChildByFieldName("path"), node.ChildByFieldName("alias")
		if p == nil || a == nil {
			return
		}
		alias := parse.NodeText(a, src)
		if alias == "_" {
			return
		}
		segs, g := splitPath(parse.NodeText(p, src))
		emit(UseEdge{Path: concat(prefix, segs), Alias: alias, Global: global || g})

	case "use_wildcard":
		var segs []string
		g := false
		if node.NamedChildCount() > 0 {
			segs, g = splitPath(parse.NodeText(node.NamedChild(0), src))
		}
		if path := concat(prefix, segs); len(path) > 0 {
			emit(UseEdge{Path: path, Glob: true, Global: global || g})
		}

	case "scoped_use_list":
		segs := prefix
		if p := node.ChildByFieldName("path"); p != nil {
			s, g := splitPath(parse.NodeText(p, src))
			segs, global = concat(prefix, s), global || g
		}
		if list := node.ChildByFieldName("list"); list != nil {
			for _, child := range parse.NamedChildren(list) {
				expandUse(child, segs, global, src, emit)
			}
		}

	case "use_list":
		for _, child := range parse.NamedChildren(node) {
			expandUse(child, prefix, global, src, emit)
		}

	case "identifier", "scoped_identifier", "self", "crate", "super":
		segs, g := splitPath(parse.NodeText(node, src))
		path := concat(prefix, segs)
		if len(path) > 0 && path[len(path)-1] == "self" {
			path = path[:len(path)-1]
		}
		if len(path) == 0 {
			return
		}
		alias := path[len(path)-1]
		if alias == "crate" || alias == "super" || alias == "self" {
			return
		}
		emit(UseEdge{Path: path, Alias: alias, Global: global || g})
	}
}

// splitPath splits `a :: b::c` into its segments and reports a leading "::".
func splitPath(text string) ([]string, bool) {
	clean := strings.Join(strings.Fields(text), "")
	global := strings.HasPrefix(clean, "::")
	clean = strings.TrimPrefix(clean, "::")
	if clean == "" {
		return nil, global
	}
	return strings.Split(clean, "::"), global
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func displayPath(path string) string {
	if path == "" {
		return "crate"
	}
	return path
}
