package rust

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/contaixt/laibrary/internal/graph"
	"github.com/contaixt/laibrary/internal/model"
)

// ResolvedSymbol is a symbol together with every module path it is
// publicly visible from. Modules is sorted and never empty.
type ResolvedSymbol struct {
	Symbol  model.Symbol
	Modules []string
}

// SymbolResolution is the resolver's output.
type SymbolResolution struct {
	Symbols     []ResolvedSymbol
	DocComments map[string]string // module path -> doc comment
}

// ResolveSymbols builds the module tree from raw and follows its re-exports,
// so that each item is attributed to every public module that exposes it.
// A symbol re-exported under another name is reported separately under that
// name. Modules that are not publicly reachable contribute items only through
// re-exports.
func ResolveSymbols(raw *RawModuleGraph, logger *log.Logger) (SymbolResolution, error) {
	g := graph.New()
	for _, m := range raw.Modules {
		for _, sub := range m.Submodules {
			g.AddModule(sub.Path, sub.Public)
		}
	}

	var items []model.Symbol
	docs := make(map[string]string)
	for _, m := range raw.Modules {
		if m.Doc != "" && g.Reachable(m.Path) {
			docs[m.Path] = m.Doc
		}
		for _, sym := range m.Items {
			g.AddItem(m.Path, sym.Name, len(items))
			items = append(items, sym)
		}
	}

	for _, m := range raw.Modules {
		for _, u := range m.Uses {
			target, ok := useTarget(m.Path, u)
			if !ok {
				logger.Debug("skipping external re-export", "module", displayPath(m.Path), "path", strings.Join(u.Path, graph.Sep))
				continue
			}
			if u.Glob {
				g.AddGlob(m.Path, target)
			} else {
				g.AddReExport(m.Path, u.Alias, target)
			}
		}
	}

	placements, err := g.Resolve()
	if err != nil {
		return SymbolResolution{}, err
	}

	type visible struct {
		item int
		name string
	}
	index := make(map[visible]int)
	var symbols []ResolvedSymbol
	for _, p := range placements {
		key := visible{p.Item, p.Name}
		i, ok := index[key]
		if !ok {
			sym := items[p.Item]
			sym.Name = p.Name
			i = len(symbols)
			index[key] = i
			symbols = append(symbols, ResolvedSymbol{Symbol: sym})
		}
		symbols[i].Modules = append(symbols[i].Modules, p.Module)
	}

	for i := range symbols {
		sort.Strings(symbols[i].Modules)
	}
	sort.SliceStable(symbols, func(i, j int) bool {
		a, b := symbols[i], symbols[j]
		if a.Modules[0] != b.Modules[0] {
			return a.Modules[0] < b.Modules[0]
		}
		if a.Symbol.Name != b.Symbol.Name {
			return a.Symbol.Name < b.Symbol.Name
		}
		if a.Symbol.SourceCode != b.Symbol.SourceCode {
			return a.Symbol.SourceCode < b.Symbol.SourceCode
		}
		return strings.Join(a.Modules, "\x00") < strings.Join(b.Modules, "\x00")
	})

	logger.Debug("resolved symbols", "symbols", len(symbols), "items", len(items))
	return SymbolResolution{Symbols: symbols, DocComments: docs}, nil
}

// useTarget converts a use path written in module into a graph target.
// Paths into other crates cannot be resolved and report false.
func useTarget(module string, u UseEdge) (graph.Target, bool) {
	if u.Global || len(u.Path) == 0 {
		return graph.Target{}, false
	}
	switch u.Path[0] {
	case "crate":
		return graph.Target{Module: "", Segments: u.Path[1:]}, true
	case "self", "super":
		return graph.Target{Module: module, Segments: u.Path}, true
	case "$crate":
		return graph.Target{}, false
	}
	return graph.Target{Module: module, Segments: u.Path, Fallback: true}, true
}
