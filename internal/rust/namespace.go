package rust

import (
	"github.com/contaixt/laibrary/internal/graph"
	"github.com/contaixt/laibrary/internal/model"
)

// ConstructNamespaces groups resolved symbols by module path. The root
// module is named crateName and every other module crateName::path.
// Namespaces appear in the order their paths are first seen; a module
// nobody placed a symbol into gets no namespace.
func ConstructNamespaces(resolution SymbolResolution, crateName string) []model.Namespace {
	index := make(map[string]int)
	var namespaces []model.Namespace

	for _, rs := range resolution.Symbols {
		for _, path := range rs.Modules {
			name := crateName
			if path != "" {
				name = graph.Join(crateName, path)
			}
			i, ok := index[name]
			if !ok {
				i = len(namespaces)
				index[name] = i
				namespaces = append(namespaces, model.Namespace{
					Name:       name,
					DocComment: resolution.DocComments[path],
				})
			}
			namespaces[i].Symbols = append(namespaces[i].Symbols, rs.Symbol)
		}
	}
	return namespaces
}
