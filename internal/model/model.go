// Package model defines core data structures for laibrary.
package model

// Symbol is a public item of a library: its visible name and the verbatim
// source text of its declaration, including leading doc comments and attributes.
// Symbols are values; every namespace holds its own copies.
type Symbol struct {
	Name       string
	SourceCode string
}

// Namespace groups the public symbols visible under one fully qualified module path.
type Namespace struct {
	Name       string
	Symbols    []Symbol
	DocComment string // empty when the module is undocumented
}

// Symbol returns the first symbol with the given name.
func (n *Namespace) Symbol(name string) (Symbol, bool) {
	for _, s := range n.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

// PackageMetadata describes the library being documented.
type PackageMetadata struct {
	Name          string
	Version       string
	Documentation string
}
