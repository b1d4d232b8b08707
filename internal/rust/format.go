package rust

import (
	"strings"

	"github.com/contaixt/laibrary/internal/model"
)

// FormatNamespace renders a namespace as its doc comment, written as `//!`
// lines, followed by the source of each symbol separated by a blank line.
func (a *Analyser) FormatNamespace(ns model.Namespace) (string, error) {
	parts := make([]string, 0, len(ns.Symbols)+1)
	if ns.DocComment != "" {
		lines := strings.Split(ns.DocComment, "\n")
		for i, l := range lines {
			if l == "" {
				lines[i] = "//!"
			} else {
				lines[i] = "//! " + l
			}
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	for _, s := range ns.Symbols {
		parts = append(parts, s.SourceCode)
	}
	return strings.Join(parts, "\n\n"), nil
}
