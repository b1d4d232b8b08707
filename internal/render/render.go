// Package render writes the library documentation artifact.
package render

import (
	"fmt"
	"strings"

	"github.com/contaixt/laibrary/internal/model"
)

// NamespaceFormatter renders the body of one namespace.
type NamespaceFormatter interface {
	FormatNamespace(ns model.Namespace) (string, error)
}

// Library renders metadata and namespaces as a <library> document. Each
// namespace body comes from f; the first formatter error aborts the render.
func Library(meta model.PackageMetadata, namespaces []model.Namespace, f NamespaceFormatter) (string, error) {
	var api strings.Builder
	for _, ns := range namespaces {
		body, err := f.FormatNamespace(ns)
		if err != nil {
			return "", &model.FormattingError{Namespace: ns.Name, Err: err}
		}
		fmt.Fprintf(&api, "        <namespace name=\"%s\">\n%s\n        </namespace>\n", ns.Name, body)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<library name=\"%s\" version=\"%s\">\n", meta.Name, meta.Version)
	b.WriteString("    <documentation>\n")
	b.WriteString(strings.TrimSpace(meta.Documentation))
	b.WriteString("\n    </documentation>\n")
	b.WriteString("    <api>\n")
	b.WriteString(api.String())
	b.WriteString("\n    </api>\n")
	b.WriteString("</library>")
	return b.String(), nil
}
