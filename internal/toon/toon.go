// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of a library's public API summary.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/contaixt/laibrary/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode summarises a library as TOON: its name and version, one row per
// namespace and one row per symbol with the symbol's signature line.
func Encode(meta model.PackageMetadata, namespaces []model.Namespace) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("library: %s", encodeValue(meta.Name)))
	parts = append(parts, fmt.Sprintf("version: %s", encodeValue(meta.Version)))

	var nsRows [][]string
	for i := range namespaces {
		ns := &namespaces[i]
		nsRows = append(nsRows, []string{
			ns.Name,
			fmt.Sprintf("%d", len(ns.Symbols)),
			firstLine(ns.DocComment),
		})
	}
	parts = append(parts, formatTabular("namespaces", []string{"name", "symbols", "doc"}, nsRows))

	var symbolRows [][]string
	for i := range namespaces {
		ns := &namespaces[i]
		for j := range ns.Symbols {
			sym := &ns.Symbols[j]
			symbolRows = append(symbolRows, []string{
				ns.Name,
				sym.Name,
				Signature(sym.SourceCode),
			})
		}
	}
	parts = append(parts, formatTabular("symbols", []string{"namespace", "name", "signature"}, symbolRows))

	return strings.Join(parts, "\n")
}

// Signature returns the first line of source that is not a comment or an
// attribute, without a trailing opening brace.
func Signature(source string) string {
	depth := 0 // open attribute brackets
	inBlock := false
	for _, line := range strings.Split(source, "\n") {
		l := strings.TrimSpace(line)
		switch {
		case inBlock:
			if strings.Contains(l, "*/") {
				inBlock = false
			}
			continue
		case depth > 0:
			depth += strings.Count(l, "[") - strings.Count(l, "]")
			continue
		case l == "", strings.HasPrefix(l, "//"):
			continue
		case strings.HasPrefix(l, "/*"):
			inBlock = !strings.Contains(l, "*/")
			continue
		case strings.HasPrefix(l, "#[") || strings.HasPrefix(l, "#!["):
			depth = strings.Count(l, "[") - strings.Count(l, "]")
			continue
		}
		return strings.TrimSpace(strings.TrimSuffix(l, "{"))
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
