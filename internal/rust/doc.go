package rust

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/contaixt/laibrary/internal/parse"
)

var pathAttrRe = regexp.MustCompile(`^path\s*=\s*"([^"]*)"$`)

// isOuterDoc reports whether a comment documents the item that follows it.
func isOuterDoc(text string) bool {
	if strings.HasPrefix(text, "///") {
		return !strings.HasPrefix(text, "////")
	}
	if strings.HasPrefix(text, "/**") {
		return !strings.HasPrefix(text, "/***") && text != "/**/"
	}
	return false
}

// isInnerDoc reports whether a comment documents its enclosing module.
func isInnerDoc(text string) bool {
	return strings.HasPrefix(text, "//!") || strings.HasPrefix(text, "/*!")
}

// docText strips comment markers from doc comments and joins their lines.
func docText(comments []string) string {
	var lines []string
	for _, c := range comments {
		switch {
		case strings.HasPrefix(c, "///"), strings.HasPrefix(c, "//!"):
			line := strings.TrimRight(c[3:], "\r\n")
			lines = append(lines, strings.TrimPrefix(line, " "))
		case strings.HasPrefix(c, "/**"), strings.HasPrefix(c, "/*!"):
			body := strings.TrimSuffix(c[3:], "*/")
			for _, l := range strings.Split(body, "\n") {
				l = strings.TrimSpace(l)
				l = strings.TrimPrefix(l, "*")
				lines = append(lines, strings.TrimPrefix(l, " "))
			}
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// outerDocs returns the doc comment texts among the leading nodes of an item.
func outerDocs(leads []*sitter.Node, src []byte) []string {
	var docs []string
	for _, n := range leads {
		if n.Type() == "attribute_item" {
			continue
		}
		if text := parse.NodeText(n, src); isOuterDoc(text) {
			docs = append(docs, text)
		}
	}
	return docs
}

// attributes returns the contents of the #[...] attributes among leads,
// with whitespace collapsed: `#[cfg( test )]` yields "cfg(test)".
func attributes(leads []*sitter.Node, src []byte) []string {
	var attrs []string
	for _, n := range leads {
		if n.Type() != "attribute_item" {
			continue
		}
		text := parse.CollapseWhitespace(parse.NodeText(n, src))
		text = strings.TrimSuffix(strings.TrimPrefix(text, "#["), "]")
		attrs = append(attrs, strings.TrimSpace(text))
	}
	return attrs
}

func hasAttribute(attrs []string, name string) bool {
	for _, a := range attrs {
		if a == name {
			return true
		}
	}
	return false
}

// pathAttribute returns the value of a #[path = "..."] attribute.
func pathAttribute(attrs []string) (string, bool) {
	for _, a := range attrs {
		if m := pathAttrRe.FindStringSubmatch(a); m != nil {
			return m[1], true
		}
	}
	return "", false
}
