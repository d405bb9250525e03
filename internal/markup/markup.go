// Package markup wraps the tolerant x/net/html parser behind the small set
// of tree queries the feature extractors need.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is the parsed markup tree for one analysis call. It is built
// once and only read afterwards.
type Document struct {
	root *html.Node
}

// Parse builds a Document from possibly-malformed markup. The underlying
// parser recovers from unclosed tags, bad nesting and stray bytes, so Parse
// always yields a usable tree.
func Parse(raw string) *Document {
	node, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// html.Parse only fails on reader errors; a string reader has none.
		// Fall back to an empty document rather than surfacing a parse error.
		node = &html.Node{Type: html.DocumentNode}
	}
	return &Document{root: node}
}

// FindAll returns every element node with the given tag name, in document
// order.
func (d *Document) FindAll(tag string) []*html.Node {
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

// Body returns the document's body element, or nil when the tree has none.
func (d *Document) Body() *html.Node {
	var body *html.Node
	walk(d.root, func(n *html.Node) {
		if body == nil && n.Type == html.ElementNode && n.Data == "body" {
			body = n
		}
	})
	return body
}

// Attr returns the value of the named attribute on n, and whether it was
// present. Attribute keys are matched case-insensitively.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Text concatenates the descendant text nodes of n with separating spaces,
// collapses runs of whitespace to a single space and trims the ends.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// FindAllWithin returns descendant elements of n with the given tag name.
func FindAllWithin(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	walk(n, func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	})
	return out
}

// HasAncestor reports whether n has an ancestor element with the given tag.
func HasAncestor(n *html.Node, tag string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return true
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
