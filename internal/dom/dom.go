// Package dom is a small headless document model over golang.org/x/net/html.
//
// It gives server-side widgets the parts of a browser DOM they rely on:
// id and class lookup, class-list mutation and click events that bubble to
// ancestors. A Document is owned by a single request and is not safe for
// concurrent use.
package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	Root      *html.Node
	listeners map[*html.Node]map[string][]*Listener
}

// Parse reads an HTML or SVG document. Bare SVG markup is accepted; the
// parser places it inside a synthesized html/body.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SVG returns the first <svg> element in the document, or nil.
func (d *Document) SVG() *html.Node {
	return First(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.DataAtom == atom.Svg || n.Data == "svg")
	})
}

// ByID returns the first element whose id attribute equals id.
func (d *Document) ByID(id string) *html.Node {
	return First(d.Root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// First walks the subtree below root depth-first and returns the first
// element matching pred. root itself is not considered.
func First(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := First(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// QueryClass returns, in document order, every element below root that
// carries class. Like querySelectorAll it never includes root.
func QueryClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && HasClass(c, class) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Render serialises n and its subtree.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

func RenderString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
