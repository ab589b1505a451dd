// Package markup is the structural parser used by the compiler. It wraps
// golang.org/x/net/html behind a small surface: parse text into a mutable
// tree, find elements by tag, remove or insert nodes, and render the tree back
// to text.
//
// Parsing is best-effort. Malformed input never produces an error; the HTML5
// parsing algorithm repairs it the way a browser would.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// byteOrderMark is dropped from the start of a text before parsing; left in,
// the parser would treat it as body text and discard the doctype after it.
const byteOrderMark = "\ufeff"

// Document is a parsed markup tree. A full document is rooted at an
// html.DocumentNode; a fragment is held by a detached <body> container that is
// never rendered itself.
type Document struct {
	root     *html.Node
	fragment bool
}

// Parse parses text into a Document. Texts whose first token, after
// whitespace and comments, is a doctype or an <html> tag are parsed as full
// documents, anything else as a fragment.
//
// Fragments are parsed in a <template> context, which keeps table parts
// (<tr>, <td>, <col>) and head elements (<meta>, <title>) where a <body>
// context would drop or move them.
func Parse(text string) (*Document, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	protected := protectMarkers(text)

	if isDocument(text) {
		root, err := html.Parse(strings.NewReader(protected))
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		return &Document{root: root}, nil
	}

	container := newBody()
	nodes, err := html.ParseFragment(strings.NewReader(protected), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Template,
		Data:     "template",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &Document{root: container, fragment: true}, nil
}

// isDocument reports whether the first token of text that is neither a
// comment nor whitespace is a doctype or an <html> start tag.
func isDocument(text string) bool {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.CommentToken:
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.DoctypeToken:
			return true
		case html.StartTagToken:
			name, _ := z.TagName()
			return string(name) == "html"
		default:
			return false
		}
	}
}

func newBody() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

// IsFragment reports whether the document was parsed as a fragment. A
// fragment has no <head> or <body> of its own; content goes to Root.
func (d *Document) IsFragment() bool {
	return d.fragment
}

// Root returns the node that holds the top-level content: the document node
// for full documents and the fragment container otherwise.
func (d *Document) Root() *html.Node {
	return d.root
}

// Render serializes the document back to text.
func (d *Document) Render() (string, error) {
	var sb strings.Builder
	if d.fragment {
		for c := d.root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&sb, c); err != nil {
				return "", fmt.Errorf("failed to render fragment: %w", err)
			}
		}
	} else if err := html.Render(&sb, d.root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return restoreMarkers(sb.String()), nil
}

// FindByTag returns all elements with the given tag name in document order.
// The fragment container is never part of the result.
func (d *Document) FindByTag(tag string) []*html.Node {
	tag = strings.ToLower(tag)
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// First returns the first element with the given tag name, or nil.
func (d *Document) First(tag string) *html.Node {
	if found := d.FindByTag(tag); len(found) > 0 {
		return found[0]
	}
	return nil
}

// Remove detaches n from the tree. Detached nodes are ignored.
func (d *Document) Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendHTML parses fragment in the context of parent and appends the
// resulting nodes as parent's last children.
func (d *Document) AppendHTML(parent *html.Node, fragment string) error {
	nodes, err := parseIn(parent, fragment)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// PrependHTML parses fragment in the context of parent and inserts the
// resulting nodes before parent's first child.
func (d *Document) PrependHTML(parent *html.Node, fragment string) error {
	nodes, err := parseIn(parent, fragment)
	if err != nil {
		return err
	}
	first := parent.FirstChild
	for _, n := range nodes {
		if first == nil {
			parent.AppendChild(n)
		} else {
			parent.InsertBefore(n, first)
		}
	}
	return nil
}

func parseIn(parent *html.Node, fragment string) ([]*html.Node, error) {
	context := parent
	if parent.Type != html.ElementNode {
		context = newBody()
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		DataAtom: context.DataAtom,
		Data:     context.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse inserted fragment: %w", err)
	}
	return nodes, nil
}

// InnerText returns the concatenated text content of n's descendants. For
// script and style elements this is their raw source.
func InnerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
