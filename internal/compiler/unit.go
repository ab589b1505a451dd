package compiler

import "strings"

// Node is one document in the compilation tree.
type Node struct {
	Logical  string
	Location string
	Children []*Node
}

// Unit is what one recursive call hands back to its caller. Units are never
// shared between calls; a parent folds its children's units into its own.
type Unit struct {
	Text    string
	Scripts []string
	Styles  []string
	Count   int
	Tree    *Node
}

// own records the document's own extracted content. It must run before any
// child is merged so that a document's content precedes its descendants'.
func (u *Unit) own(script, style string) {
	if script != "" {
		u.Scripts = append(u.Scripts, script)
	}
	if style != "" {
		u.Styles = append(u.Styles, style)
	}
}

// merge appends the children's contributions in marker order. The result is
// a pre-order walk of the tree and does not depend on which child finished
// first.
func (u *Unit) merge(children []*Unit) {
	u.Count += len(children)
	for _, child := range children {
		u.Scripts = append(u.Scripts, child.Scripts...)
		u.Styles = append(u.Styles, child.Styles...)
		u.Count += child.Count
		u.Tree.Children = append(u.Tree.Children, child.Tree)
	}
}

// Result is the outcome of compiling a whole tree.
type Result struct {
	HTML      string
	JS        string
	CSS       string
	FileCount int
	Tree      *Node
}

func (u *Unit) result() *Result {
	return &Result{
		HTML:      u.Text,
		JS:        strings.Join(u.Scripts, "\n"),
		CSS:       strings.Join(u.Styles, "\n"),
		FileCount: u.Count,
		Tree:      u.Tree,
	}
}
