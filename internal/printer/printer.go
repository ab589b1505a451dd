// Package printer renders the include tree of a compilation.
package printer

import (
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
	"github.com/specialistvlad/lyke/internal/compiler"
)

// PrintTree writes tree to w as an indented hierarchy of logical paths. A
// document included twice by the same parent appears twice, the repeats
// numbered, since every reference counts as a compiled file.
func PrintTree(w io.Writer, tree *compiler.Node) error {
	root := gtree.NewRoot(tree.Logical)
	addChildren(root, tree)
	if err := gtree.OutputProgrammably(w, root); err != nil {
		return fmt.Errorf("failed to print include tree: %w", err)
	}
	return nil
}

func addChildren(parent *gtree.Node, n *compiler.Node) {
	seen := make(map[string]int, len(n.Children))
	for _, child := range n.Children {
		seen[child.Logical]++
		label := child.Logical
		if count := seen[child.Logical]; count > 1 {
			label = fmt.Sprintf("%s [%d]", child.Logical, count)
		}
		addChildren(parent.Add(label), child)
	}
}
