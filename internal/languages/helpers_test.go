package languages

import (
	"github.com/morozRed/revise/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// findNode returns the first node of the given type in pre-order.
func findNode(tree *parser.Tree, nodeType string) *sitter.Node {
	var visit func(n *sitter.Node) *sitter.Node
	visit = func(n *sitter.Node) *sitter.Node {
		if n == nil {
			return nil
		}
		if n.Type() == nodeType {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if found := visit(n.Child(i)); found != nil {
				return found
			}
		}
		return nil
	}
	return visit(tree.Root())
}
