// Package locate finds named structures and insertion anchors in a parsed
// syntax tree.
package locate

import (
	"strings"

	"github.com/morozRed/revise/internal/extend"
	"github.com/morozRed/revise/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Find returns the first structure, in depth-first pre-order, whose name is
// exactly name. The second result is false when nothing matches.
func Find(tree *parser.Tree, name string) (parser.Structure, bool) {
	var found parser.Structure
	ok := false
	walk(tree, tree.Root(), nil, true, func(s parser.Structure) bool {
		if s.Name == name {
			found = s
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// List returns every named structure in pre-order.
func List(tree *parser.Tree) []parser.Structure {
	out := make([]parser.Structure, 0)
	walk(tree, tree.Root(), nil, true, func(s parser.Structure) bool {
		out = append(out, s)
		return true
	})
	return out
}

// TopLevel returns the structures declared directly at file scope, looking
// through wrapper nodes such as decorators and export statements.
func TopLevel(tree *parser.Tree) []parser.Structure {
	root := tree.Root()
	lang := tree.Language
	out := make([]parser.Structure, 0)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		node, parent := unwrap(lang, child)
		if s, ok := describe(tree, node, parent, true); ok {
			out = append(out, s)
		}
	}
	return out
}

// EntryPoint returns the top-level structure named after the language's
// entry point, such as main.
func EntryPoint(tree *parser.Tree) (parser.Structure, bool) {
	name := tree.Language.EntryPoint
	if name == "" {
		return parser.Structure{}, false
	}
	for _, s := range TopLevel(tree) {
		if s.Name == name && (s.Kind == parser.KindFunction || s.Kind == parser.KindMethod) {
			return s, true
		}
	}
	return parser.Structure{}, false
}

// Container returns the top-level structure carrying the language's test
// container marker among its attributes.
func Container(tree *parser.Tree) (parser.Structure, bool) {
	spec := tree.Language.Container
	if spec == nil || spec.Marker == "" {
		return parser.Structure{}, false
	}
	for _, s := range TopLevel(tree) {
		attrStart := extend.ExtendAttributes(tree.Source, s.Start, tree.Language)
		if strings.Contains(string(tree.Source[attrStart:s.Start]), spec.Marker) {
			return s, true
		}
	}
	return parser.Structure{}, false
}

// LastTopLevel returns the last structure declared at file scope.
func LastTopLevel(tree *parser.Tree) (parser.Structure, bool) {
	top := TopLevel(tree)
	if len(top) == 0 {
		return parser.Structure{}, false
	}
	return top[len(top)-1], true
}

func walk(tree *parser.Tree, node, parent *sitter.Node, topLevel bool, visit func(parser.Structure) bool) bool {
	if node == nil {
		return true
	}
	// Below the root and below top-level wrappers, structures are still top level.
	nested := topLevel && (parent == nil || isWrapper(tree.Language, node))
	if s, ok := describe(tree, node, parent, topLevel); ok {
		if !visit(s) {
			return false
		}
		nested = false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if !walk(tree, node.Child(i), node, nested, visit) {
			return false
		}
	}
	return true
}

func isWrapper(lang *parser.Language, node *sitter.Node) bool {
	_, ok := lang.Wrappers[node.Type()]
	return ok
}

func describe(tree *parser.Tree, node, parent *sitter.Node, topLevel bool) (parser.Structure, bool) {
	lang := tree.Language
	rule, ok := lang.Rule(node.Type())
	if !ok {
		return parser.Structure{}, false
	}
	name, ok := lang.NameOf(node, tree.Source)
	if !ok {
		return parser.Structure{}, false
	}
	span := parser.NodeRange(node)
	if parent != nil {
		if w, ok := lang.Wrappers[parent.Type()]; ok && w.Absorb && sameNode(parent.ChildByFieldName(w.Field), node) {
			span.Start = parser.NodeRange(parent).Start
		}
	}
	return parser.Structure{
		Kind:     rule.Kind,
		NodeType: node.Type(),
		Name:     name,
		Start:    span.Start,
		End:      span.End,
		Line:     parser.NodeLine(node),
		TopLevel: topLevel,
	}, true
}

func unwrap(lang *parser.Language, node *sitter.Node) (inner, parent *sitter.Node) {
	if w, ok := lang.Wrappers[node.Type()]; ok {
		if wrapped := node.ChildByFieldName(w.Field); wrapped != nil {
			return wrapped, node
		}
	}
	return node, nil
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
