package extend

import (
	"strings"

	"github.com/morozRed/revise/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// LeadingDocRange returns the file-level documentation block: the run of
// documentation nodes among the root's children that appears before any
// other declaration, with adjacent comments merged. A shebang line is
// skipped. For languages with module docstrings a leading string
// expression also qualifies. Absent documentation yields the empty range
// at offset 0.
func LeadingDocRange(tree *parser.Tree) parser.Range {
	root := tree.Root()
	src := tree.Source
	lang := tree.Language

	run := parser.Range{Start: -1, End: -1}
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		span := trimTrailingNewlines(src, parser.NodeRange(child))

		if lang.IsDocNode(child.Type()) {
			if run.Start < 0 && strings.HasPrefix(span.Text(src), "#!") {
				continue
			}
			if run.Start < 0 {
				run = span
				continue
			}
			if !adjacent(src, run.End, span.Start) {
				break
			}
			run.End = span.End
			continue
		}

		if run.Start < 0 && lang.ModuleDocstring && isDocstring(child) {
			return span
		}
		if !child.IsExtra() {
			break
		}
	}
	if run.Start < 0 {
		return parser.Range{}
	}
	return run
}

func isDocstring(node *sitter.Node) bool {
	if node.Type() != "expression_statement" || node.NamedChildCount() != 1 {
		return false
	}
	inner := node.NamedChild(0)
	return inner != nil && inner.Type() == "string"
}

// adjacent reports whether only one line break separates two spans.
func adjacent(src []byte, end, start int) bool {
	if start < end {
		return false
	}
	gap := string(src[end:start])
	return strings.TrimSpace(gap) == "" && strings.Count(gap, "\n") <= 1
}

// trimTrailingNewlines drops line breaks some grammars include in comment
// nodes.
func trimTrailingNewlines(src []byte, r parser.Range) parser.Range {
	for r.End > r.Start && (src[r.End-1] == '\n' || src[r.End-1] == '\r') {
		r.End--
	}
	return r
}
