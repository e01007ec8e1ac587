package session

import (
	"fmt"
	"strings"

	"github.com/morozRed/revise/internal/extend"
	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/llm"
	"github.com/morozRed/revise/internal/locate"
	"github.com/morozRed/revise/internal/parser"
	"github.com/morozRed/revise/internal/splice"
)

// plan is what one attempt computed from a fresh parse: the prompt
// subject and how the generated content turns into an edit.
type plan struct {
	structure *parser.Structure
	vars      llm.Vars
	operation func(content string) splice.Operation
}

// planFor builds the plan for mode on the given tree.
func planFor(tree *parser.Tree, mode Mode, name string) (*plan, error) {
	src := tree.Source
	p := &plan{vars: llm.Vars{StructureName: name, SourceCode: string(src)}}

	switch mode {
	case ModeWholeFileRewrite:
		whole := parser.Range{Start: 0, End: len(src)}
		p.operation = func(content string) splice.Operation {
			return splice.ReplaceRange{Range: whole, Content: fileutil.EnsureTrailingNewline(content)}
		}
		return p, nil

	case ModeAddFunctionality:
		p.operation = entryPointInsertion(tree)
		return p, nil

	case ModeDocumentWholeFile:
		p.operation = fileDocEdit(tree)
		return p, nil
	}

	target, err := find(tree, name)
	if err != nil {
		return nil, err
	}
	ext := extend.Extended(src, target, tree.Language)
	p.structure = &target
	p.vars.StructureCode = ext.Text(src)

	switch mode {
	case ModeReplaceStructure:
		p.operation = func(content string) splice.Operation {
			// ext.Start already sits after the line's indentation.
			return splice.ReplaceRange{Range: ext, Content: strings.TrimLeft(content, " \t")}
		}
	case ModeAddTests:
		p.operation = testInsertion(tree, target)
	case ModeDocumentStructure:
		p.operation = structureDocEdit(tree, target)
	default:
		return nil, newError(KindPreflight, "mode %q has no plan", mode)
	}
	return p, nil
}

func find(tree *parser.Tree, name string) (parser.Structure, error) {
	s, ok := locate.Find(tree, name)
	if !ok {
		return parser.Structure{}, newError(KindStructureNotFound, "no %s structure named %q", tree.Language.Name, name)
	}
	return s, nil
}

// entryPointInsertion places new top-level code next to the entry point,
// after it or before it as the language requires, and appends at end of
// file when there is none.
func entryPointInsertion(tree *parser.Tree) func(string) splice.Operation {
	lang := tree.Language
	entry, ok := locate.EntryPoint(tree)
	if !ok {
		return func(content string) splice.Operation {
			return splice.InsertAfter{AnchorEnd: splice.NoAnchor, Content: content}
		}
	}
	if lang.EntryPolicy == parser.InsertBeforeEntry {
		start := extend.ExtendStart(tree.Source, entry.Start, lang)
		return func(content string) splice.Operation {
			return splice.InsertBefore{AnchorStart: start, Content: content, Wrap: splice.Wrap{After: "\n\n"}}
		}
	}
	return func(content string) splice.Operation {
		return splice.InsertAfter{AnchorEnd: entry.End, Content: content, Wrap: splice.Wrap{Before: "\n\n"}}
	}
}

// testInsertion adds tests to the language's test container, creating one
// after the last top-level structure when needed. Languages without a
// container get the tests right after the top-level structure holding
// the target.
func testInsertion(tree *parser.Tree, target parser.Structure) func(string) splice.Operation {
	spec := tree.Language.Container
	if spec == nil {
		anchor := enclosingTopLevel(tree, target)
		return func(content string) splice.Operation {
			return splice.InsertAfter{AnchorEnd: anchor.End, Content: content, Wrap: splice.Wrap{Before: "\n\n"}}
		}
	}

	var container *parser.Range
	if c, ok := locate.Container(tree); ok {
		r := c.Range()
		container = &r
	}
	anchorEnd := splice.NoAnchor
	if last, ok := locate.LastTopLevel(tree); ok {
		anchorEnd = last.End
	}
	return func(content string) splice.Operation {
		return splice.InsertOrCreateContainer{
			Content:   content,
			Container: container,
			AnchorEnd: anchorEnd,
			Spec:      *spec,
		}
	}
}

func enclosingTopLevel(tree *parser.Tree, target parser.Structure) parser.Structure {
	for _, top := range locate.TopLevel(tree) {
		if top.Range().Contains(target.Range()) {
			return top
		}
	}
	return target
}

// structureDocEdit replaces the documentation directly above the target's
// attributes, or inserts the new documentation there when there is none.
// Running it twice with the same content gives the same file.
func structureDocEdit(tree *parser.Tree, target parser.Structure) func(string) splice.Operation {
	src := tree.Source
	lang := tree.Language
	indent := extend.Indentation(src, target.Start)
	attrStart := extend.ExtendAttributes(src, target.Start, lang)
	doc := extend.DocumentationRange(src, attrStart, lang)

	if !doc.Empty() {
		return func(content string) splice.Operation {
			body := splice.IndentTail(strings.TrimLeft(splice.Dedent(content), " \t"), indent)
			return splice.ReplaceRange{Range: doc, Content: body}
		}
	}
	return func(content string) splice.Operation {
		body := splice.IndentTail(strings.TrimLeft(splice.Dedent(content), " \t"), indent)
		return splice.InsertBefore{AnchorStart: attrStart, Content: body, Wrap: splice.Wrap{After: "\n" + indent}}
	}
}

// fileDocEdit replaces the file's leading documentation, or inserts new
// documentation at the top of the file, below a shebang line.
func fileDocEdit(tree *parser.Tree) func(string) splice.Operation {
	src := tree.Source
	doc := extend.LeadingDocRange(tree)
	if !doc.Empty() {
		return func(content string) splice.Operation {
			return splice.ReplaceRange{Range: doc, Content: content}
		}
	}

	at := 0
	if strings.HasPrefix(string(src), "#!") {
		at = extend.LineEnd(src, 0)
		if at < len(src) {
			at++
		}
	}
	return func(content string) splice.Operation {
		wrap := splice.Wrap{After: "\n\n"}
		if at == len(src) {
			wrap = splice.Wrap{After: "\n"}
			if at > 0 && src[at-1] != '\n' {
				wrap.Before = "\n"
			}
		}
		return splice.InsertBefore{AnchorStart: at, Content: content, Wrap: wrap}
	}
}

func describeStructure(s *parser.Structure) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s %s (line %d)", s.Kind, s.Name, s.Line)
}
