// Package splice rewrites source text around computed byte ranges while
// leaving every byte outside the edited range untouched.
package splice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/morozRed/revise/internal/parser"
)

// ErrInvalidRange reports a range that is inverted or outside the text.
var ErrInvalidRange = errors.New("invalid range")

// NoAnchor marks an insertion without an anchor; the content is appended
// at end of file.
const NoAnchor = -1

// Wrap holds the separators placed around inserted content.
type Wrap struct {
	Before string
	After  string
}

// Operation is one edit to a source text. The set of operations is closed:
// ReplaceRange, InsertAfter, InsertBefore and InsertOrCreateContainer.
type Operation interface {
	fmt.Stringer
	edit(src []byte) (TextEdit, error)
}

// ReplaceRange substitutes Content for the bytes in Range. An empty range
// degenerates to an insertion at Range.Start.
type ReplaceRange struct {
	Range   parser.Range
	Content string
}

func (op ReplaceRange) edit(src []byte) (TextEdit, error) {
	if !op.Range.Valid(len(src)) {
		return TextEdit{}, fmt.Errorf("%w: replace %s in text of length %d", ErrInvalidRange, op.Range, len(src))
	}
	return TextEdit{Start: op.Range.Start, End: op.Range.End, NewText: op.Content}, nil
}

func (op ReplaceRange) String() string {
	return fmt.Sprintf("replace %s", op.Range)
}

// InsertAfter places Content, wrapped, at AnchorEnd.
type InsertAfter struct {
	AnchorEnd int
	Content   string
	Wrap      Wrap
}

func (op InsertAfter) edit(src []byte) (TextEdit, error) {
	return insertAt(src, op.AnchorEnd, op.Content, op.Wrap)
}

func (op InsertAfter) String() string {
	return fmt.Sprintf("insert after %d", op.AnchorEnd)
}

// InsertBefore places Content, wrapped, at AnchorStart.
type InsertBefore struct {
	AnchorStart int
	Content     string
	Wrap        Wrap
}

func (op InsertBefore) edit(src []byte) (TextEdit, error) {
	return insertAt(src, op.AnchorStart, op.Content, op.Wrap)
}

func (op InsertBefore) String() string {
	return fmt.Sprintf("insert before %d", op.AnchorStart)
}

// InsertOrCreateContainer adds Content to an existing container, just
// inside its closing delimiter. Without a container, a new one built from
// Spec is inserted after AnchorEnd, or at end of file for NoAnchor.
type InsertOrCreateContainer struct {
	Content   string
	Container *parser.Range
	AnchorEnd int
	Spec      parser.ContainerSpec
}

func (op InsertOrCreateContainer) edit(src []byte) (TextEdit, error) {
	body := Reindent(op.Content, op.Spec.Indent)
	if op.Container != nil {
		if !op.Container.Valid(len(src)) {
			return TextEdit{}, fmt.Errorf("%w: container %s in text of length %d", ErrInvalidRange, *op.Container, len(src))
		}
		inner := string(src[op.Container.Start:op.Container.End])
		idx := strings.LastIndex(inner, op.Spec.Close)
		if op.Spec.Close == "" || idx < 0 {
			return TextEdit{}, fmt.Errorf("%w: container %s has no closing %q", ErrInvalidRange, *op.Container, op.Spec.Close)
		}
		at := op.Container.Start + idx
		return TextEdit{Start: at, End: at, NewText: "\n" + body + "\n"}, nil
	}

	created := op.Spec.Open + "\n" + body + "\n" + op.Spec.Close
	return insertAt(src, op.AnchorEnd, created, Wrap{Before: "\n\n"})
}

func (op InsertOrCreateContainer) String() string {
	if op.Container != nil {
		return fmt.Sprintf("insert into container %s", *op.Container)
	}
	return fmt.Sprintf("create container after %d", op.AnchorEnd)
}

func insertAt(src []byte, at int, content string, wrap Wrap) (TextEdit, error) {
	if at == NoAnchor {
		return appendAtEnd(src, content), nil
	}
	if at < 0 || at > len(src) {
		return TextEdit{}, fmt.Errorf("%w: anchor %d in text of length %d", ErrInvalidRange, at, len(src))
	}
	return TextEdit{Start: at, End: at, NewText: wrap.Before + content + wrap.After}, nil
}

// appendAtEnd separates content from existing text by exactly one blank
// line and terminates it with a newline.
func appendAtEnd(src []byte, content string) TextEdit {
	text := string(src)
	sep := ""
	switch {
	case text == "" || strings.HasSuffix(text, "\n\n"):
	case strings.HasSuffix(text, "\n"):
		sep = "\n"
	default:
		sep = "\n\n"
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return TextEdit{Start: len(src), End: len(src), NewText: sep + content}
}

// Apply performs one operation on source.
func Apply(source string, op Operation) (string, error) {
	if op == nil {
		return "", errors.New("nil operation")
	}
	e, err := op.edit([]byte(source))
	if err != nil {
		return "", err
	}
	out, err := ApplyEdits([]byte(source), []TextEdit{e})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Span returns the byte range the operation's new text occupies in the
// output of Apply.
func Span(source string, op Operation) (parser.Range, error) {
	e, err := op.edit([]byte(source))
	if err != nil {
		return parser.Range{}, err
	}
	return parser.Range{Start: e.Start, End: e.Start + len(e.NewText)}, nil
}
