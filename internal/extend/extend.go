// Package extend widens a structure's raw span so that it includes the
// attributes and documentation comments attached above it.
//
// All functions are pure cursor transforms over the source text; none of
// them ever move a cursor forward past its input.
package extend

import (
	"strings"

	"github.com/morozRed/revise/internal/parser"
)

// LineStart returns the offset of the first byte of the line holding cursor.
func LineStart(text []byte, cursor int) int {
	if cursor > len(text) {
		cursor = len(text)
	}
	for cursor > 0 && text[cursor-1] != '\n' {
		cursor--
	}
	return cursor
}

// LineEnd returns the offset of the newline ending the line holding cursor,
// or len(text) on the last line.
func LineEnd(text []byte, cursor int) int {
	for cursor < len(text) && text[cursor] != '\n' {
		cursor++
	}
	return cursor
}

// Indentation returns the leading whitespace of the line holding cursor.
func Indentation(text []byte, cursor int) string {
	start := LineStart(text, cursor)
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return string(text[start:end])
}

// line is one physical line above a cursor.
type line struct {
	start   int // first byte of the line
	end     int // offset of the terminating newline
	content int // first non-blank byte
	trimmed string
}

// previousLine returns the line that ends just before lineStart.
func previousLine(text []byte, lineStart int) (line, bool) {
	if lineStart <= 0 {
		return line{}, false
	}
	end := lineStart - 1
	start := LineStart(text, end)
	raw := string(text[start:end])
	indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
	return line{
		start:   start,
		end:     end,
		content: start + indent,
		trimmed: strings.TrimSpace(raw),
	}, true
}

// startsLine reports whether only whitespace precedes cursor on its line.
func startsLine(text []byte, cursor int) bool {
	return strings.TrimSpace(string(text[LineStart(text, cursor):cursor])) == ""
}

// ExtendAttributes moves start upward over the attribute or decorator lines
// directly above it. Scanning stops at a blank line or at any line that is
// not an attribute, which includes every sibling terminator line. Braces
// inside an attribute's arguments do not stop it. The result points at the
// first attribute's prefix, not the start of its line.
func ExtendAttributes(text []byte, start int, lang *parser.Language) int {
	if len(lang.AttributePrefixes) == 0 || !startsLine(text, start) {
		return start
	}
	cursor := start
	lineStart := LineStart(text, start)
	for {
		prev, ok := previousLine(text, lineStart)
		if !ok || prev.trimmed == "" || !hasAnyPrefix(prev.trimmed, lang.AttributePrefixes) {
			return cursor
		}
		cursor = prev.content
		lineStart = prev.start
	}
}

// DocumentationRange finds the documentation comment run directly above
// start. Blank lines are skipped until the run begins; after that a blank
// line ends it. A block comment counts only when its closing line begins
// with the comment itself, and the run never extends past a line holding a
// sibling terminator. When no documentation is present the result is the
// empty range (start, start).
func DocumentationRange(text []byte, start int, lang *parser.Language) parser.Range {
	none := parser.Range{Start: start, End: start}
	style := lang.Doc
	if !startsLine(text, start) {
		return none
	}

	docStart, docEnd := -1, -1
	inBlock := false
	lineStart := LineStart(text, start)
	for {
		prev, ok := previousLine(text, lineStart)
		if !ok {
			break
		}
		switch {
		case inBlock:
			if style.BlockOpen != "" && strings.HasPrefix(prev.trimmed, style.BlockOpen) {
				return parser.Range{Start: prev.content, End: docEnd}
			}
			if !strings.HasPrefix(prev.trimmed, "*") && isTerminatorLine(prev.trimmed, lang.Terminators) {
				return none
			}
		case prev.trimmed == "":
			if docStart >= 0 {
				return parser.Range{Start: docStart, End: docEnd}
			}
		case isBlockClose(prev.trimmed, style):
			if docStart >= 0 {
				return parser.Range{Start: docStart, End: docEnd}
			}
			docEnd = prev.start + len(strings.TrimRight(string(text[prev.start:prev.end]), " \t\r"))
			if strings.HasPrefix(prev.trimmed, style.BlockOpen) {
				return parser.Range{Start: prev.content, End: docEnd}
			}
			inBlock = true
		case isDocLine(prev.trimmed, style):
			if docEnd < 0 {
				docEnd = prev.start + len(strings.TrimRight(string(text[prev.start:prev.end]), " \t\r"))
			}
			docStart = prev.content
		default:
			if docStart >= 0 {
				return parser.Range{Start: docStart, End: docEnd}
			}
			return none
		}
		lineStart = prev.start
	}
	if docStart >= 0 && !inBlock {
		return parser.Range{Start: docStart, End: docEnd}
	}
	return none
}

// ExtendStart alternates attribute and documentation absorption until
// neither moves the cursor, so interleaved attribute and doc lines are all
// pulled in. The result never exceeds start.
func ExtendStart(text []byte, start int, lang *parser.Language) int {
	cursor := start
	for {
		next := ExtendAttributes(text, cursor, lang)
		if doc := DocumentationRange(text, next, lang); !doc.Empty() && doc.Start < next {
			next = doc.Start
		}
		if next >= cursor {
			return cursor
		}
		cursor = next
	}
}

// Extended returns the structure's span widened over its attributes and
// documentation.
func Extended(text []byte, s parser.Structure, lang *parser.Language) parser.Range {
	return parser.Range{Start: ExtendStart(text, s.Start, lang), End: s.End}
}

func isDocLine(trimmed string, style parser.DocStyle) bool {
	if hasAnyPrefix(trimmed, style.LineExcludes) {
		return false
	}
	return hasAnyPrefix(trimmed, style.LinePrefixes)
}

// isBlockClose reports whether trimmed ends a block comment that occupies
// its whole line. Code followed by a trailing comment is not a close.
func isBlockClose(trimmed string, style parser.DocStyle) bool {
	if style.BlockClose == "" || !strings.HasSuffix(trimmed, style.BlockClose) {
		return false
	}
	return strings.HasPrefix(trimmed, style.BlockClose) ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, style.BlockOpen)
}

func isTerminatorLine(trimmed string, terminators []string) bool {
	for _, term := range terminators {
		if isWord(term) {
			fields := strings.Fields(trimmed)
			if len(fields) > 0 && fields[len(fields)-1] == term {
				return true
			}
			continue
		}
		if strings.Contains(trimmed, term) {
			return true
		}
	}
	return false
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return false
		}
	}
	return s != ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
