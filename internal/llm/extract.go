package llm

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractCode returns the body of the first fenced code block in a
// generator response, whatever its language hint. A response without a
// fence is returned as is. Surrounding blank lines and trailing whitespace
// are removed; the first line keeps its indentation.
func ExtractCode(response string) string {
	src := []byte(response)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var body strings.Builder
	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}
		found = true
		return ast.WalkStop, nil
	})

	if !found {
		return TrimBlock(response)
	}
	return TrimBlock(body.String())
}

// TrimBlock strips leading blank lines and trailing whitespace.
func TrimBlock(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 || strings.TrimSpace(s[:idx]) != "" {
			return s
		}
		s = s[idx+1:]
	}
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
