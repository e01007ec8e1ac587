package splice_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/morozRed/revise/internal/parser"
	"github.com/morozRed/revise/internal/splice"
)

var rustTests = parser.ContainerSpec{
	Marker: "#[cfg(test)]",
	Open:   "#[cfg(test)]\nmod tests {\n    use super::*;\n",
	Close:  "}",
	Indent: "    ",
}

func TestReplaceRange(t *testing.T) {
	src := "fn a() {}\nfn b() { old }\nfn c() {}\n"
	start := strings.Index(src, "fn b")
	end := start + len("fn b() { old }")

	got, err := splice.Apply(src, splice.ReplaceRange{
		Range:   parser.Range{Start: start, End: end},
		Content: "fn b() { new }",
	})
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}\nfn b() { new }\nfn c() {}\n", got)
}

func TestReplaceRangeRejectsInvalidRanges(t *testing.T) {
	for _, r := range []parser.Range{{Start: 3, End: 1}, {Start: -1, End: 2}, {Start: 0, End: 100}} {
		_, err := splice.Apply("short", splice.ReplaceRange{Range: r, Content: "x"})
		assert.True(t, errors.Is(err, splice.ErrInvalidRange), "range %s", r)
	}
}

func TestInsertAfterAndBeforeWrapContent(t *testing.T) {
	src := "fn main() {}\n"

	after, err := splice.Apply(src, splice.InsertAfter{
		AnchorEnd: len("fn main() {}"),
		Content:   "fn helper() {}",
		Wrap:      splice.Wrap{Before: "\n\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n\nfn helper() {}\n", after)

	before, err := splice.Apply(src, splice.InsertBefore{
		AnchorStart: 0,
		Content:     "fn helper() {}",
		Wrap:        splice.Wrap{After: "\n\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fn helper() {}\n\nfn main() {}\n", before)
}

func TestInsertWithoutAnchorAppendsAtEnd(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{src: "", want: "x = 1\n"},
		{src: "a = 0", want: "a = 0\n\nx = 1\n"},
		{src: "a = 0\n", want: "a = 0\n\nx = 1\n"},
		{src: "a = 0\n\n", want: "a = 0\n\nx = 1\n"},
	}
	for _, tc := range cases {
		got, err := splice.Apply(tc.src, splice.InsertAfter{AnchorEnd: splice.NoAnchor, Content: "x = 1"})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "source %q", tc.src)
	}
}

func TestInsertIntoExistingContainer(t *testing.T) {
	src := "fn foo() {}\n\n#[cfg(test)]\nmod tests {\n    use super::*;\n\n    #[test]\n    fn old() {}\n}\n"
	start := strings.Index(src, "mod tests")
	container := parser.Range{Start: start, End: strings.LastIndex(src, "}") + 1}

	got, err := splice.Apply(src, splice.InsertOrCreateContainer{
		Content:   "#[test]\nfn test_foo() {\n    foo();\n}",
		Container: &container,
		AnchorEnd: splice.NoAnchor,
		Spec:      rustTests,
	})
	require.NoError(t, err)
	want := "fn foo() {}\n\n#[cfg(test)]\nmod tests {\n    use super::*;\n\n    #[test]\n    fn old() {}\n\n    #[test]\n    fn test_foo() {\n        foo();\n    }\n}\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 1, strings.Count(got, "mod tests"))
}

func TestCreateContainerAfterAnchor(t *testing.T) {
	src := "fn foo() {}\n"

	got, err := splice.Apply(src, splice.InsertOrCreateContainer{
		Content:   "#[test]\nfn test_foo() {}",
		AnchorEnd: len("fn foo() {}"),
		Spec:      rustTests,
	})
	require.NoError(t, err)
	want := "fn foo() {}\n\n#[cfg(test)]\nmod tests {\n    use super::*;\n\n    #[test]\n    fn test_foo() {}\n}\n"
	assert.Equal(t, want, got)
}

func TestReindentNormalizesGeneratedIndentation(t *testing.T) {
	assert.Equal(t, "    a\n\n        b", splice.Reindent("  a\n\n      b", "    "))
	assert.Equal(t, "a\n  b", splice.Dedent("a\n  b"))
	assert.Equal(t, "/// a\n    /// b", splice.IndentTail("/// a\n/// b", "    "))
}

func TestSpanCoversInsertedText(t *testing.T) {
	src := "abc"
	op := splice.InsertAfter{AnchorEnd: 1, Content: "XY", Wrap: splice.Wrap{Before: "-"}}
	span, err := splice.Span(src, op)
	require.NoError(t, err)

	out, err := splice.Apply(src, op)
	require.NoError(t, err)
	assert.Equal(t, "-XY", span.Text([]byte(out)))
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	_, err := splice.ApplyEdits([]byte("abcdef"), []splice.TextEdit{
		{Start: 1, End: 4, NewText: "x"},
		{Start: 3, End: 5, NewText: "y"},
	})
	assert.ErrorIs(t, err, splice.ErrInvalidRange)

	out, err := splice.ApplyEdits([]byte("abcdef"), []splice.TextEdit{
		{Start: 4, End: 6, NewText: "Z"},
		{Start: 0, End: 1, NewText: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AbcdZ", string(out))
}

func TestReplaceRangePreservesBytesOutsideRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.String().Draw(rt, "source")
		start := rapid.IntRange(0, len(src)).Draw(rt, "start")
		end := rapid.IntRange(start, len(src)).Draw(rt, "end")
		content := rapid.String().Draw(rt, "content")

		out, err := splice.Apply(src, splice.ReplaceRange{Range: parser.Range{Start: start, End: end}, Content: content})
		if err != nil {
			rt.Fatalf("apply: %v", err)
		}
		if out[:start] != src[:start] {
			rt.Fatalf("prefix changed: %q vs %q", out[:start], src[:start])
		}
		if out[start+len(content):] != src[end:] {
			rt.Fatalf("suffix changed: %q vs %q", out[start+len(content):], src[end:])
		}
		if out[start:start+len(content)] != content {
			rt.Fatalf("content not spliced verbatim")
		}
	})
}

func TestInsertionsPreserveExistingText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.StringMatching(`[a-z \n]{0,40}`).Draw(rt, "source")
		content := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "content")
		anchor := rapid.IntRange(-1, len(src)).Draw(rt, "anchor")
		if anchor < 0 {
			anchor = splice.NoAnchor
		}

		out, err := splice.Apply(src, splice.InsertBefore{AnchorStart: anchor, Content: content})
		if err != nil {
			rt.Fatalf("apply: %v", err)
		}
		if len(out) < len(src)+len(content) {
			rt.Fatalf("output lost bytes: %q", out)
		}
		at := anchor
		if anchor == splice.NoAnchor {
			at = len(src)
		}
		if out[:at] != src[:at] || !strings.HasSuffix(out, src[at:]) {
			rt.Fatalf("existing text modified: src=%q out=%q", src, out)
		}
	})
}
