package extend_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/morozRed/revise/internal/extend"
	"github.com/morozRed/revise/internal/languages"
	"github.com/morozRed/revise/internal/parser"
)

func TestExtendAttributesAbsorbsDirectlyAttachedLines(t *testing.T) {
	rust := languages.NewRust()
	src := "fn a() {}\n\n#[derive(Debug)]\n#[allow(dead_code)]\nstruct S;\n"
	start := strings.Index(src, "struct")

	got := extend.ExtendAttributes([]byte(src), start, rust)
	assert.Equal(t, strings.Index(src, "#[derive"), got)
}

func TestExtendAttributesStopsAtTerminator(t *testing.T) {
	rust := languages.NewRust()
	src := "fn a() {\n}\n#[test]\nfn b() {}\n"
	start := strings.Index(src, "fn b")

	got := extend.ExtendAttributes([]byte(src), start, rust)
	assert.Equal(t, strings.Index(src, "#[test]"), got)

	src = "fn a() { }#[test]\nfn b() {}\n"
	start = strings.Index(src, "fn b")
	assert.Equal(t, start, extend.ExtendAttributes([]byte(src), start, rust))
}

func TestExtendAttributesCommitsToIndentedPrefix(t *testing.T) {
	python := languages.NewPython()
	src := "class A:\n    @property\n    def x(self):\n        return 1\n"
	start := strings.Index(src, "def")

	got := extend.ExtendAttributes([]byte(src), start, python)
	assert.Equal(t, strings.Index(src, "@property"), got)
}

func TestExtendAttributesIgnoresMidLineStructures(t *testing.T) {
	rust := languages.NewRust()
	src := "#[inline]\npub fn f() {}\n"
	start := strings.Index(src, "fn f")

	assert.Equal(t, start, extend.ExtendAttributes([]byte(src), start, rust))
}

func TestExtendAttributesAbsorbsBracesInArguments(t *testing.T) {
	rust := languages.NewRust()
	src := "fn a() {}\n#[serde(rename = \"}\")]\n#[doc = \"{x}\"]\nstruct S;\n"
	start := strings.Index(src, "struct")

	got := extend.ExtendAttributes([]byte(src), start, rust)
	assert.Equal(t, strings.Index(src, "#[serde"), got)
}

func TestDocumentationRangeIgnoresTrailingBlockComment(t *testing.T) {
	rust := languages.NewRust()
	src := "/* License: MIT\n */\nfn keep() {\n    let x = 1;\n} /* end keep */\n\nfn target() {}\n"
	start := strings.Index(src, "fn target")

	assert.True(t, extend.DocumentationRange([]byte(src), start, rust).Empty())
	assert.Equal(t, start, extend.ExtendStart([]byte(src), start, rust))
}

func TestDocumentationRangeBlockStopsAtTerminator(t *testing.T) {
	ts := languages.NewTypeScript()
	src := "/* header\nfunction a() {\n}\n * stray */\nfunction b() {}\n"
	start := strings.Index(src, "function b")

	assert.True(t, extend.DocumentationRange([]byte(src), start, ts).Empty())
}

func TestDocumentationRangeLineStyle(t *testing.T) {
	rust := languages.NewRust()
	src := "fn a() {}\n\n/// First line.\n/// Second line.\nfn b() {}\n"
	start := strings.Index(src, "fn b")

	doc := extend.DocumentationRange([]byte(src), start, rust)
	require.False(t, doc.Empty())
	assert.Equal(t, "/// First line.\n/// Second line.", doc.Text([]byte(src)))
}

func TestDocumentationRangeBlockStyle(t *testing.T) {
	ts := languages.NewTypeScript()
	src := "const x = 1;\n\n/**\n * Adds numbers.\n *\n * @param a first\n */\nfunction add(a, b) {}\n"
	start := strings.Index(src, "function")

	doc := extend.DocumentationRange([]byte(src), start, ts)
	assert.Equal(t, "/**\n * Adds numbers.\n *\n * @param a first\n */", doc.Text([]byte(src)))
}

func TestDocumentationRangeSkipsBlankLinesBeforeRun(t *testing.T) {
	python := languages.NewPython()
	src := "# Helper.\n\n\ndef helper():\n    pass\n"
	start := strings.Index(src, "def")

	doc := extend.DocumentationRange([]byte(src), start, python)
	assert.Equal(t, "# Helper.", doc.Text([]byte(src)))
}

func TestDocumentationRangeEmptyWhenAbsent(t *testing.T) {
	rust := languages.NewRust()
	src := "use std::io;\nfn main() {}\n"
	start := strings.Index(src, "fn main")

	doc := extend.DocumentationRange([]byte(src), start, rust)
	assert.True(t, doc.Empty())
	assert.Equal(t, start, doc.Start)
}

func TestDocumentationRangeSkipsShebang(t *testing.T) {
	python := languages.NewPython()
	src := "#!/usr/bin/env python\ndef main():\n    pass\n"
	start := strings.Index(src, "def")

	assert.True(t, extend.DocumentationRange([]byte(src), start, python).Empty())
}

func TestExtendStartHandlesInterleavedAttributesAndDocs(t *testing.T) {
	rust := languages.NewRust()
	src := "}\n/// Documented.\n#[derive(Clone)]\n/// More docs.\n#[derive(Debug)]\nstruct S;\n"
	start := strings.Index(src, "struct")

	got := extend.ExtendStart([]byte(src), start, rust)
	assert.Equal(t, strings.Index(src, "/// Documented."), got)
}

func TestLeadingDocRange(t *testing.T) {
	cases := []struct {
		name string
		lang *parser.Language
		src  string
		want string
	}{
		{
			name: "rust block comment",
			lang: languages.NewRust(),
			src:  "/* Crate docs. */\n\nuse std::io;\n",
			want: "/* Crate docs. */",
		},
		{
			name: "rust adjacent inner docs",
			lang: languages.NewRust(),
			src:  "//! Line one.\n//! Line two.\n\n//! Detached.\nfn main() {}\n",
			want: "//! Line one.\n//! Line two.",
		},
		{
			name: "python docstring",
			lang: languages.NewPython(),
			src:  "\"\"\"Module docs.\"\"\"\n\nimport os\n",
			want: "\"\"\"Module docs.\"\"\"",
		},
		{
			name: "python shebang skipped",
			lang: languages.NewPython(),
			src:  "#!/usr/bin/env python\n# Tool docs.\nimport os\n",
			want: "# Tool docs.",
		},
		{
			name: "go package comment",
			lang: languages.NewGo(),
			src:  "// Package demo does things.\npackage demo\n",
			want: "// Package demo does things.",
		},
		{
			name: "absent",
			lang: languages.NewRust(),
			src:  "fn main() {}\n// trailing\n",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := tc.lang.Parse(context.Background(), []byte(tc.src), false)
			require.NoError(t, err)
			defer tree.Close()

			got := extend.LeadingDocRange(tree)
			if tc.want == "" {
				assert.Equal(t, parser.Range{}, got)
				return
			}
			assert.Equal(t, tc.want, got.Text([]byte(tc.src)))
		})
	}
}

// rustLine draws one line of a Rust-like preamble.
func rustLine() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{
		"#[derive(Debug)]",
		"    #[cfg(test)]",
		"/// docs",
		"/**",
		" * block",
		" */",
		"}",
		"} /* end */",
		"/* header",
		"",
		"let x = 1;",
		"// plain",
	})
}

func TestExtendStartIsMonotone(t *testing.T) {
	rust := languages.NewRust()
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(rustLine(), 0, 12).Draw(rt, "lines")
		src := strings.Join(append(lines, "fn target() {}"), "\n")
		start := strings.LastIndex(src, "fn target")

		got := extend.ExtendStart([]byte(src), start, rust)
		if got > start || got < 0 {
			rt.Fatalf("extension moved cursor from %d to %d", start, got)
		}
		if again := extend.ExtendStart([]byte(src), got, rust); again != got {
			rt.Fatalf("extension is not a fixpoint: %d then %d", got, again)
		}
	})
}

func TestExtendStartNeverCrossesTerminator(t *testing.T) {
	rust := languages.NewRust()
	rapid.Check(t, func(rt *rapid.T) {
		before := rapid.SliceOfN(rustLine(), 0, 6).Draw(rt, "before")
		after := rapid.SliceOfN(rapid.SampledFrom([]string{"#[inline]", "/// doc", "#[test]"}), 0, 6).Draw(rt, "after")

		barrier := rapid.SampledFrom([]string{"}", "} /* end */"}).Draw(rt, "barrier")
		prefix := strings.Join(append(before, barrier), "\n") + "\n"
		src := prefix + strings.Join(append(after, "fn target() {}"), "\n")
		start := strings.LastIndex(src, "fn target")

		got := extend.ExtendStart([]byte(src), start, rust)
		if got < len(prefix) {
			rt.Fatalf("extension crossed the sibling terminator: got %d, barrier %d\n%s", got, len(prefix), src)
		}
		if len(after) > 0 && got != len(prefix) {
			rt.Fatalf("expected all attached lines to be absorbed, got %d want %d\n%s", got, len(prefix), src)
		}
	})
}
