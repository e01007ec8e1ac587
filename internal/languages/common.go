package languages

import "github.com/morozRed/revise/internal/parser"

// Documentation styles shared between languages.
var (
	cStyleDoc = func(linePrefixes ...string) parser.DocStyle {
		return parser.DocStyle{
			LinePrefixes: linePrefixes,
			BlockOpen:    "/*",
			BlockClose:   "*/",
		}
	}

	hashDoc = parser.DocStyle{
		LinePrefixes: []string{"#"},
		LineExcludes: []string{"#!"},
	}
)

const defaultIndent = "    "
