package languages

import "github.com/morozRed/revise/internal/parser"

// NewDefaultRegistry creates a registry with all supported languages
func NewDefaultRegistry() *parser.Registry {
	r := parser.NewRegistry()

	r.Register(NewRust(), "rs")
	r.Register(NewGo(), "golang")
	r.Register(NewPython(), "py", "python3")
	r.Register(NewRuby(), "rb")
	r.Register(NewTypeScript(), "ts")
	r.Register(NewTSX())
	r.Register(NewJavaScript(), "js", "node")

	return r
}
