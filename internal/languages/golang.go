package languages

import (
	"github.com/morozRed/revise/internal/parser"
	"github.com/smacker/go-tree-sitter/golang"
)

// NewGo returns the Go language definition. Type declarations are reported
// as structs; the name sits on the nested type_spec.
func NewGo() *parser.Language {
	return &parser.Language{
		Name:       "go",
		Extensions: []string{".go"},
		Grammar:    golang.GetLanguage(),
		Rules: map[string]parser.NodeRule{
			"function_declaration": {Kind: parser.KindFunction, NameField: "name"},
			"method_declaration":   {Kind: parser.KindMethod, NameField: "name"},
			"type_declaration":     {Kind: parser.KindStruct, NameField: "name", NameChild: "type_spec"},
		},
		Terminators:  []string{"}", ")"},
		Doc:          parser.DocStyle{LinePrefixes: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"},
		DocNodeTypes: []string{"comment"},
		EntryPoint:   "main",
		EntryPolicy:  parser.InsertAfterEntry,
		Indent:       "\t",
	}
}
