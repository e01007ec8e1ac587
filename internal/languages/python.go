package languages

import (
	"github.com/morozRed/revise/internal/parser"
	"github.com/smacker/go-tree-sitter/python"
)

// NewPython returns the Python language definition. New code goes before
// main so that a trailing main() call still sees it.
func NewPython() *parser.Language {
	return &parser.Language{
		Name:       "python",
		Extensions: []string{".py", ".pyw"},
		Grammar:    python.GetLanguage(),
		Rules: map[string]parser.NodeRule{
			"function_definition": {Kind: parser.KindFunction, NameField: "name"},
			"class_definition":    {Kind: parser.KindClass, NameField: "name"},
		},
		Wrappers: map[string]parser.Wrapper{
			"decorated_definition": {Field: "definition"},
		},
		AttributePrefixes: []string{"@"},
		Doc:               hashDoc,
		DocNodeTypes:      []string{"comment"},
		ModuleDocstring:   true,
		EntryPoint:        "main",
		EntryPolicy:       parser.InsertBeforeEntry,
		Indent:            defaultIndent,
	}
}
