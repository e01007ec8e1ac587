package languages

import (
	"github.com/morozRed/revise/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var exportWrapper = map[string]parser.Wrapper{
	"export_statement": {Field: "declaration", Absorb: true},
}

// NewTypeScript returns the TypeScript language definition.
func NewTypeScript() *parser.Language {
	return typeScriptLike("typescript", []string{".ts", ".mts", ".cts"}, typescript.GetLanguage())
}

// NewTSX returns the definition for TypeScript with JSX.
func NewTSX() *parser.Language {
	return typeScriptLike("tsx", []string{".tsx"}, tsx.GetLanguage())
}

func typeScriptLike(name string, exts []string, grammar *sitter.Language) *parser.Language {
	return &parser.Language{
		Name:       name,
		Extensions: exts,
		Grammar:    grammar,
		Rules: map[string]parser.NodeRule{
			"function_declaration":           {Kind: parser.KindFunction, NameField: "name"},
			"generator_function_declaration": {Kind: parser.KindFunction, NameField: "name"},
			"class_declaration":              {Kind: parser.KindClass, NameField: "name"},
			"abstract_class_declaration":     {Kind: parser.KindClass, NameField: "name"},
			"method_definition":              {Kind: parser.KindMethod, NameField: "name"},
			"interface_declaration":          {Kind: parser.KindInterface, NameField: "name"},
			"enum_declaration":               {Kind: parser.KindEnum, NameField: "name"},
			"internal_module":                {Kind: parser.KindModule, NameField: "name"},
		},
		Wrappers:          exportWrapper,
		AttributePrefixes: []string{"@"},
		Terminators:       []string{"}"},
		Doc:               cStyleDoc("//"),
		DocNodeTypes:      []string{"comment"},
		EntryPoint:        "main",
		EntryPolicy:       parser.InsertAfterEntry,
		Indent:            "  ",
	}
}

// NewJavaScript returns the JavaScript language definition.
func NewJavaScript() *parser.Language {
	return &parser.Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:    javascript.GetLanguage(),
		Rules: map[string]parser.NodeRule{
			"function_declaration":           {Kind: parser.KindFunction, NameField: "name"},
			"generator_function_declaration": {Kind: parser.KindFunction, NameField: "name"},
			"class_declaration":              {Kind: parser.KindClass, NameField: "name"},
			"method_definition":              {Kind: parser.KindMethod, NameField: "name"},
		},
		Wrappers:          exportWrapper,
		AttributePrefixes: []string{"@"},
		Terminators:       []string{"}"},
		Doc:               cStyleDoc("//"),
		DocNodeTypes:      []string{"comment"},
		EntryPoint:        "main",
		EntryPolicy:       parser.InsertAfterEntry,
		Indent:            "  ",
	}
}
