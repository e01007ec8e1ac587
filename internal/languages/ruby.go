package languages

import (
	"github.com/morozRed/revise/internal/parser"
	"github.com/smacker/go-tree-sitter/ruby"
)

// NewRuby returns the Ruby language definition.
func NewRuby() *parser.Language {
	return &parser.Language{
		Name:       "ruby",
		Extensions: []string{".rb", ".rake", ".gemspec"},
		Grammar:    ruby.GetLanguage(),
		Rules: map[string]parser.NodeRule{
			"method":           {Kind: parser.KindFunction, NameField: "name"},
			"singleton_method": {Kind: parser.KindMethod, NameField: "name"},
			"class":            {Kind: parser.KindClass, NameField: "name"},
			"module":           {Kind: parser.KindModule, NameField: "name"},
		},
		Terminators:  []string{"end"},
		Doc:          hashDoc,
		DocNodeTypes: []string{"comment"},
		EntryPoint:   "main",
		EntryPolicy:  parser.InsertBeforeEntry,
		Indent:       "  ",
	}
}
