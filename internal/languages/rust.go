package languages

import (
	"github.com/morozRed/revise/internal/parser"
	"github.com/smacker/go-tree-sitter/rust"
)

// NewRust returns the Rust language definition.
func NewRust() *parser.Language {
	return &parser.Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Grammar:    rust.GetLanguage(),
		Rules: map[string]parser.NodeRule{
			"function_item": {Kind: parser.KindFunction, NameField: "name"},
			"struct_item":   {Kind: parser.KindStruct, NameField: "name"},
			"enum_item":     {Kind: parser.KindEnum, NameField: "name"},
			"trait_item":    {Kind: parser.KindTrait, NameField: "name"},
			"impl_item":     {Kind: parser.KindImpl, NameField: "type"},
			"mod_item":      {Kind: parser.KindModule, NameField: "name"},
		},
		AttributePrefixes: []string{"#["},
		Terminators:       []string{"}"},
		Doc:               cStyleDoc("///"),
		DocNodeTypes:      []string{"line_comment", "block_comment"},
		EntryPoint:        "main",
		EntryPolicy:       parser.InsertAfterEntry,
		Container: &parser.ContainerSpec{
			Marker: "#[cfg(test)]",
			Open:   "#[cfg(test)]\nmod tests {\n    use super::*;\n",
			Close:  "}",
			Indent: defaultIndent,
		},
		Indent: defaultIndent,
	}
}
