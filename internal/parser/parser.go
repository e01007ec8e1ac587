package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is wrapped by ParseError when strict parsing finds error nodes.
var ErrSyntax = errors.New("syntax errors in source")

// ParseError reports that a source text could not be turned into a tree.
type ParseError struct {
	Language string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s source: %v", e.Language, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Language holds everything the locator, the range extension rules and the
// splice planner need to know about one programming language.
type Language struct {
	Name       string
	Extensions []string
	Grammar    *sitter.Language

	Rules    map[string]NodeRule
	Wrappers map[string]Wrapper

	AttributePrefixes []string
	Terminators       []string
	Doc               DocStyle
	DocNodeTypes      []string
	ModuleDocstring   bool

	EntryPoint  string
	EntryPolicy InsertPolicy
	Container   *ContainerSpec
	Indent      string
}

// Rule returns the taxonomy entry for a node type.
func (l *Language) Rule(nodeType string) (NodeRule, bool) {
	rule, ok := l.Rules[nodeType]
	return rule, ok
}

// IsDocNode reports whether a node type counts as file-level documentation.
func (l *Language) IsDocNode(nodeType string) bool {
	for _, t := range l.DocNodeTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}

// NameOf resolves the structure name of a node matched by a taxonomy rule.
func (l *Language) NameOf(node *sitter.Node, src []byte) (string, bool) {
	rule, ok := l.Rule(node.Type())
	if !ok {
		return "", false
	}
	holder := node
	if rule.NameChild != "" {
		holder = nil
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child != nil && child.Type() == rule.NameChild {
				holder = child
				break
			}
		}
		if holder == nil {
			return "", false
		}
	}
	nameNode := holder.ChildByFieldName(rule.NameField)
	if nameNode == nil {
		return "", false
	}
	name := strings.TrimSpace(nameNode.Content(src))
	return name, name != ""
}

// Parse produces a syntax tree for content. When strict is set, a tree that
// contains error nodes is rejected.
func (l *Language) Parse(ctx context.Context, content []byte, strict bool) (*Tree, error) {
	if l.Grammar == nil {
		return nil, &ParseError{Language: l.Name, Err: errors.New("no grammar registered")}
	}
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(l.Grammar)

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, &ParseError{Language: l.Name, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Language: l.Name, Err: errors.New("parser returned no tree")}
	}
	if strict && tree.RootNode().HasError() {
		tree.Close()
		return nil, &ParseError{Language: l.Name, Err: ErrSyntax}
	}
	return &Tree{tree: tree, Source: content, Language: l}, nil
}

// Tree is a parsed syntax tree bound to the exact bytes it came from.
type Tree struct {
	tree     *sitter.Tree
	Source   []byte
	Language *Language
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (t *Tree) HasErrors() bool {
	return t.Root().HasError()
}

func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// NodeRange converts a node's byte span into a Range.
func NodeRange(node *sitter.Node) Range {
	return Range{
		Start: safecast.MustConv[int](node.StartByte()),
		End:   safecast.MustConv[int](node.EndByte()),
	}
}

// NodeLine returns the 1-based line a node starts on.
func NodeLine(node *sitter.Node) int {
	return safecast.MustConv[int](node.StartPoint().Row) + 1
}

// Registry holds all registered languages
type Registry struct {
	languages map[string]*Language // language name -> language
	extToLang map[string]string    // extension -> language name
	aliases   map[string]string
}

// NewRegistry creates a new language registry
func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]*Language),
		extToLang: make(map[string]string),
		aliases:   make(map[string]string),
	}
}

// Register adds a language to the registry under its name and any aliases.
func (r *Registry) Register(lang *Language, aliases ...string) {
	r.languages[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.extToLang[strings.ToLower(ext)] = lang.Name
	}
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = lang.Name
	}
}

// ForFile returns the language for a file based on its extension.
func (r *Registry) ForFile(filename string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	name, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	lang, ok := r.languages[name]
	return lang, ok
}

// Lookup returns a language by name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Language, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	lang, ok := r.languages[key]
	return lang, ok
}

// Names returns the registered language names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.languages))
	for name := range r.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedExtensions returns all supported file extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
