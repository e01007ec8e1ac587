package parser

import "fmt"

// StructureKind represents the type of a named structure
type StructureKind int

const (
	KindFunction StructureKind = iota
	KindMethod
	KindClass
	KindStruct
	KindEnum
	KindInterface
	KindTrait
	KindImpl
	KindModule
)

func (k StructureKind) String() string {
	switch k {
	case KindFunction:
		return "func"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindImpl:
		return "impl"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k StructureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Range is a half-open byte interval [Start, End) into a source text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the range selects no bytes. An empty range is an
// insertion point rather than a replacement target.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether other lies entirely inside r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Valid reports whether the range is well formed for a text of the given length.
func (r Range) Valid(length int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= length
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Text returns the bytes covered by r as a string.
func (r Range) Text(src []byte) string {
	return string(src[r.Start:r.End])
}

// Structure describes one named structure found in a syntax tree. Offsets are
// only meaningful for the exact text the tree was parsed from.
type Structure struct {
	Kind     StructureKind `json:"kind"`
	NodeType string        `json:"node_type"`
	Name     string        `json:"name"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Line     int           `json:"line"` // 1-based
	TopLevel bool          `json:"top_level"`
}

// Range returns the raw span of the structure, without attributes or docs.
func (s Structure) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// NodeRule maps a syntax node type to a structure kind and tells the locator
// where the structure's name lives.
type NodeRule struct {
	Kind      StructureKind
	NameField string
	// NameChild names a child node type that carries NameField instead of
	// the node itself (Go type declarations keep the name on type_spec).
	NameChild string
}

// Wrapper describes a node that wraps a declaration, such as Python's
// decorated_definition or a TypeScript export_statement.
type Wrapper struct {
	Field string
	// Absorb extends the wrapped structure's span to the wrapper's start.
	Absorb bool
}

// DocStyle describes how documentation comments look in a language.
type DocStyle struct {
	LinePrefixes []string
	LineExcludes []string
	BlockOpen    string
	BlockClose   string
}

// InsertPolicy controls where new top-level code goes relative to the
// entry point.
type InsertPolicy int

const (
	InsertAfterEntry InsertPolicy = iota
	InsertBeforeEntry
)

func (p InsertPolicy) String() string {
	if p == InsertBeforeEntry {
		return "before"
	}
	return "after"
}

// ContainerSpec describes an enclosing block that collects test functions,
// such as Rust's #[cfg(test)] mod tests { ... }.
type ContainerSpec struct {
	Marker string
	Open   string
	Close  string
	Indent string
}
