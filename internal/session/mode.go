package session

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects what a session asks for and how the answer is spliced in.
type Mode string

const (
	ModeReplaceStructure  Mode = "replace_structure"
	ModeWholeFileRewrite  Mode = "whole_file_rewrite"
	ModeAddFunctionality  Mode = "add_functionality"
	ModeAddTests          Mode = "add_tests"
	ModeDocumentStructure Mode = "document_structure"
	ModeDocumentWholeFile Mode = "document_whole_file"
)

var modes = []Mode{
	ModeReplaceStructure,
	ModeWholeFileRewrite,
	ModeAddFunctionality,
	ModeAddTests,
	ModeDocumentStructure,
	ModeDocumentWholeFile,
}

// legacyModes maps the mode names of earlier releases.
var legacyModes = map[string]Mode{
	"improvement":              ModeReplaceStructure,
	"whole_file":               ModeWholeFileRewrite,
	"add_tests_function":       ModeAddTests,
	"documentation_structure":  ModeDocumentStructure,
	"documentation_whole_file": ModeDocumentWholeFile,
}

// UnknownModeError reports a mode name that is neither current nor legacy.
type UnknownModeError struct {
	Name string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown mode %q (valid: %s)", e.Name, strings.Join(ModeNames(), ", "))
}

// ParseMode resolves a mode name, accepting legacy aliases.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	for _, m := range modes {
		if string(m) == key {
			return m, nil
		}
	}
	if m, ok := legacyModes[key]; ok {
		return m, nil
	}
	return "", &UnknownModeError{Name: name}
}

// Modes returns every mode in a stable order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ModeNames returns the canonical mode names.
func ModeNames() []string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}

func (m Mode) String() string {
	return string(m)
}

// NeedsStructure reports whether the mode targets a named structure.
func (m Mode) NeedsStructure() bool {
	switch m {
	case ModeReplaceStructure, ModeAddTests, ModeDocumentStructure:
		return true
	}
	return false
}

// TemplateKeys lists the config keys a request template for m may be stored
// under, canonical name first.
func (m Mode) TemplateKeys() []string {
	keys := []string{string(m)}
	legacy := make([]string, 0, 1)
	for name, target := range legacyModes {
		if target == m {
			legacy = append(legacy, name)
		}
	}
	sort.Strings(legacy)
	return append(keys, legacy...)
}
