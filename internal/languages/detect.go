package languages

import (
	"fmt"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/morozRed/revise/internal/parser"
)

// UnsupportedError is returned when no registered language matches a file.
type UnsupportedError struct {
	Path     string
	Detected string
}

func (e *UnsupportedError) Error() string {
	if e.Detected != "" {
		return fmt.Sprintf("unsupported language %q for %s", e.Detected, e.Path)
	}
	return fmt.Sprintf("cannot determine language for %s", e.Path)
}

// Resolve picks the language for a file. An explicit name wins, then the
// file extension, then content-based detection for extension-less scripts.
func Resolve(registry *parser.Registry, explicit, path string, content []byte) (*parser.Language, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		lang, ok := registry.Lookup(explicit)
		if !ok {
			return nil, fmt.Errorf("unsupported language %q (supported: %s)", explicit, strings.Join(registry.Names(), ", "))
		}
		return lang, nil
	}

	if lang, ok := registry.ForFile(path); ok {
		return lang, nil
	}

	detected := enry.GetLanguage(path, content)
	if detected == "" {
		return nil, &UnsupportedError{Path: path}
	}
	lang, ok := registry.Lookup(detected)
	if !ok {
		return nil, &UnsupportedError{Path: path, Detected: detected}
	}
	return lang, nil
}
