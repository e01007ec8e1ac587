// Package ignore decides which paths a project scan skips, using
// gitignore-like rules where the last matching rule wins.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// FileName is the optional per-project rule file.
const FileName = ".reviseignore"

// DefaultRules skip version control data, dependency trees and build output.
var DefaultRules = []string{
	".git/",
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"target/",
	"__pycache__/",
	".venv/",
}

type rule struct {
	re       *regexp.Regexp
	literal  string
	negated  bool
	dirOnly  bool
	anchored bool
	nested   bool // pattern contains a slash
}

type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from DefaultRules followed by userRules, so
// user negations can re-include a default exclude.
func NewMatcher(userRules []string) *Matcher {
	m := &Matcher{}
	for _, line := range append(append([]string{}, DefaultRules...), userRules...) {
		if r, ok := parseRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// Load reads FileName from root. A missing file yields no rules.
func Load(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	defer f.Close()

	var rules []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return rules, nil
}

// ShouldIgnore reports whether relPath (slash or OS separated, relative to
// the scan root) is excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		r.negated = true
		line = rest
	}
	if rest, ok := strings.CutPrefix(line, "/"); ok {
		r.anchored = true
		line = rest
	}
	if rest, ok := strings.CutSuffix(line, "/"); ok {
		r.dirOnly = true
		line = rest
	}
	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}

	re, err := regexp.Compile("^" + globToRegex(line) + "$")
	if err != nil {
		return rule{}, false
	}
	r.re = re
	r.literal = line
	r.nested = strings.Contains(line, "/")
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly {
		if r.matchesDirPrefix(relPath) {
			return true
		}
		return isDir && r.re.MatchString(path.Base(relPath))
	}
	if r.anchored {
		return r.re.MatchString(relPath)
	}
	if r.nested {
		return r.matchesAnySuffix(relPath)
	}
	for _, segment := range strings.Split(relPath, "/") {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

// matchesDirPrefix reports whether relPath is the directory itself or lies
// inside it.
func (r rule) matchesDirPrefix(relPath string) bool {
	if relPath == r.literal || strings.HasPrefix(relPath, r.literal+"/") {
		return true
	}
	if r.anchored {
		return false
	}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if strings.Join(parts[i:], "/") == r.literal || strings.HasPrefix(strings.Join(parts[i:], "/"), r.literal+"/") {
			return true
		}
	}
	return false
}

func (r rule) matchesAnySuffix(relPath string) bool {
	parts := strings.Split(relPath, "/")
	for i := range parts {
		if r.re.MatchString(strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	return b.String()
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
