package splice

import "strings"

// Dedent removes the indentation shared by all non-blank lines.
func Dedent(content string) string {
	lines := strings.Split(content, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return content
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// Reindent dedents content and prefixes every non-blank line with indent.
func Reindent(content, indent string) string {
	lines := strings.Split(Dedent(content), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// IndentTail prefixes every non-blank line after the first with indent, for
// text inserted at a cursor that already sits after indentation.
func IndentTail(content, indent string) string {
	if indent == "" {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
