package llm

import (
	"sort"
	"strings"
)

// Placeholders understood by request templates.
const (
	PlaceholderStructureCode = "{structure_code}"
	PlaceholderStructureName = "{structure_name}"
	PlaceholderUserRequest   = "{user_request}"
	PlaceholderSourceCode    = "{source_code}"
	PlaceholderFilePath      = "{file_path}"
	PlaceholderLanguage      = "{language}"
	PlaceholderFeedback      = "{feedback}"
)

// DefaultRequests holds the request template for each revision mode.
var DefaultRequests = map[string]string{
	"replace_structure": `Rewrite the following {language} code according to the request below.
Return the complete new version of {structure_name}, including any attributes and documentation comments, in a single fenced code block.

Request: {user_request}

{structure_code}`,

	"whole_file_rewrite": `Rewrite the {language} file {file_path} according to the request below.
Return the complete file in a single fenced code block.

Request: {user_request}

{source_code}`,

	"add_functionality": `Write new {language} code for the file {file_path} that fulfils the request below.
Return only the new top-level definitions in a single fenced code block; do not repeat existing code.

Request: {user_request}

Current file:
{source_code}`,

	"add_tests": `Write {language} unit tests for {structure_name}.
Return only the test functions in a single fenced code block, without an enclosing test module.

Request: {user_request}

{structure_code}`,

	"document_structure": `Write the documentation comment for the {language} item {structure_name}.
Return only the comment, using the language's documentation comment syntax, in a single fenced code block.

Request: {user_request}

{structure_code}`,

	"document_whole_file": `Write the file-level documentation comment for the {language} file {file_path}.
Return only the comment in a single fenced code block.

Request: {user_request}

{source_code}`,
}

// CommitMessageRequest asks the secondary flow for a one-line commit message.
const CommitMessageRequest = "Generate a commit message for the changes made in {mode} mode to the file {file_path} on a single line, it should be succinct."

// Vars are the values substituted into a request template.
type Vars struct {
	StructureCode string
	StructureName string
	UserRequest   string
	SourceCode    string
	FilePath      string
	Language      string
	Feedback      string
}

// Render fills a request template. Validator feedback is appended as its
// own section when the template has no {feedback} placeholder.
func Render(template string, v Vars) string {
	out := strings.NewReplacer(
		PlaceholderStructureCode, v.StructureCode,
		PlaceholderStructureName, v.StructureName,
		PlaceholderUserRequest, v.UserRequest,
		PlaceholderSourceCode, v.SourceCode,
		PlaceholderFilePath, v.FilePath,
		PlaceholderLanguage, v.Language,
		PlaceholderFeedback, v.Feedback,
	).Replace(template)

	if v.Feedback != "" && !strings.Contains(template, PlaceholderFeedback) {
		out += "\n\nThe previous attempt failed validation with the following output. Fix these problems:\n" + v.Feedback
	}
	return out
}

// RenderCommitRequest fills the commit message request.
func RenderCommitRequest(mode, path string) string {
	return strings.NewReplacer("{mode}", mode, PlaceholderFilePath, path).Replace(CommitMessageRequest)
}

// RequestModes returns the modes that have a default template, sorted.
func RequestModes() []string {
	modes := make([]string, 0, len(DefaultRequests))
	for mode := range DefaultRequests {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}
