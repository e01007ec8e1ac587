package config

// DefaultFileName is the project config written by `revise init`.
const DefaultFileName = ".revise.toml"

// ProjectTemplate is the commented default project configuration.
const ProjectTemplate = `# revise project configuration.
# Values here override ~/.config/revise/config.toml and are overridden by
# REVISE_* environment variables and command line flags.

# Generator flow used for code requests.
flow = "coder"

# Generator flow used to write commit messages. Empty means "same as flow".
# commit_message_flow = "commit"

# Force a language instead of detecting it from the file extension.
# language = "rust"

# Validator run after every edit. {file_path} is replaced with the target.
# lint_command = "cargo clippy --quiet"
lint_shell = true

# Attempts per session, including the first.
max_retries = 3

generator_command = "fluent"
generator_timeout = "5m"
validator_timeout = "5m"

# Commit accepted revisions with git.
commit = true

# Reject files the parser had to recover from.
strict_parse = false

log_level = "info"

# Request templates per mode. Placeholders: {structure_code},
# {structure_name}, {user_request}, {source_code}, {file_path}, {language},
# {feedback}.
[requests]
# replace_structure = "Rewrite {structure_name}:\n{structure_code}\n{user_request}"
`
