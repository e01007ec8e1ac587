package logging

// Field names for structured logging.
const (
	FieldError     = "error"
	FieldPath      = "path"
	FieldMode      = "mode"
	FieldLanguage  = "language"
	FieldStructure = "structure"
	FieldSession   = "session"
	FieldAttempt   = "attempt"
	FieldMax       = "max_attempts"
	FieldState     = "state"
	FieldRange     = "range"
	FieldOperation = "operation"
	FieldBytes     = "bytes"
	FieldCommand   = "command"
	FieldConfig    = "config"
	FieldVersion   = "version"
	FieldDuration  = "duration"
)
