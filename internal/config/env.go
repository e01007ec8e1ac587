package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix for all revise environment variables.
const EnvPrefix = "REVISE_"

type envMapping struct {
	description string
	apply       func(cfg *Config, value string) error
}

var envMappings = map[string]envMapping{
	"FLOW": {
		description: "Generator flow used for code requests",
		apply:       func(cfg *Config, v string) error { cfg.Flow = v; return nil },
	},
	"COMMIT_MESSAGE_FLOW": {
		description: "Generator flow used for commit messages (defaults to FLOW)",
		apply:       func(cfg *Config, v string) error { cfg.CommitMessageFlow = v; return nil },
	},
	"LANGUAGE": {
		description: "Force a source language instead of detecting it",
		apply:       func(cfg *Config, v string) error { cfg.Language = v; return nil },
	},
	"LINT_COMMAND": {
		description: "Validator command; {file_path} is replaced with the target file",
		apply:       func(cfg *Config, v string) error { cfg.LintCommand = v; return nil },
	},
	"LINT_SHELL": {
		description: "Run the validator through sh -c: true or false",
		apply:       boolSetter(func(cfg *Config, b bool) { cfg.LintShell = b }),
	},
	"MAX_RETRIES": {
		description: "Maximum generation attempts per session",
		apply:       intSetter(func(cfg *Config, i int) { cfg.MaxRetries = i }),
	},
	"GENERATOR_COMMAND": {
		description: "Generator executable",
		apply:       func(cfg *Config, v string) error { cfg.GeneratorCommand = v; return nil },
	},
	"GENERATOR_TIMEOUT": {
		description: "Timeout per generator call, e.g. 90s or 5m",
		apply: func(cfg *Config, v string) error {
			d, err := parseDuration("generator_timeout", v)
			cfg.GeneratorTimeout = d
			return err
		},
	},
	"VALIDATOR_TIMEOUT": {
		description: "Timeout per validator run",
		apply: func(cfg *Config, v string) error {
			d, err := parseDuration("validator_timeout", v)
			cfg.ValidatorTimeout = d
			return err
		},
	},
	"COMMIT": {
		description: "Commit accepted revisions with git: true or false",
		apply:       boolSetter(func(cfg *Config, b bool) { cfg.Commit = b }),
	},
	"STRICT_PARSE": {
		description: "Reject files with syntax errors: true or false",
		apply:       boolSetter(func(cfg *Config, b bool) { cfg.StrictParse = b }),
	},
	"LOG_LEVEL": {
		description: "Log level: debug, info, warn or error",
		apply:       func(cfg *Config, v string) error { cfg.LogLevel = v; return nil },
	},
}

// ApplyEnv overlays REVISE_* environment variables onto cfg. Empty values are
// ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}
	for _, suffix := range envSuffixes() {
		name := EnvPrefix + suffix
		value := strings.TrimSpace(getenv(name))
		if value == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ListEnvVars returns every supported environment variable with a short
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[EnvPrefix+suffix] = mapping.description
	}
	return out
}

func envSuffixes() []string {
	keys := make([]string, 0, len(envMappings))
	for key := range envMappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func boolSetter(set func(*Config, bool)) func(*Config, string) error {
	return func(cfg *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func intSetter(set func(*Config, int)) func(*Config, string) error {
	return func(cfg *Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}
