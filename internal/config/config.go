// Package config resolves revise settings from defaults, config files and
// the environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the resolved configuration for a revision session.
type Config struct {
	Flow              string
	CommitMessageFlow string
	Language          string
	LintCommand       string
	LintShell         bool
	MaxRetries        int
	GeneratorCommand  string
	GeneratorTimeout  time.Duration
	ValidatorTimeout  time.Duration
	Commit            bool
	StrictParse       bool
	LogLevel          string
	Requests          map[string]string
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Flow:             "coder",
		LintShell:        true,
		MaxRetries:       3,
		GeneratorCommand: "fluent",
		GeneratorTimeout: 5 * time.Minute,
		ValidatorTimeout: 5 * time.Minute,
		Commit:           true,
		LogLevel:         "info",
		Requests:         map[string]string{},
	}
}

// File is the on-disk shape of a config file. Unset keys stay nil so that
// lower-precedence sources show through.
type File struct {
	Flow              *string           `toml:"flow" yaml:"flow"`
	FlowName          *string           `toml:"flowname" yaml:"flowname"`
	CommitMessageFlow *string           `toml:"commit_message_flow" yaml:"commit_message_flow"`
	Language          *string           `toml:"language" yaml:"language"`
	LintCommand       *string           `toml:"lint_command" yaml:"lint_command"`
	LintShell         *bool             `toml:"lint_shell" yaml:"lint_shell"`
	MaxRetries        *int              `toml:"max_retries" yaml:"max_retries"`
	GeneratorCommand  *string           `toml:"generator_command" yaml:"generator_command"`
	GeneratorTimeout  *string           `toml:"generator_timeout" yaml:"generator_timeout"`
	ValidatorTimeout  *string           `toml:"validator_timeout" yaml:"validator_timeout"`
	Commit            *bool             `toml:"commit" yaml:"commit"`
	StrictParse       *bool             `toml:"strict_parse" yaml:"strict_parse"`
	LogLevel          *string           `toml:"log_level" yaml:"log_level"`
	Requests          map[string]string `toml:"requests" yaml:"requests"`
}

// Apply overlays the keys set in f onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.FlowName != nil {
		cfg.Flow = strings.TrimSpace(*f.FlowName)
	}
	if f.Flow != nil {
		cfg.Flow = strings.TrimSpace(*f.Flow)
	}
	if f.CommitMessageFlow != nil {
		cfg.CommitMessageFlow = strings.TrimSpace(*f.CommitMessageFlow)
	}
	if f.Language != nil {
		cfg.Language = strings.TrimSpace(*f.Language)
	}
	if f.LintCommand != nil {
		cfg.LintCommand = strings.TrimSpace(*f.LintCommand)
	}
	if f.LintShell != nil {
		cfg.LintShell = *f.LintShell
	}
	if f.MaxRetries != nil {
		cfg.MaxRetries = *f.MaxRetries
	}
	if f.GeneratorCommand != nil {
		cfg.GeneratorCommand = strings.TrimSpace(*f.GeneratorCommand)
	}
	if f.GeneratorTimeout != nil {
		d, err := parseDuration("generator_timeout", *f.GeneratorTimeout)
		if err != nil {
			return err
		}
		cfg.GeneratorTimeout = d
	}
	if f.ValidatorTimeout != nil {
		d, err := parseDuration("validator_timeout", *f.ValidatorTimeout)
		if err != nil {
			return err
		}
		cfg.ValidatorTimeout = d
	}
	if f.Commit != nil {
		cfg.Commit = *f.Commit
	}
	if f.StrictParse != nil {
		cfg.StrictParse = *f.StrictParse
	}
	if f.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*f.LogLevel)
	}
	if len(f.Requests) > 0 {
		if cfg.Requests == nil {
			cfg.Requests = make(map[string]string, len(f.Requests))
		}
		for mode, tmpl := range f.Requests {
			if strings.TrimSpace(tmpl) == "" {
				continue
			}
			cfg.Requests[strings.TrimSpace(mode)] = tmpl
		}
	}
	return nil
}

// Request returns the first configured request template among keys.
func (c Config) Request(keys ...string) (string, bool) {
	for _, key := range keys {
		if tmpl, ok := c.Requests[key]; ok && strings.TrimSpace(tmpl) != "" {
			return tmpl, true
		}
	}
	return "", false
}

// Validate checks that the resolved configuration is usable.
func (c Config) Validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if strings.TrimSpace(c.GeneratorCommand) == "" {
		return fmt.Errorf("generator_command must not be empty")
	}
	if strings.TrimSpace(c.Flow) == "" {
		return fmt.Errorf("flow must not be empty")
	}
	if c.GeneratorTimeout < 0 || c.ValidatorTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
