package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/revise/internal/config"
	"github.com/morozRed/revise/internal/session"
	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, defaultValue bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, defaultValue int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

// ParseModeFlag reads --mode, accepting the legacy mode names.
func ParseModeFlag(cmd *cobra.Command) (session.Mode, error) {
	raw, err := OptionalStringFlag(cmd, "mode")
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", fmt.Errorf("--mode is required (one of: %s)", strings.Join(session.ModeNames(), ", "))
	}
	return session.ParseMode(raw)
}

// applyFlagOverrides layers explicitly set flags over the loaded config.
// Flags that were not passed leave the config untouched.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if flagChanged(cmd, "language") {
		value, err := OptionalStringFlag(cmd, "language")
		if err != nil {
			return err
		}
		cfg.Language = value
	}
	if flagChanged(cmd, "flow") {
		value, err := OptionalStringFlag(cmd, "flow")
		if err != nil {
			return err
		}
		cfg.Flow = value
	}
	if flagChanged(cmd, "lint") {
		value, err := OptionalStringFlag(cmd, "lint")
		if err != nil {
			return err
		}
		cfg.LintCommand = value
	}
	if flagChanged(cmd, "generator") {
		value, err := OptionalStringFlag(cmd, "generator")
		if err != nil {
			return err
		}
		cfg.GeneratorCommand = value
	}
	if flagChanged(cmd, "max-retries") {
		value, err := OptionalIntFlag(cmd, "max-retries", cfg.MaxRetries)
		if err != nil {
			return err
		}
		cfg.MaxRetries = value
	}
	if flagChanged(cmd, "no-commit") {
		noCommit, err := OptionalBoolFlag(cmd, "no-commit", false)
		if err != nil {
			return err
		}
		cfg.Commit = !noCommit
	}
	if flagChanged(cmd, "strict") {
		strict, err := OptionalBoolFlag(cmd, "strict", cfg.StrictParse)
		if err != nil {
			return err
		}
		cfg.StrictParse = strict
	}
	if flagChanged(cmd, "log-level") {
		value, err := OptionalStringFlag(cmd, "log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = value
	}
	debug, err := OptionalBoolFlag(cmd, "debug", false)
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return nil
}
