package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/morozRed/revise/internal/fileutil"
	"gopkg.in/yaml.v3"
)

// ProjectConfigFiles are searched for, in order, in each directory from the
// working directory up to the repository root.
var ProjectConfigFiles = []string{".revise.toml", ".revise.yaml", ".revise.yml"}

// ParseError reports a config file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is a config file given with --config. When set, project
	// config discovery is skipped.
	ExplicitPath string

	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// Getenv looks up environment variables; os.Getenv when nil.
	Getenv func(string) string
}

// LoadResult contains the resolved configuration and where it came from.
type LoadResult struct {
	Config     Config
	LoadedFrom []string
	Warnings   []string
}

// Load resolves the configuration. Precedence, highest first:
//  1. Environment variables (REVISE_*)
//  2. Explicit config file (opts.ExplicitPath)
//  3. Project config (.revise.toml upward search)
//  4. User config ($XDG_CONFIG_HOME/revise/config.toml)
//  5. Defaults
//
// Command line flags are applied by the caller on top of the result.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Config: Defaults()}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	paths := make([]string, 0, 2)
	if !opts.IgnoreUserConfig {
		if path := FindUserConfig(getenv); path != "" {
			paths = append(paths, path)
		}
	}
	switch {
	case opts.ExplicitPath != "":
		if _, err := os.Stat(opts.ExplicitPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", opts.ExplicitPath, err)
		}
		paths = append(paths, opts.ExplicitPath)
	case !opts.IgnoreProjectConfig:
		path, err := FindProjectConfig(ctx, opts.WorkingDir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			paths = append(paths, path)
		}
	}

	for _, path := range fileutil.DedupeStrings(paths) {
		file, warnings, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := file.Apply(&result.Config); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		result.LoadedFrom = append(result.LoadedFrom, path)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if !opts.IgnoreEnv {
		if err := ApplyEnv(&result.Config, getenv); err != nil {
			return nil, err
		}
	}

	if err := result.Config.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadFile decodes a TOML or YAML config file, chosen by extension. Unknown
// TOML keys are reported as warnings; unknown YAML keys are errors.
func LoadFile(path string) (*File, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var file File
	if IsYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, &ParseError{Path: path, Err: err}
		}
		return &file, nil, nil
	}

	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	var warnings []string
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return &file, warnings, nil
}

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FindUserConfig returns the user-level config file, if one exists.
func FindUserConfig(getenv func(string) string) string {
	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	dir := filepath.Join(configHome, "revise")
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops at a repository root, the home directory or the
// filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	homeDir, _ := os.UserHomeDir()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		for _, name := range ProjectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(path) {
				return path, nil
			}
		}
		if fileExists(filepath.Join(currentDir, ".git")) {
			return "", nil
		}
		if homeDir != "" && currentDir == homeDir {
			return "", nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
