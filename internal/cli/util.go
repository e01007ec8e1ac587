package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/morozRed/revise/internal/config"
	"github.com/morozRed/revise/internal/languages"
	"github.com/morozRed/revise/internal/llm"
	"github.com/morozRed/revise/internal/logging"
	"github.com/morozRed/revise/internal/parser"
	"github.com/morozRed/revise/internal/validate"
	"github.com/morozRed/revise/internal/vcs"
	"github.com/spf13/cobra"
)

// Process boundaries. Tests swap these for fakes.
var (
	newGenerator = func(cfg config.Config) llm.Generator {
		return llm.NewCommandClient(cfg.GeneratorCommand, cfg.GeneratorTimeout)
	}
	gitRunner       vcs.GitRunner
	validatorRunner validate.Runner
	lookPath        = exec.LookPath
	getenv          = os.Getenv
)

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// settings is everything a command needs after config resolution.
type settings struct {
	Config     config.Config
	LoadedFrom []string
	WorkingDir string
	Registry   *parser.Registry
	Logger     *log.Logger
	JSON       bool
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	workingDir, err := resolveWorkingDirectory()
	if err != nil {
		return nil, err
	}
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return nil, err
	}

	loaded, err := config.Load(commandContext(cmd), config.LoadOptions{
		WorkingDir:   workingDir,
		ExplicitPath: configPath,
		Getenv:       getenv,
	})
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config
	if err := applyFlagOverrides(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := languages.NewDefaultRegistry()
	if cfg.Language != "" {
		if _, ok := registry.Lookup(cfg.Language); !ok {
			return nil, fmt.Errorf("unsupported language %q (supported: %s)", cfg.Language, strings.Join(registry.Names(), ", "))
		}
	}

	logger := logging.NewWithWriter(errWriter(cmd), cfg.LogLevel)
	logging.SetDefault(logger)
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	for _, source := range loaded.LoadedFrom {
		logger.Debug("loaded config", logging.FieldConfig, source)
	}

	return &settings{
		Config:     cfg,
		LoadedFrom: loaded.LoadedFrom,
		WorkingDir: workingDir,
		Registry:   registry,
		Logger:     logger,
		JSON:       asJSON,
	}, nil
}

func outWriter(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func errWriter(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}

// readInstruction returns --instruction when given, otherwise all of stdin.
func readInstruction(cmd *cobra.Command) (string, error) {
	if flagChanged(cmd, "instruction") {
		return OptionalStringFlag(cmd, "instruction")
	}
	var in io.Reader = os.Stdin
	if cmd != nil {
		in = cmd.InOrStdin()
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		fmt.Fprintln(errWriter(cmd), "Enter the instruction, then press Ctrl-D:")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read instruction from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
