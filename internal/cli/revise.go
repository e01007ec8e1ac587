package cli

import (
	"fmt"
	"os"

	"github.com/morozRed/revise/internal/languages"
	"github.com/morozRed/revise/internal/logging"
	"github.com/morozRed/revise/internal/session"
	"github.com/morozRed/revise/internal/validate"
	"github.com/morozRed/revise/internal/vcs"
	"github.com/spf13/cobra"
)

// RunMode is the `run` command: the mode comes from --mode.
func RunMode(cmd *cobra.Command, args []string) error {
	mode, err := ParseModeFlag(cmd)
	if err != nil {
		return &UsageError{Err: err}
	}
	return runRevision(cmd, mode, args)
}

// RunRevisionFor returns the RunE of a shortcut command bound to one mode.
func RunRevisionFor(mode session.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runRevision(cmd, mode, args)
	}
}

func runRevision(cmd *cobra.Command, mode session.Mode, args []string) error {
	if len(args) == 0 {
		return &UsageError{Err: fmt.Errorf("a file path is required")}
	}
	path := args[0]
	structure := ""
	if len(args) > 1 {
		structure = args[1]
	}
	if mode.NeedsStructure() && structure == "" {
		return &UsageError{Err: fmt.Errorf("mode %s needs a structure name: %s <file> <structure>", mode, cmd.Name())}
	}
	if !mode.NeedsStructure() && structure != "" {
		return &UsageError{Err: fmt.Errorf("mode %s does not take a structure name", mode)}
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	cfg := s.Config

	content, err := os.ReadFile(path)
	if err != nil {
		return &session.Error{Kind: session.KindPreflight, Err: err}
	}
	lang, err := languages.Resolve(s.Registry, cfg.Language, path, content)
	if err != nil {
		return &session.Error{Kind: session.KindPreflight, Err: err}
	}

	instruction, err := readInstruction(cmd)
	if err != nil {
		return err
	}
	if instruction == "" {
		s.Logger.Warn("empty instruction", logging.FieldPath, path)
	}

	generator := newGenerator(cfg)
	opts := session.Options{
		Generator:   generator,
		Language:    lang,
		Flow:        cfg.Flow,
		MaxAttempts: cfg.MaxRetries,
		Templates:   cfg.Requests,
		StrictParse: cfg.StrictParse,
		Logger:      s.Logger,
	}
	if cfg.LintCommand != "" {
		opts.Validator = &validate.Command{
			Template: cfg.LintCommand,
			Shell:    cfg.LintShell,
			Timeout:  cfg.ValidatorTimeout,
			Runner:   validatorRunner,
		}
	}
	if cfg.Commit {
		git := &vcs.Git{Runner: gitRunner}
		if _, _, err := git.ResolvePaths(ctx, s.WorkingDir); err != nil {
			return &session.Error{Kind: session.KindPreflight, Err: fmt.Errorf("%w (pass --no-commit to revise without committing)", err)}
		}
		flow := cfg.CommitMessageFlow
		if flow == "" {
			flow = cfg.Flow
		}
		opts.Committer = git
		opts.Messages = &vcs.MessageWriter{Generator: generator, Flow: flow}
	}

	progress := newSessionProgress(errWriter(cmd), path, cfg.MaxRetries, s.JSON)
	opts.OnTransition = progress.Update

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	s.Logger.Debug("starting revision",
		logging.FieldPath, path,
		logging.FieldMode, mode,
		logging.FieldLanguage, lang.Name,
		logging.FieldStructure, structure,
	)
	result, runErr := sess.Run(ctx, session.Request{
		Mode:        mode,
		Path:        path,
		Structure:   structure,
		Instruction: instruction,
	})
	progress.Done()

	if err := PrintRevisionSummary(outWriter(cmd), result, runErr, s.JSON); err != nil {
		return err
	}
	return runErr
}
