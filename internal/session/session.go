// Package session runs one revision of one file: locate the target, ask
// the generator for new code, splice it in, validate, and either accept
// the result or roll the file back to its original bytes.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/llm"
	"github.com/morozRed/revise/internal/logging"
	"github.com/morozRed/revise/internal/parser"
	"github.com/morozRed/revise/internal/splice"
	"github.com/morozRed/revise/internal/validate"
	"github.com/morozRed/revise/internal/vcs"
)

// DefaultMaxAttempts bounds generator calls when Options leaves it unset.
const DefaultMaxAttempts = 3

// Committer records an accepted revision.
type Committer interface {
	Commit(ctx context.Context, path, message string) error
}

// MessageSource writes commit messages.
type MessageSource interface {
	Message(ctx context.Context, mode, path string) string
}

// Options configures a Session.
type Options struct {
	Generator llm.Generator
	// Validator checks the file after every edit. Nil accepts every edit.
	Validator validate.Validator
	// Committer commits accepted revisions. Nil skips the commit.
	Committer Committer
	Messages  MessageSource

	Language    *parser.Language
	Flow        string
	MaxAttempts int
	// Templates overrides the default request template per mode key.
	Templates   map[string]string
	StrictParse bool
	Logger      *log.Logger

	// OnTransition, if set, is called on every state change.
	OnTransition func(state State, attempt int)
}

// Request names the file, the target and the user's instruction.
type Request struct {
	Mode        Mode
	Path        string
	Structure   string
	Instruction string
}

// Result describes a finished session.
type Result struct {
	ID             string        `json:"id"`
	Mode           Mode          `json:"mode"`
	Path           string        `json:"path"`
	Language       string        `json:"language"`
	Structure      string        `json:"structure,omitempty"`
	State          State         `json:"state"`
	Attempts       int           `json:"attempts"`
	GeneratorCalls int           `json:"generator_calls"`
	ValidatorCalls int           `json:"validator_calls"`
	Committed      bool          `json:"committed"`
	CommitMessage  string        `json:"commit_message,omitempty"`
	Feedback       string        `json:"feedback,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Session drives revisions. It holds no per-file state between runs.
type Session struct {
	opts Options
}

// New validates opts and returns a Session.
func New(opts Options) (*Session, error) {
	if opts.Generator == nil {
		return nil, errors.New("session: generator is required")
	}
	if opts.Language == nil {
		return nil, errors.New("session: language is required")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Session{opts: opts}, nil
}

// run is the state of one Run call.
type run struct {
	*Session
	req      Request
	result   *Result
	logger   *log.Logger
	original []byte
	mode     os.FileMode
	dirty    bool
}

// Run performs the revision described by req. On any failure the file is
// left byte-identical to its content when Run started.
func (s *Session) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	id := uuid.NewString()
	r := &run{
		Session: s,
		req:     req,
		result: &Result{
			ID:        id,
			Mode:      req.Mode,
			Path:      req.Path,
			Language:  s.opts.Language.Name,
			Structure: req.Structure,
			State:     StateLocating,
		},
		logger: s.opts.Logger.With(
			logging.FieldSession, id[:8],
			logging.FieldPath, req.Path,
			logging.FieldMode, req.Mode,
		),
	}
	defer func() { r.result.Duration = time.Since(started) }()

	if err := r.preflight(ctx); err != nil {
		r.result.State = StateFailed
		r.logger.Error("session refused to start", logging.FieldError, err)
		return r.result, err
	}

	if err := r.loop(ctx); err != nil {
		return r.result, r.fail(ctx, err)
	}

	if err := r.commit(ctx); err != nil {
		return r.result, r.fail(ctx, err)
	}

	r.transition(StateAccepted)
	if _, err := fileutil.RemoveBackup(req.Path); err != nil {
		r.logger.Warn("could not remove backup", logging.FieldError, err)
	}
	r.logger.Info("revision accepted",
		logging.FieldAttempt, r.result.Attempts,
		"committed", r.result.Committed,
	)
	return r.result, nil
}

func (r *run) preflight(ctx context.Context) error {
	if _, err := ParseMode(string(r.req.Mode)); err != nil {
		return &Error{Kind: KindPreflight, Err: err}
	}
	if r.req.Mode.NeedsStructure() && strings.TrimSpace(r.req.Structure) == "" {
		return newError(KindPreflight, "mode %s needs a structure name", r.req.Mode)
	}

	info, err := os.Stat(r.req.Path)
	if err != nil {
		return newError(KindPreflight, "stat %s: %w", r.req.Path, err)
	}
	if info.IsDir() {
		return newError(KindPreflight, "%s is a directory", r.req.Path)
	}
	original, err := os.ReadFile(r.req.Path)
	if err != nil {
		return newError(KindPreflight, "read %s: %w", r.req.Path, err)
	}
	r.original = original
	r.mode = info.Mode().Perm()

	if err := fileutil.CreateBackup(ctx, r.req.Path, original, r.mode); err != nil {
		return &Error{Kind: KindPreflight, Err: err}
	}
	r.logger.Debug("backup created", "backup", fileutil.BackupPath(r.req.Path), logging.FieldBytes, len(original))
	return nil
}

// loop runs attempts until one passes validation or the attempts run out.
// Every attempt starts from the original text.
func (r *run) loop(ctx context.Context) error {
	limit := r.opts.MaxAttempts
	feedback := ""
	for attempt := 1; attempt <= limit; attempt++ {
		r.result.Attempts = attempt
		r.logger.Info("attempt", logging.FieldAttempt, attempt, logging.FieldMax, limit)

		outcome, err := r.attempt(ctx, feedback)
		if err != nil {
			return err
		}
		if outcome.Passed {
			return nil
		}

		feedback = strings.TrimSpace(outcome.Output)
		r.result.Feedback = feedback
		if attempt == limit {
			return newError(KindValidation, "validator still failing after %d attempts (exit %d)", limit, outcome.ExitCode)
		}

		r.transition(StateRetrying)
		r.logger.Warn("validation failed, retrying", logging.FieldAttempt, attempt, "exit_code", outcome.ExitCode)
		if err := r.restore(ctx); err != nil {
			return &Error{Kind: KindPersist, Err: err}
		}
	}
	return nil
}

func (r *run) attempt(ctx context.Context, feedback string) (validate.Outcome, error) {
	r.transition(StateLocating)
	tree, err := r.opts.Language.Parse(ctx, r.original, r.opts.StrictParse)
	if err != nil {
		return validate.Outcome{}, &Error{Kind: KindParse, Err: err}
	}
	defer tree.Close()
	if tree.HasErrors() {
		r.logger.Warn("source has syntax errors; structure ranges may be approximate")
	}

	p, err := planFor(tree, r.req.Mode, r.req.Structure)
	if err != nil {
		return validate.Outcome{}, err
	}
	if p.structure != nil {
		r.logger.Debug("located", logging.FieldStructure, describeStructure(p.structure), logging.FieldRange, p.structure.Range())
	}

	r.transition(StateRequesting)
	vars := p.vars
	vars.UserRequest = r.req.Instruction
	vars.FilePath = r.req.Path
	vars.Language = r.opts.Language.Name
	vars.Feedback = feedback
	prompt := llm.Render(r.template(), vars)

	r.result.GeneratorCalls++
	response, err := r.opts.Generator.Generate(ctx, llm.Request{
		Flow:        r.opts.Flow,
		Prompt:      prompt,
		ContextFile: r.req.Path,
		Stdin:       r.req.Instruction,
		Parse:       true,
	})
	if err != nil {
		return validate.Outcome{}, &Error{Kind: KindGenerator, Err: err}
	}
	content := llm.ExtractCode(response)
	if strings.TrimSpace(content) == "" {
		return validate.Outcome{}, &Error{Kind: KindGenerator, Err: llm.ErrEmptyResponse}
	}

	r.transition(StateSplicing)
	op := p.operation(content)
	updated, err := splice.Apply(string(r.original), op)
	if err != nil {
		return validate.Outcome{}, newError(KindPersist, "%s: %w", op, err)
	}
	r.logger.Debug("spliced", logging.FieldOperation, op.String(), logging.FieldBytes, len(updated))

	r.transition(StatePersisting)
	r.dirty = true
	if err := fileutil.WriteAtomic(ctx, r.req.Path, []byte(updated), r.mode); err != nil {
		return validate.Outcome{}, &Error{Kind: KindPersist, Err: err}
	}

	if r.opts.Validator == nil {
		return validate.Outcome{Passed: true}, nil
	}
	r.transition(StateValidating)
	r.result.ValidatorCalls++
	outcome, err := r.opts.Validator.Validate(ctx, r.req.Path)
	if err != nil {
		return validate.Outcome{}, &Error{Kind: KindValidation, Err: err}
	}
	return outcome, nil
}

func (r *run) commit(ctx context.Context) error {
	if r.opts.Committer == nil {
		return nil
	}
	message := vcs.FallbackMessage
	if r.opts.Messages != nil {
		message = r.opts.Messages.Message(ctx, string(r.req.Mode), r.req.Path)
	}
	r.result.CommitMessage = message
	if err := r.opts.Committer.Commit(ctx, r.req.Path, message); err != nil {
		return &Error{Kind: KindCommit, Err: err}
	}
	r.result.Committed = true
	return nil
}

// template picks the configured request template for the mode, falling
// back to the built-in one.
func (r *run) template() string {
	keys := r.req.Mode.TemplateKeys()
	for _, key := range keys {
		if tmpl, ok := r.opts.Templates[key]; ok && strings.TrimSpace(tmpl) != "" {
			return tmpl
		}
	}
	return llm.DefaultRequests[keys[0]]
}

// restore writes the original bytes back. It ignores cancellation so that
// an interrupted session still rolls back.
func (r *run) restore(ctx context.Context) error {
	if !r.dirty {
		return nil
	}
	if err := fileutil.WriteAtomic(context.WithoutCancel(ctx), r.req.Path, r.original, r.mode); err != nil {
		return fmt.Errorf("restore %s: %w", r.req.Path, err)
	}
	r.dirty = false
	return nil
}

// fail rolls the file back. The backup is kept; it matches the restored
// file, so the next run on the same path overwrites it.
func (r *run) fail(ctx context.Context, cause error) error {
	r.transition(StateFailed)
	r.logger.Error("revision failed", logging.FieldError, cause, "kind", KindOf(cause))

	if err := r.restore(ctx); err != nil {
		restored, backupErr := fileutil.RestoreBackup(context.WithoutCancel(ctx), r.req.Path)
		if backupErr != nil || !restored {
			r.logger.Error("could not restore file; backup kept",
				"backup", fileutil.BackupPath(r.req.Path), logging.FieldError, err)
			return errors.Join(cause, err)
		}
		r.dirty = false
	}
	return cause
}

func (r *run) transition(state State) {
	r.result.State = state
	r.logger.Debug("state", logging.FieldState, state)
	if r.opts.OnTransition != nil {
		r.opts.OnTransition(state, r.result.Attempts)
	}
}
