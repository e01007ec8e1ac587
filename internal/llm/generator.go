// Package llm talks to the external content generator and turns its
// responses into replacement text.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultCommand is the generator executable used when none is configured.
const DefaultCommand = "fluent"

// Request is one call to the generator.
type Request struct {
	Flow        string
	Prompt      string
	ContextFile string
	Stdin       string
	// Parse asks the generator to return code blocks only.
	Parse bool
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorError reports a failed generator invocation.
type GeneratorError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *GeneratorError) Error() string {
	msg := fmt.Sprintf("generator %s failed: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

var (
	// ErrEmptyResponse is returned when the generator printed nothing.
	ErrEmptyResponse = errors.New("empty response")
	// ErrInvalidUTF8 is returned when the generator output is not text.
	ErrInvalidUTF8 = errors.New("response is not valid UTF-8")
)

// Runner executes a command with stdin and returns its stdout and stderr.
// This abstraction allows mocking in tests.
type Runner func(ctx context.Context, stdin string, name string, args ...string) (stdout, stderr string, err error)

// ExecRunner runs the command as a real subprocess.
func ExecRunner(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CommandClient invokes a fluent-compatible command line generator:
//
//	<command> <flow> <prompt> [--additional-context-file <path>] [-p]
//
// with the user instruction on stdin.
type CommandClient struct {
	Command string
	Timeout time.Duration
	Runner  Runner // if nil, uses ExecRunner
}

// NewCommandClient returns a client for command, defaulting to fluent.
func NewCommandClient(command string, timeout time.Duration) *CommandClient {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return &CommandClient{Command: command, Timeout: timeout}
}

// Args builds the argument list for a request.
func (c *CommandClient) Args(req Request) []string {
	args := []string{req.Flow, req.Prompt}
	if req.ContextFile != "" {
		args = append(args, "--additional-context-file", req.ContextFile)
	}
	if req.Parse {
		args = append(args, "-p")
	}
	return args
}

func (c *CommandClient) Generate(ctx context.Context, req Request) (string, error) {
	runner := c.Runner
	if runner == nil {
		runner = ExecRunner
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	stdout, stderr, err := runner(ctx, req.Stdin, c.Command, c.Args(req)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", &GeneratorError{Command: c.Command, Stderr: stderr, Err: err}
	}
	if !utf8.ValidString(stdout) {
		return "", &GeneratorError{Command: c.Command, Err: ErrInvalidUTF8}
	}
	if strings.TrimSpace(stdout) == "" {
		return "", &GeneratorError{Command: c.Command, Stderr: stderr, Err: ErrEmptyResponse}
	}
	return stdout, nil
}
