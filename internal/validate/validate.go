// Package validate runs the configured lint or build command against a
// revised file.
package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Outcome is the result of one validator run.
type Outcome struct {
	Passed   bool
	ExitCode int
	Output   string
}

// Validator checks a file on disk.
type Validator interface {
	Validate(ctx context.Context, path string) (Outcome, error)
}

// Runner executes argv in dir and returns combined output and exit code.
// A non-nil error means the command could not be run at all.
type Runner func(ctx context.Context, dir string, argv []string) (output string, exitCode int, err error)

// ExecRunner runs argv as a real subprocess.
func ExecRunner(ctx context.Context, dir string, argv []string) (string, int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return out.String(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return out.String(), -1, err
	}
	return out.String(), 0, nil
}

// Command is a validator driven by a command template. The placeholder
// {file_path} is replaced with the revised file's path.
type Command struct {
	Template string
	// Shell runs the template through sh -c; otherwise it is split into
	// arguments with shell quoting rules and executed directly.
	Shell   bool
	Dir     string
	Timeout time.Duration
	Runner  Runner // if nil, uses ExecRunner
}

// Argv expands the template for path.
func (c *Command) Argv(path string) ([]string, error) {
	if c.Shell {
		return []string{"sh", "-c", strings.ReplaceAll(c.Template, "{file_path}", shellQuote(path))}, nil
	}
	words, err := shlex.Split(c.Template)
	if err != nil {
		return nil, fmt.Errorf("parse validator command %q: %w", c.Template, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("validator command is empty")
	}
	for i, w := range words {
		words[i] = strings.ReplaceAll(w, "{file_path}", path)
	}
	return words, nil
}

func (c *Command) Validate(ctx context.Context, path string) (Outcome, error) {
	argv, err := c.Argv(path)
	if err != nil {
		return Outcome{}, err
	}
	runner := c.Runner
	if runner == nil {
		runner = ExecRunner
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	output, code, err := runner(ctx, c.Dir, argv)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, fmt.Errorf("validator %q: %w: %w", argv[0], ctxErr, err)
		}
		return Outcome{}, fmt.Errorf("validator %q: %w", argv[0], err)
	}
	return Outcome{Passed: code == 0, ExitCode: code, Output: output}, nil
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
