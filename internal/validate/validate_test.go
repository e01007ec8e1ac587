package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgvSplitsTemplateWithQuotes(t *testing.T) {
	c := &Command{Template: `cargo clippy --message-format "short" -- {file_path}`}
	argv, err := c.Argv("src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "clippy", "--message-format", "short", "--", "src/lib.rs"}, argv)
}

func TestArgvShellModeQuotesPath(t *testing.T) {
	c := &Command{Template: "ruff check {file_path} && mypy {file_path}", Shell: true}
	argv, err := c.Argv("my dir/app.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"sh", "-c", "ruff check 'my dir/app.py' && mypy 'my dir/app.py'"}, argv)
}

func TestValidateReportsFailureWithOutput(t *testing.T) {
	c := &Command{
		Template: "lint {file_path}",
		Runner: func(ctx context.Context, dir string, argv []string) (string, int, error) {
			return "line 3: unused variable\n", 1, nil
		},
	}
	outcome, err := c.Validate(context.Background(), "a.py")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Contains(t, outcome.Output, "unused variable")
}

func TestValidatePasses(t *testing.T) {
	var seen []string
	c := &Command{
		Template: "lint {file_path}",
		Runner: func(ctx context.Context, dir string, argv []string) (string, int, error) {
			seen = argv
			return "", 0, nil
		},
	}
	outcome, err := c.Validate(context.Background(), "a.py")
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
	assert.Equal(t, "lint a.py", strings.Join(seen, " "))
}

func TestValidateStartFailureIsAnError(t *testing.T) {
	c := &Command{
		Template: "missing-linter",
		Runner: func(ctx context.Context, dir string, argv []string) (string, int, error) {
			return "", -1, errors.New("executable file not found in $PATH")
		},
	}
	_, err := c.Validate(context.Background(), "a.py")
	require.Error(t, err)
}

func TestValidateTimeout(t *testing.T) {
	c := &Command{
		Template: "slow",
		Timeout:  10 * time.Millisecond,
		Runner: func(ctx context.Context, dir string, argv []string) (string, int, error) {
			<-ctx.Done()
			return "", -1, ctx.Err()
		},
	}
	_, err := c.Validate(context.Background(), "a.py")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEmptyTemplateRejected(t *testing.T) {
	_, err := (&Command{Template: "   "}).Argv("a.py")
	assert.Error(t, err)
}
