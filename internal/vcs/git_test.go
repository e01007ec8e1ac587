package vcs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morozRed/revise/internal/llm"
)

type recordedCall struct {
	dir  string
	args []string
}

func recordingRunner(calls *[]recordedCall, fail string) GitRunner {
	return func(ctx context.Context, workDir string, args ...string) (string, error) {
		*calls = append(*calls, recordedCall{dir: workDir, args: args})
		if fail != "" && args[0] == fail {
			return "", errors.New("exit status 1")
		}
		switch strings.Join(args, " ") {
		case "rev-parse --show-toplevel":
			return "/repo\n", nil
		case "rev-parse --git-dir":
			return ".git\n", nil
		}
		return "", nil
	}
}

func TestResolvePaths(t *testing.T) {
	var calls []recordedCall
	g := &Git{Runner: recordingRunner(&calls, "")}

	root, gitDir, err := g.ResolvePaths(context.Background(), "/repo/sub")
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if root != "/repo" || gitDir != filepath.Join("/repo", ".git") {
		t.Fatalf("expected /repo and /repo/.git, got %s and %s", root, gitDir)
	}
}

func TestResolvePathsOutsideRepository(t *testing.T) {
	var calls []recordedCall
	g := &Git{Runner: recordingRunner(&calls, "rev-parse")}
	if _, _, err := g.ResolvePaths(context.Background(), "/tmp"); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}

func TestCommitStagesAndCommitsOnlyThePath(t *testing.T) {
	var calls []recordedCall
	g := &Git{Runner: recordingRunner(&calls, "")}

	if err := g.Commit(context.Background(), "/repo/src/lib.rs", "Improve parser"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 git calls, got %d", len(calls))
	}
	if got := strings.Join(calls[0].args, " "); got != "add -- lib.rs" {
		t.Fatalf("expected add -- lib.rs, got %q", got)
	}
	if got := strings.Join(calls[1].args, " "); got != "commit -m Improve parser -- lib.rs" {
		t.Fatalf("expected commit of lib.rs, got %q", got)
	}
	if calls[1].dir != "/repo/src" {
		t.Fatalf("expected commit in /repo/src, got %s", calls[1].dir)
	}
}

func TestCommitFailureUnstagesThePath(t *testing.T) {
	var calls []recordedCall
	g := &Git{Runner: recordingRunner(&calls, "commit")}
	if err := g.Commit(context.Background(), "/repo/a.py", "msg"); err == nil {
		t.Fatalf("expected commit failure")
	}
	if len(calls) != 3 {
		t.Fatalf("expected add, commit and reset, got %d calls", len(calls))
	}
	if got := strings.Join(calls[2].args, " "); got != "reset -q -- a.py" {
		t.Fatalf("expected reset -q -- a.py, got %q", got)
	}
	if calls[2].dir != "/repo" {
		t.Fatalf("expected reset in /repo, got %s", calls[2].dir)
	}
}

func TestCommitFailureReportsUnstageFailure(t *testing.T) {
	g := &Git{Runner: func(ctx context.Context, workDir string, args ...string) (string, error) {
		if args[0] == "add" {
			return "", nil
		}
		return "", errors.New("exit status 128")
	}}
	err := g.Commit(context.Background(), "/repo/a.py", "msg")
	if err == nil {
		t.Fatalf("expected commit failure")
	}
	if !strings.Contains(err.Error(), "failed to commit") || !strings.Contains(err.Error(), "failed to unstage") {
		t.Fatalf("expected both failures to be reported, got %v", err)
	}
}

type stubGenerator struct {
	out string
	err error
	req llm.Request
}

func (s *stubGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.req = req
	return s.out, s.err
}

func TestMessageWriter(t *testing.T) {
	gen := &stubGenerator{out: "\n\"Add retry to fetch loop\"\nextra detail\n"}
	w := &MessageWriter{Generator: gen, Flow: "commit"}

	if got := w.Message(context.Background(), "replace_structure", "src/lib.rs"); got != "Add retry to fetch loop" {
		t.Fatalf("expected first line, got %q", got)
	}
	if !strings.Contains(gen.req.Prompt, "replace_structure mode to the file src/lib.rs") {
		t.Fatalf("unexpected commit prompt %q", gen.req.Prompt)
	}

	failing := &MessageWriter{Generator: &stubGenerator{err: errors.New("boom")}, Flow: "commit"}
	if got := failing.Message(context.Background(), "m", "p"); got != FallbackMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
	if got := (&MessageWriter{}).Message(context.Background(), "m", "p"); got != FallbackMessage {
		t.Fatalf("expected fallback without a flow, got %q", got)
	}
}
