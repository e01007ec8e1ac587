// Package vcs records accepted revisions in git.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRunner executes a git command in workDir and returns its combined output.
// This abstraction allows mocking in tests.
type GitRunner func(ctx context.Context, workDir string, args ...string) (string, error)

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Git stages and commits single files.
type Git struct {
	Runner GitRunner // if nil, uses the real git subprocess
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	runner := g.Runner
	if runner == nil {
		runner = defaultGitRunner
	}
	return runner(ctx, dir, args...)
}

// ResolvePaths returns the repository root and git directory containing workingDir.
func (g *Git) ResolvePaths(ctx context.Context, workingDir string) (repoRoot string, gitDir string, err error) {
	repoRootOut, err := g.run(ctx, workingDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", "", fmt.Errorf("not inside a git repository")
	}

	gitDirOut, err := g.run(ctx, workingDir, "rev-parse", "--git-dir")
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve git directory: %w", err)
	}

	repoRoot = strings.TrimSpace(repoRootOut)
	gitDir = strings.TrimSpace(gitDirOut)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(repoRoot, gitDir)
	}
	return repoRoot, gitDir, nil
}

// Stage adds path to the index.
func (g *Git) Stage(ctx context.Context, path string) error {
	dir, name, err := splitPath(path)
	if err != nil {
		return err
	}
	if _, err := g.run(ctx, dir, "add", "--", name); err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// Commit stages path and commits only that path with message. When the
// commit fails the path is unstaged again so the index is left as found.
func (g *Git) Commit(ctx context.Context, path, message string) error {
	if err := g.Stage(ctx, path); err != nil {
		return err
	}
	dir, name, err := splitPath(path)
	if err != nil {
		return err
	}
	if _, err := g.run(ctx, dir, "commit", "-m", message, "--", name); err != nil {
		commitErr := fmt.Errorf("failed to commit %s: %w", path, err)
		if _, resetErr := g.run(context.WithoutCancel(ctx), dir, "reset", "-q", "--", name); resetErr != nil {
			return errors.Join(commitErr, fmt.Errorf("failed to unstage %s: %w", path, resetErr))
		}
		return commitErr
	}
	return nil
}

func splitPath(path string) (dir, name string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}
