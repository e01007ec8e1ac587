package cli

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/ignore"
	"github.com/morozRed/revise/internal/validate"
	"github.com/morozRed/revise/internal/vcs"
	"github.com/spf13/cobra"
)

func RunDoctor(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := s.Config

	summary := DoctorSummary{
		Mode:        "doctor",
		RootPath:    s.WorkingDir,
		ConfigFiles: s.LoadedFrom,
		Languages:   s.Registry.Names(),
		Healthy:     true,
	}
	addCheck := func(check DoctorCheck, suggestion string) {
		summary.Checks = append(summary.Checks, check)
		if !check.OK {
			summary.Healthy = false
			if suggestion != "" {
				summary.Suggestions = append(summary.Suggestions, suggestion)
			}
		}
	}

	addCheck(commandCheck("generator", cfg.GeneratorCommand),
		fmt.Sprintf("install %s or set generator_command", cfg.GeneratorCommand))

	if cfg.LintCommand != "" {
		check := DoctorCheck{Name: "validator"}
		argv, err := (&validate.Command{Template: cfg.LintCommand}).Argv("{file_path}")
		if err != nil {
			check.Detail = err.Error()
		} else {
			check = commandCheck("validator", argv[0])
		}
		addCheck(check, "fix lint_command or install the validator")
	} else {
		summary.Checks = append(summary.Checks, DoctorCheck{Name: "validator", OK: true, Detail: "none configured, every edit is accepted"})
	}

	if cfg.Commit {
		check := commandCheck("git", "git")
		if check.OK {
			repoRoot, _, err := (&vcs.Git{Runner: gitRunner}).ResolvePaths(commandContext(cmd), s.WorkingDir)
			if err != nil {
				check = DoctorCheck{Name: "git", Detail: err.Error()}
			} else {
				check.Detail = repoRoot
			}
		}
		addCheck(check, "run inside a git repository or set commit = false")
	}

	backups, err := findPendingBackups(s.WorkingDir)
	if err != nil {
		return err
	}
	summary.PendingBackups = backups
	if len(backups) > 0 {
		summary.Healthy = false
		summary.Suggestions = append(summary.Suggestions, "inspect pending backups and run revise restore <file>")
	}

	return PrintDoctorSummary(outWriter(cmd), summary, s.JSON)
}

func commandCheck(name, command string) DoctorCheck {
	command = strings.TrimSpace(command)
	if command == "" {
		return DoctorCheck{Name: name, Detail: "not configured"}
	}
	resolved, err := lookPath(command)
	if err != nil {
		return DoctorCheck{Name: name, Detail: fmt.Sprintf("%s not found on PATH", command)}
	}
	return DoctorCheck{Name: name, OK: true, Detail: resolved}
}

// findPendingBackups lists <file>_before_revision files under root, as
// paths relative to root. Paths excluded by the ignore rules are skipped,
// and so are backups identical to their file, which a failed revision
// leaves behind and the next run overwrites.
func findPendingBackups(root string) ([]string, error) {
	userRules, err := ignore.Load(root)
	if err != nil {
		return nil, err
	}
	matcher := ignore.NewMatcher(userRules)

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if matcher.ShouldIgnore(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), fileutil.BackupSuffix) && !backupMatchesFile(path) {
			found = append(found, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for backups: %w", err)
	}
	sort.Strings(found)
	return found, nil
}

func backupMatchesFile(backupPath string) bool {
	backup, err := os.ReadFile(backupPath)
	if err != nil {
		return false
	}
	current, err := os.ReadFile(strings.TrimSuffix(backupPath, fileutil.BackupSuffix))
	if err != nil {
		return false
	}
	return bytes.Equal(backup, current)
}
