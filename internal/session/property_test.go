package session_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/languages"
	"github.com/morozRed/revise/internal/logging"
	"github.com/morozRed/revise/internal/session"
	"github.com/morozRed/revise/internal/validate"
)

func TestRetriesAreBoundedAndFailuresRestore(t *testing.T) {
	dir := t.TempDir()
	lang := languages.NewRust()
	logger := logging.NewWithWriter(io.Discard, "error")
	runs := 0

	rapid.Check(t, func(rt *rapid.T) {
		maxAttempts := rapid.IntRange(1, 5).Draw(rt, "maxAttempts")
		verdicts := rapid.SliceOfN(rapid.Bool(), 1, 6).Draw(rt, "verdicts")

		runs++
		path := filepath.Join(dir, fmt.Sprintf("case%d.rs", runs))
		if err := os.WriteFile(path, []byte(rustSource), 0o644); err != nil {
			rt.Fatalf("write: %v", err)
		}

		outcomes := make([]validate.Outcome, len(verdicts))
		for i, ok := range verdicts {
			outcomes[i] = fail
			if ok {
				outcomes[i] = pass
			}
		}
		gen := &fakeGenerator{responses: []string{"fn parse_config() -> Result<(), ()> { Ok(()) }"}}
		s, err := session.New(session.Options{
			Generator:   gen,
			Validator:   &fakeValidator{outcomes: outcomes},
			Language:    lang,
			Flow:        "coder",
			MaxAttempts: maxAttempts,
			Logger:      logger,
		})
		if err != nil {
			rt.Fatalf("new session: %v", err)
		}

		result, err := s.Run(context.Background(), session.Request{
			Mode:      session.ModeReplaceStructure,
			Path:      path,
			Structure: "parse_config",
		})

		if result.GeneratorCalls > maxAttempts {
			rt.Fatalf("%d generator calls with max %d", result.GeneratorCalls, maxAttempts)
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			rt.Fatalf("read: %v", readErr)
		}

		// The last scripted verdict repeats, so a run of failures at the
		// end never turns into a pass.
		firstPass := -1
		for i, ok := range verdicts {
			if ok {
				firstPass = i
				break
			}
		}
		accepted := firstPass >= 0 && firstPass < maxAttempts
		if accepted {
			if err != nil {
				rt.Fatalf("expected acceptance on attempt %d, got %v", firstPass+1, err)
			}
			if result.GeneratorCalls != firstPass+1 {
				rt.Fatalf("expected %d generator calls, got %d", firstPass+1, result.GeneratorCalls)
			}
			if fileutil.BackupExists(path) {
				rt.Fatalf("backup left behind after acceptance")
			}
			return
		}
		if err == nil {
			rt.Fatalf("expected failure")
		}
		if session.KindOf(err) != session.KindValidation {
			rt.Fatalf("expected validation failure, got %v", err)
		}
		if string(content) != rustSource {
			rt.Fatalf("file not restored")
		}
		backup, backupErr := os.ReadFile(fileutil.BackupPath(path))
		if backupErr != nil || string(backup) != rustSource {
			rt.Fatalf("expected the pristine backup to be kept: %v", backupErr)
		}
	})
}
