package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/session"
)

// RevisionSummary is the machine-readable report of one revision.
type RevisionSummary struct {
	*session.Result
	DurationMS int64  `json:"duration_ms"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

type DoctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type DoctorSummary struct {
	Mode           string        `json:"mode"`
	RootPath       string        `json:"root_path"`
	Healthy        bool          `json:"healthy"`
	ConfigFiles    []string      `json:"config_files,omitempty"`
	Languages      []string      `json:"languages"`
	Checks         []DoctorCheck `json:"checks"`
	PendingBackups []string      `json:"pending_backups,omitempty"`
	Suggestions    []string      `json:"suggestions,omitempty"`
}

func PrintRevisionSummary(w io.Writer, result *session.Result, runErr error, asJSON bool) error {
	if result == nil {
		return nil
	}
	summary := RevisionSummary{
		Result:     result,
		DurationMS: result.Duration.Milliseconds(),
	}
	if runErr != nil {
		summary.Error = runErr.Error()
		if kind := session.KindOf(runErr); kind != session.KindUnknown {
			summary.ErrorKind = kind.String()
		}
	}
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	st := newStyles(w)
	target := result.Path
	if result.Structure != "" {
		target = fmt.Sprintf("%s:%s", result.Path, result.Structure)
	}
	attempts := "attempts"
	if result.Attempts == 1 {
		attempts = "attempt"
	}

	if runErr == nil {
		fmt.Fprintf(w, "%s %s (%s) in %d %s, %dms\n",
			st.OK.Render("accepted"), target, result.Mode, result.Attempts, attempts, summary.DurationMS)
		if result.Committed {
			fmt.Fprintf(w, "committed: %s\n", result.CommitMessage)
		}
		return nil
	}

	fmt.Fprintf(w, "%s %s (%s) after %d %s, file restored\n",
		st.Fail.Render("failed"), target, result.Mode, result.Attempts, attempts)
	if summary.ErrorKind != "" {
		fmt.Fprintf(w, "reason: %s\n", summary.ErrorKind)
	}
	if feedback := strings.TrimSpace(result.Feedback); feedback != "" {
		fmt.Fprintln(w, st.Dim.Render("last validator output:"))
		for _, line := range strings.Split(feedback, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func PrintDoctorSummary(w io.Writer, summary DoctorSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	st := newStyles(w)
	status := st.OK.Render("healthy")
	if !summary.Healthy {
		status = st.Fail.Render("unhealthy")
	}
	fmt.Fprintf(w, "doctor: %s\n", status)
	fmt.Fprintf(w, "root: %s\n", summary.RootPath)
	if len(summary.ConfigFiles) > 0 {
		fmt.Fprintf(w, "config: %s\n", strings.Join(summary.ConfigFiles, ", "))
	} else {
		fmt.Fprintf(w, "config: %s\n", st.Dim.Render("defaults only"))
	}
	fmt.Fprintf(w, "languages: %s\n", strings.Join(summary.Languages, ", "))
	for _, check := range summary.Checks {
		mark := st.OK.Render("ok")
		if !check.OK {
			mark = st.Fail.Render("missing")
		}
		if check.Detail != "" {
			fmt.Fprintf(w, "  %-10s %s %s\n", check.Name, mark, st.Dim.Render(check.Detail))
		} else {
			fmt.Fprintf(w, "  %-10s %s\n", check.Name, mark)
		}
	}
	if len(summary.PendingBackups) > 0 {
		fmt.Fprintf(w, "%s (%d): %s\n", st.Warn.Render("pending backups"), len(summary.PendingBackups), SummarizePaths(summary.PendingBackups, 8))
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintf(w, "- %s\n", suggestion)
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
