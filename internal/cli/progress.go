package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/morozRed/revise/internal/session"
)

// sessionProgress renders one self-overwriting status line on a terminal
// while a session moves through its states.
type sessionProgress struct {
	enabled     bool
	w           io.Writer
	label       string
	maxAttempts int
	start       time.Time
	spinner     int
	lastLen     int
}

func newSessionProgress(w io.Writer, label string, maxAttempts int, asJSON bool) *sessionProgress {
	enabled := false
	if f, ok := w.(*os.File); ok && !asJSON {
		enabled = isTerminal(f)
	}
	return &sessionProgress{
		enabled:     enabled,
		w:           w,
		label:       label,
		maxAttempts: maxAttempts,
		start:       time.Now(),
	}
}

// Update is a session.Options.OnTransition callback.
func (p *sessionProgress) Update(state session.State, attempt int) {
	if !p.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[p.spinner%len(frames)]
	p.spinner++

	label := p.label
	if len(label) > 60 {
		label = "..." + label[len(label)-57:]
	}
	status := fmt.Sprintf("%s %s %s", frame, label, state)
	if attempt > 0 {
		status = fmt.Sprintf("%s %s attempt %d/%d %s", frame, label, attempt, p.maxAttempts, state)
	}
	p.printStatus(status)
}

func (p *sessionProgress) Done() {
	if !p.enabled || p.lastLen == 0 {
		return
	}
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.printStatus(fmt.Sprintf("%s done in %s", p.label, elapsed))
	fmt.Fprintln(p.w)
}

func (p *sessionProgress) printStatus(status string) {
	if p.lastLen > len(status) {
		status = status + strings.Repeat(" ", p.lastLen-len(status))
	}
	p.lastLen = len(status)
	fmt.Fprintf(p.w, "\r%s", status)
}
