package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the lipgloss styles for human-readable output. All styles
// render plain text when color is disabled.
type styles struct {
	OK     lipgloss.Style
	Fail   lipgloss.Style
	Warn   lipgloss.Style
	Dim    lipgloss.Style
	Bold   lipgloss.Style
	Kind   lipgloss.Style
	Header lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !colorEnabled(w) {
		plain := lipgloss.NewStyle()
		return styles{OK: plain, Fail: plain, Warn: plain, Dim: plain, Bold: plain, Kind: plain, Header: plain}
	}
	return styles{
		OK:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:   lipgloss.NewStyle().Bold(true),
		Kind:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}
