package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// theme paints console output. The zero value writes text unchanged.
type theme struct {
	enabled bool
	banner  lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
	errText lipgloss.Style
}

func newTheme(enabled bool) theme {
	return theme{
		enabled: enabled,
		banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (t theme) paint(s lipgloss.Style, text string) string {
	if !t.enabled {
		return text
	}
	return s.Render(text)
}

// colorEnabled reports whether w is an interactive terminal that accepts color.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
