package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette used for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourAccent  = lipgloss.Color("#06B6D4")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

// styles holds the lipgloss styles for command output.
var styles = struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Score   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Answer  lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
	Label:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(colourMuted),
	Score:   lipgloss.NewStyle().Foreground(colourAccent),
	Success: lipgloss.NewStyle().Foreground(colourSuccess),
	Warning: lipgloss.NewStyle().Foreground(colourWarning),
	Error:   lipgloss.NewStyle().Foreground(colourError).Bold(true),
	Answer:  lipgloss.NewStyle().PaddingLeft(2),
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// paint renders text with style when w is a terminal and returns it unchanged otherwise.
func paint(w io.Writer, style lipgloss.Style, text string) string {
	if !isTerminal(w) {
		return text
	}
	return style.Render(text)
}
