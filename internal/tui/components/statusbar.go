package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar manages the bottom status bar.
type StatusBar struct {
	hints   string
	message string
	isError bool
	summary string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetHints sets the key hints shown on the left.
func (s *StatusBar) SetHints(h string) {
	s.hints = h
}

// SetMessage shows a transient message in place of the hints.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError shows an error message in place of the hints.
func (s *StatusBar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// ClearMessage restores the hints.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.isError = false
}

// Message returns the current message.
func (s *StatusBar) Message() string { return s.message }

// SetSummary updates the right-hand experiment summary.
func (s *StatusBar) SetSummary(summary string) {
	s.summary = summary
}

// Render renders the status bar.
func (s *StatusBar) Render(width int) string {
	leftText := s.hints
	leftStyle := lipgloss.NewStyle().Faint(true)
	if s.message != "" {
		leftText = s.message
		leftStyle = lipgloss.NewStyle()
		if s.isError {
			leftStyle = leftStyle.Foreground(lipgloss.Color("196"))
		}
	}

	leftStyled := leftStyle.Render(leftText)
	right := lipgloss.NewStyle().Faint(true).Render(s.summary)

	// Ensure right part is always visible
	rightW := lipgloss.Width(right)
	if rightW >= width {
		return ansi.Truncate(right, width, "…")
	}

	avail := width - rightW - 1
	leftRendered := leftStyled
	if lipgloss.Width(leftRendered) > avail {
		leftRendered = ansi.Truncate(leftRendered, avail, "…")
	} else if lipgloss.Width(leftRendered) < avail {
		leftRendered = leftRendered + strings.Repeat(" ", avail-lipgloss.Width(leftRendered))
	}

	return leftRendered + " " + right
}
