package components

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles shared by steps and components.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Divider lipgloss.Style
	// Segments color the assignment ratio bar, one per group.
	Segments []lipgloss.Style
}

// PlainStyles renders everything unstyled.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Label:    plain,
		Focused:  plain,
		Muted:    plain,
		Accent:   plain,
		Error:    plain,
		Success:  plain,
		Divider:  plain,
		Segments: []lipgloss.Style{plain},
	}
}
