package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

// Theme defines customizable colors for rendering.
type Theme struct {
	AccentColor  string
	MutedColor   string
	ErrorColor   string
	SuccessColor string
	DividerColor string
	// SegmentColors fill the assignment ratio bar, control group first.
	SegmentColors []string
}

func darkTheme() Theme {
	return Theme{
		AccentColor:   "63",
		MutedColor:    "245",
		ErrorColor:    "196",
		SuccessColor:  "34",
		DividerColor:  "240",
		SegmentColors: []string{"63", "34", "214", "170", "39"},
	}
}

func lightTheme() Theme {
	return Theme{
		AccentColor:   "27",
		MutedColor:    "242",
		ErrorColor:    "160",
		SuccessColor:  "22",
		DividerColor:  "244",
		SegmentColors: []string{"27", "22", "130", "90", "31"},
	}
}

// GetTheme returns the requested base theme; anything but "light" is dark.
func GetTheme(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// Styles builds the component styles for t.
func (t Theme) Styles() components.Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	segs := make([]lipgloss.Style, 0, len(t.SegmentColors))
	for _, c := range t.SegmentColors {
		segs = append(segs, fg(c))
	}
	return components.Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Label:    lipgloss.NewStyle(),
		Focused:  fg(t.AccentColor).Bold(true),
		Muted:    fg(t.MutedColor),
		Accent:   fg(t.AccentColor),
		Error:    fg(t.ErrorColor),
		Success:  fg(t.SuccessColor),
		Divider:  fg(t.DividerColor),
		Segments: segs,
	}
}

// DividerText renders s in the divider color.
func (t Theme) DividerText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.DividerColor)).Render(s)
}
