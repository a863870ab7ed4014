package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StepIndicator renders the wizard progress, e.g.
// "✓ Basic Information ─ ● Sample Size ─ ○ Randomization Method".
// When the full line does not fit, only the current step is named.
func StepIndicator(st Styles, names []string, current, width int) string {
	parts := make([]string, 0, len(names))
	for i, n := range names {
		switch {
		case i < current:
			parts = append(parts, st.Success.Render("✓ "+n))
		case i == current:
			parts = append(parts, st.Accent.Render("● "+n))
		default:
			parts = append(parts, st.Muted.Render("○ "+n))
		}
	}
	line := strings.Join(parts, st.Divider.Render(" ─ "))
	if ansi.StringWidth(line) <= width {
		return line
	}
	short := fmt.Sprintf("Step %d of %d: %s", current+1, len(names), names[current])
	return ansi.Truncate(st.Accent.Render(short), width, "…")
}
