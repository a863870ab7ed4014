package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

// RatioBar renders an assignment preview as a proportional bar followed by
// a legend. Placeholders render as a single muted line.
func RatioBar(st Styles, p experiment.Preview, width int) []string {
	if p.Placeholder != "" {
		return []string{st.Muted.Render("  [" + p.Placeholder + "]")}
	}
	if len(p.Segments) == 0 {
		return nil
	}
	barW := max(width-4, len(p.Segments))
	widths := segmentWidths(p.Segments, barW)

	var bar, legend strings.Builder
	bar.WriteString("  ")
	legend.WriteString("  ")
	for i, s := range p.Segments {
		style := segmentStyle(st, i)
		bar.WriteString(style.Render(strings.Repeat("█", widths[i])))
		if i > 0 {
			legend.WriteString("  ")
		}
		legend.WriteString(style.Render("■") + " " + fmt.Sprintf("%s %s", s.Label, Percent(s.Percent)))
	}
	return []string{bar.String(), legend.String()}
}

// Percent formats a share for display.
func Percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// segmentWidths splits total cells proportionally; every segment gets at
// least one cell and the widths sum to total.
func segmentWidths(segs []experiment.Segment, total int) []int {
	widths := make([]int, len(segs))
	used := 0
	for i, s := range segs {
		w := max(1, int(math.Round(s.Percent/100*float64(total))))
		widths[i] = w
		used += w
	}
	last := len(widths) - 1
	widths[last] = max(1, widths[last]+total-used)
	return widths
}

func segmentStyle(st Styles, i int) lipgloss.Style {
	if len(st.Segments) == 0 {
		return lipgloss.NewStyle()
	}
	return st.Segments[i%len(st.Segments)]
}
