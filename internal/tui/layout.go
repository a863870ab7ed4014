package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// chromeHeight is the number of rows outside the step body: top bar, rule,
// step indicator, rule, bottom rule and status bar.
const chromeHeight = 6

// Layout manages screen layout calculations.
type Layout struct {
	width  int
	height int
}

// NewLayout creates a new layout manager.
func NewLayout() *Layout {
	return &Layout{}
}

// SetSize updates the layout dimensions.
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the total width.
func (l *Layout) Width() int {
	return l.width
}

// Height returns the total height.
func (l *Layout) Height() int {
	return l.height
}

// Ready reports whether a size has been received.
func (l *Layout) Ready() bool {
	return l.width > 0 && l.height > 0
}

// ContentHeight returns the height available for the step body.
func (l *Layout) ContentHeight() int {
	h := l.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// RenderFrame renders the frame around the step body.
func (l *Layout) RenderFrame(topLeft, topRight, indicator string, body []string, bottomBar string, theme Theme) string {
	var b strings.Builder
	hr := theme.DividerText(strings.Repeat("─", l.width))

	b.WriteString(l.renderTopBar(topLeft, topRight))
	b.WriteByte('\n')
	b.WriteString(hr)
	b.WriteByte('\n')
	b.WriteString(padToWidth(indicator, l.width))
	b.WriteByte('\n')
	b.WriteString(hr)
	b.WriteByte('\n')

	h := l.ContentHeight()
	for i := 0; i < h; i++ {
		if i < len(body) {
			b.WriteString(padToWidth(body[i], l.width))
		} else {
			b.WriteString(strings.Repeat(" ", l.width))
		}
		b.WriteByte('\n')
	}

	b.WriteString(hr)
	b.WriteByte('\n')
	b.WriteString(bottomBar)
	return b.String()
}

func (l *Layout) renderTopBar(left, right string) string {
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	if leftW+rightW+1 > l.width {
		return padToWidth(left, l.width)
	}
	return left + strings.Repeat(" ", l.width-leftW-rightW) + right
}

// padToWidth pads or truncates s to exactly w cells.
func padToWidth(s string, w int) string {
	width := lipgloss.Width(s)
	if width == w {
		return s
	}
	if width < w {
		return s + strings.Repeat(" ", w-width)
	}
	return ansi.Truncate(s, w, "…")
}
