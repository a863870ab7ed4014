package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
)

func TestRatioBarProportions(t *testing.T) {
	p := experiment.RatioPreview(experiment.RatioCustom, "2:1:1", 3)
	lines := RatioBar(PlainStyles(), p, 44)
	require.Len(t, lines, 2)

	bar := strings.TrimSpace(ansi.Strip(lines[0]))
	require.Equal(t, 40, ansi.StringWidth(bar))
	require.Equal(t, "  ■ Control 50%  ■ T1 25%  ■ T2 25%", ansi.Strip(lines[1]))
}

func TestRatioBarPlaceholder(t *testing.T) {
	p := experiment.RatioPreview(experiment.RatioCustom, "1:1", 3)
	lines := RatioBar(PlainStyles(), p, 40)
	require.Equal(t, []string{"  [Invalid ratio format]"}, lines)
}

func TestSegmentWidthsSumToTotal(t *testing.T) {
	segs := experiment.RatioPreview(experiment.RatioEqual, "", 3).Segments
	w := segmentWidths(segs, 10)
	require.Equal(t, 10, w[0]+w[1]+w[2])
	for _, n := range w {
		require.GreaterOrEqual(t, n, 1)
	}
}

func TestStepIndicator(t *testing.T) {
	names := []string{"Basic Information", "Sample Size", "Review & Create"}
	got := ansi.Strip(StepIndicator(PlainStyles(), names, 1, 200))
	require.Equal(t, "✓ Basic Information ─ ● Sample Size ─ ○ Review & Create", got)

	got = ansi.Strip(StepIndicator(PlainStyles(), names, 1, 30))
	require.Equal(t, "Step 2 of 3: Sample Size", got)
}

func TestSuggestionBox(t *testing.T) {
	b := NewSuggestionBox("Name ideas")
	require.Contains(t, ansi.Strip(strings.Join(b.Render(PlainStyles(), 60), "\n")), "ctrl+g")

	b.SetLoading()
	require.True(t, b.Loading())
	require.Contains(t, ansi.Strip(strings.Join(b.Render(PlainStyles(), 60), "\n")), "Thinking...")

	b.SetSuggestion(suggest.Suggestion{Values: []string{"A", "B"}, Explanation: "because", Fallback: true})
	require.False(t, b.Loading())
	b.Move(5)
	v, ok := b.Selected()
	require.True(t, ok)
	require.Equal(t, "B", v)
	b.Move(-9)
	v, _ = b.Selected()
	require.Equal(t, "A", v)

	out := ansi.Strip(strings.Join(b.Render(PlainStyles(), 60), "\n"))
	require.Contains(t, out, "> A")
	require.Contains(t, out, "(offline default)")
	require.NotContains(t, out, "because")

	b.ToggleExplanation()
	out = ansi.Strip(strings.Join(b.Render(PlainStyles(), 60), "\n"))
	require.Contains(t, out, "because")

	b.SetNotice("Set a sample size first")
	_, ok = b.Selected()
	require.False(t, ok)
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar()
	s.SetHints("enter: next")
	s.SetSummary("mab · n=120")
	out := ansi.Strip(s.Render(40))
	require.Equal(t, 40, ansi.StringWidth(out))
	require.True(t, strings.HasPrefix(out, "enter: next"))
	require.True(t, strings.HasSuffix(out, "mab · n=120"))

	s.SetError("Please fix the highlighted fields")
	require.Contains(t, ansi.Strip(s.Render(80)), "Please fix")
	s.ClearMessage()
	require.Empty(t, s.Message())
}
