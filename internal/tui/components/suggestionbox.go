package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/interpretive-systems/expwiz/internal/suggest"
)

// SuggestionBox shows the state of one suggestion kind: loading, a notice
// when no request can be made yet, or the values with a cursor.
type SuggestionBox struct {
	Title           string
	loading         bool
	notice          string
	suggestion      *suggest.Suggestion
	cursor          int
	showExplanation bool
}

// NewSuggestionBox creates an empty box.
func NewSuggestionBox(title string) *SuggestionBox {
	return &SuggestionBox{Title: title}
}

// SetLoading marks a request in flight and clears any notice.
func (b *SuggestionBox) SetLoading() {
	b.loading = true
	b.notice = ""
}

// SetNotice replaces the box content with a message.
func (b *SuggestionBox) SetNotice(msg string) {
	b.loading = false
	b.notice = msg
	b.suggestion = nil
	b.cursor = 0
}

// SetSuggestion shows s and resets the cursor.
func (b *SuggestionBox) SetSuggestion(s suggest.Suggestion) {
	b.loading = false
	b.notice = ""
	b.suggestion = &s
	b.cursor = 0
}

// Reset clears the box.
func (b *SuggestionBox) Reset() {
	b.loading = false
	b.notice = ""
	b.suggestion = nil
	b.cursor = 0
	b.showExplanation = false
}

// Loading reports whether a request is in flight.
func (b *SuggestionBox) Loading() bool { return b.loading }

// Suggestion returns the shown suggestion, if any.
func (b *SuggestionBox) Suggestion() (suggest.Suggestion, bool) {
	if b.suggestion == nil {
		return suggest.Suggestion{}, false
	}
	return *b.suggestion, true
}

// Selected returns the value under the cursor.
func (b *SuggestionBox) Selected() (string, bool) {
	if b.suggestion == nil || len(b.suggestion.Values) == 0 {
		return "", false
	}
	return b.suggestion.Values[b.cursor], true
}

// Cursor returns the index of the selected value.
func (b *SuggestionBox) Cursor() int { return b.cursor }

// Move shifts the cursor by delta, clamped to the values.
func (b *SuggestionBox) Move(delta int) {
	if b.suggestion == nil {
		return
	}
	b.cursor = max(0, min(b.cursor+delta, len(b.suggestion.Values)-1))
}

// ToggleExplanation shows or hides the explanation.
func (b *SuggestionBox) ToggleExplanation() {
	b.showExplanation = !b.showExplanation
}

// Render renders the box. labels, when set, replaces the displayed text of
// each value.
func (b *SuggestionBox) Render(st Styles, width int, labels ...string) []string {
	lines := []string{st.Title.Render("✨ " + b.Title)}
	switch {
	case b.loading:
		lines = append(lines, st.Muted.Render("  Thinking..."))
	case b.notice != "":
		lines = append(lines, st.Muted.Render("  "+b.notice))
	case b.suggestion == nil:
		lines = append(lines, st.Muted.Render("  ctrl+g: get suggestions"))
	default:
		for i, v := range b.suggestion.Values {
			text := v
			if i < len(labels) && labels[i] != "" {
				text = labels[i]
			}
			cur := "  "
			if i == b.cursor {
				cur = "> "
				text = st.Accent.Render(text)
			}
			lines = append(lines, ansi.Truncate(cur+text, width, "…"))
		}
		hint := "ctrl+n/p: move  ctrl+a: apply  ctrl+e: why?"
		if b.suggestion.Fallback {
			hint += "  (offline default)"
		}
		lines = append(lines, st.Muted.Render("  "+hint))
		if b.showExplanation && b.suggestion.Explanation != "" {
			for _, l := range wrap(b.suggestion.Explanation, width-4) {
				lines = append(lines, st.Muted.Render("    "+l))
			}
		}
	}
	return lines
}

func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	return strings.Split(ansi.Wordwrap(text, width, ""), "\n")
}
