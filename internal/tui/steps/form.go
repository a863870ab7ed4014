package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

// field is one focusable row of a form.
type field interface {
	Focus() tea.Cmd
	Blur()
	// HandleKey reports whether the key was consumed.
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)
	View(st components.Styles, focused bool) []string
}

// form keeps a focus ring over its visible fields. Steps rebuild the field
// list when a choice changes which fields are shown.
type form struct {
	fields []field
	focus  int
}

func (f *form) setFields(fields ...field) tea.Cmd {
	var cur field
	if f.focus < len(f.fields) {
		cur = f.fields[f.focus]
	}
	f.fields = fields
	f.focus = 0
	for i, fl := range fields {
		if fl == cur {
			f.focus = i
		}
	}
	return f.refocus()
}

func (f *form) focused() field {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.focus]
}

func (f *form) focusOn(target field) tea.Cmd {
	for i, fl := range f.fields {
		if fl == target {
			f.focus = i
		}
	}
	return f.refocus()
}

func (f *form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i, fl := range f.fields {
		if i == f.focus {
			cmd = fl.Focus()
		} else {
			fl.Blur()
		}
	}
	return cmd
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.refocus()
}

// handleKey moves focus or forwards the key to the focused field.
func (f *form) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return true, f.move(1)
	case "shift+tab", "up":
		return true, f.move(-1)
	}
	if fl := f.focused(); fl != nil {
		return fl.HandleKey(msg)
	}
	return false, nil
}

func (f *form) render(st components.Styles) []string {
	var lines []string
	for i, fl := range f.fields {
		lines = append(lines, fl.View(st, i == f.focus)...)
	}
	return lines
}

func label(st components.Styles, text string, focused bool) string {
	if focused {
		return st.Focused.Render("> " + text)
	}
	return st.Label.Render("  " + text)
}

// textField is a labelled single-line input with an inline error.
type textField struct {
	label string
	input textinput.Model
	err   string
}

func newTextField(lbl, placeholder string) *textField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "  "
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &textField{label: lbl, input: ti}
}

func (t *textField) Value() string { return t.input.Value() }

func (t *textField) SetValue(v string) {
	t.input.SetValue(v)
	t.input.CursorEnd()
}

func (t *textField) Focus() tea.Cmd { return t.input.Focus() }

func (t *textField) Blur() { t.input.Blur() }

func (t *textField) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyCtrlC:
		return false, nil
	}
	if strings.HasPrefix(msg.String(), "ctrl+") && !editingKey(msg.String()) {
		return false, nil
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return true, cmd
}

// editingKey lists the readline bindings textinput implements.
func editingKey(k string) bool {
	switch k {
	case "ctrl+b", "ctrl+f", "ctrl+d", "ctrl+h", "ctrl+k", "ctrl+u", "ctrl+w", "ctrl+v":
		return true
	}
	return false
}

func (t *textField) View(st components.Styles, focused bool) []string {
	lines := []string{label(st, t.label, focused), t.input.View()}
	if t.err != "" {
		lines = append(lines, st.Error.Render("  "+t.err))
	}
	return lines
}

// choice is one option of a choiceField.
type choice struct {
	Value string
	Label string
}

// choiceField cycles through options with left/right or space.
type choiceField struct {
	label   string
	options []choice
	index   int
	focused bool
}

func newChoiceField(lbl string, options ...choice) *choiceField {
	return &choiceField{label: lbl, options: options}
}

func (c *choiceField) Value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index].Value
}

// Select picks the option with value v; unknown values keep the selection.
func (c *choiceField) Select(v string) {
	for i, o := range c.options {
		if o.Value == v {
			c.index = i
			return
		}
	}
}

func (c *choiceField) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *choiceField) Blur() { c.focused = false }

func (c *choiceField) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if len(c.options) == 0 {
		return false, nil
	}
	switch msg.String() {
	case "right", " ", "l":
		c.index = (c.index + 1) % len(c.options)
		return true, nil
	case "left", "h":
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
		return true, nil
	}
	return false, nil
}

func (c *choiceField) View(st components.Styles, focused bool) []string {
	parts := make([]string, 0, len(c.options))
	for i, o := range c.options {
		if i == c.index {
			parts = append(parts, st.Accent.Render("("+o.Label+")"))
		} else {
			parts = append(parts, st.Muted.Render(o.Label))
		}
	}
	return []string{label(st, c.label, focused), "  " + strings.Join(parts, "  ")}
}

// toggleField is a set of independent checkboxes. Left/right move the
// cursor, space toggles.
type toggleField struct {
	label   string
	options []string
	checked map[string]bool
	cursor  int
}

func newToggleField(lbl string, options ...string) *toggleField {
	return &toggleField{label: lbl, options: options, checked: make(map[string]bool)}
}

func (t *toggleField) Selected() []string {
	var out []string
	for _, o := range t.options {
		if t.checked[o] {
			out = append(out, o)
		}
	}
	return out
}

func (t *toggleField) Focus() tea.Cmd { return nil }

func (t *toggleField) Blur() {}

func (t *toggleField) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if len(t.options) == 0 {
		return false, nil
	}
	switch msg.String() {
	case "right", "l":
		if t.cursor < len(t.options)-1 {
			t.cursor++
		}
		return true, nil
	case "left", "h":
		if t.cursor > 0 {
			t.cursor--
		}
		return true, nil
	case " ", "x":
		o := t.options[t.cursor]
		t.checked[o] = !t.checked[o]
		return true, nil
	}
	return false, nil
}

func (t *toggleField) View(st components.Styles, focused bool) []string {
	parts := make([]string, 0, len(t.options))
	for i, o := range t.options {
		mark := "[ ]"
		if t.checked[o] {
			mark = "[x]"
		}
		item := fmt.Sprintf("%s %s", mark, o)
		if focused && i == t.cursor {
			item = st.Accent.Render(item)
		}
		parts = append(parts, item)
	}
	return []string{label(st, t.label, focused), "  " + strings.Join(parts, "  ")}
}
