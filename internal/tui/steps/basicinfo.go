package steps

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

// minFocusForSuggestions is the focus length required before names are suggested.
const minFocusForSuggestions = 3

const focusTooShort = "Enter at least 3 characters of focus to get name suggestions."

// BasicInfo collects experiment type, domain, focus, name and description.
type BasicInfo struct {
	deps Deps
	form form

	expType     *choiceField
	domain      *choiceField
	focus       *textField
	name        *textField
	description *textField

	names *components.SuggestionBox
}

// NewBasicInfo creates the basic information step.
func NewBasicInfo(d Deps) *BasicInfo {
	b := &BasicInfo{
		deps:        d,
		domain:      newChoiceField("Domain", domainChoices()...),
		focus:       newTextField("Focus", "e.g. SMS reminders for vaccination"),
		name:        newTextField("Experiment name", "A short, specific title"),
		description: newTextField("Description", "What are you testing and why?"),
		names:       components.NewSuggestionBox("Name suggestions"),
	}
	if !d.Simple {
		b.expType = newChoiceField("Experiment type", typeChoices()...)
	}
	return b
}

func domainChoices() []choice {
	out := make([]choice, 0, 4)
	for _, d := range experiment.Domains() {
		out = append(out, choice{Value: string(d), Label: d.Label()})
	}
	return out
}

func typeChoices() []choice {
	out := make([]choice, 0, 3)
	for _, t := range experiment.ExperimentTypes() {
		out = append(out, choice{Value: string(t), Label: t.Label()})
	}
	return out
}

// Enter loads the form from s.
func (b *BasicInfo) Enter(s experiment.State) tea.Cmd {
	b.domain.Select(string(s.Domain))
	b.focus.SetValue(s.Focus)
	b.name.SetValue(s.Title)
	b.description.SetValue(s.Description)
	b.clearErrors()

	fields := []field{b.domain, b.focus, b.name, b.description}
	if b.expType != nil {
		b.expType.Select(string(s.ExperimentType))
		fields = append([]field{b.expType}, fields...)
	}
	b.form = form{}
	return b.form.setFields(fields...)
}

// HandleKey processes keyboard input.
func (b *BasicInfo) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		return ActionContinue, b.requestNames()
	case "ctrl+n":
		b.names.Move(1)
		return ActionContinue, nil
	case "ctrl+p":
		b.names.Move(-1)
		return ActionContinue, nil
	case "ctrl+e":
		b.names.ToggleExplanation()
		return ActionContinue, nil
	case "ctrl+a":
		if v, ok := b.names.Selected(); ok {
			b.name.SetValue(v)
			b.name.err = ""
			return ActionContinue, b.form.focusOn(b.name)
		}
		return ActionContinue, nil
	}
	if handled, cmd := b.form.handleKey(msg); handled {
		return ActionContinue, cmd
	}
	return ActionPass, nil
}

func (b *BasicInfo) requestNames() tea.Cmd {
	focus := strings.TrimSpace(b.focus.Value())
	if len(focus) < minFocusForSuggestions {
		b.names.SetNotice(focusTooShort)
		return nil
	}
	b.names.SetLoading()
	var t experiment.ExperimentType
	if b.expType != nil {
		t = experiment.ExperimentType(b.expType.Value())
	}
	return b.deps.request(suggest.Request{
		Kind: suggest.KindTitle,
		Params: suggest.Params{
			Domain:         experiment.Domain(b.domain.Value()),
			Focus:          focus,
			ExperimentType: t,
		},
	})
}

// Update applies name suggestions.
func (b *BasicInfo) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(SuggestionMsg); ok && m.Kind == suggest.KindTitle {
		b.names.SetSuggestion(m.Suggestion)
	}
	return nil
}

// Submit validates the required fields.
func (b *BasicInfo) Submit() (experiment.Partial, error) {
	in := experiment.BasicInfo{
		Focus:       b.focus.Value(),
		Name:        b.name.Value(),
		Description: b.description.Value(),
	}
	b.clearErrors()
	if err := experiment.ValidateBasicInfo(in); err != nil {
		var verrs experiment.ValidationErrors
		if errors.As(err, &verrs) {
			b.focus.err = verrs.For("Focus")
			b.name.err = verrs.For("Name")
			b.description.err = verrs.For("Description")
		}
		return experiment.Partial{}, err
	}

	p := experiment.Partial{
		Title:       experiment.Ptr(strings.TrimSpace(in.Name)),
		Description: experiment.Ptr(strings.TrimSpace(in.Description)),
		Focus:       experiment.Ptr(strings.TrimSpace(in.Focus)),
		Domain:      experiment.Ptr(experiment.Domain(b.domain.Value())),
	}
	if b.expType != nil {
		p.ExperimentType = experiment.Ptr(experiment.ExperimentType(b.expType.Value()))
	}
	return p, nil
}

func (b *BasicInfo) clearErrors() {
	b.focus.err = ""
	b.name.err = ""
	b.description.err = ""
}

// Render returns the step body.
func (b *BasicInfo) Render(width int) []string {
	st := b.deps.Styles
	lines := b.form.render(st)
	if b.expType != nil {
		t := experiment.ExperimentType(b.expType.Value())
		lines = append(lines, st.Muted.Render("  "+t.Description()))
	}
	lines = append(lines, "")
	lines = append(lines, b.names.Render(st, width)...)
	return lines
}
