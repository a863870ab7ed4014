package steps

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

// Variables edits a working list of variables that is committed on submit.
type Variables struct {
	deps Deps
	form form

	name     *textField
	varType  *choiceField
	dataType *choiceField
	list     *variableList

	state     experiment.State
	box       *components.SuggestionBox
	suggested []experiment.Variable
	// requestedFor remembers the domain and type of the last request.
	requestedFor string
}

// NewVariables creates the variables step.
func NewVariables(d Deps) *Variables {
	dataTypes := make([]choice, 0, 3)
	for _, t := range experiment.DataTypes() {
		dataTypes = append(dataTypes, choice{Value: string(t), Label: string(t)})
	}
	return &Variables{
		deps: d,
		name: newTextField("Add variable", "e.g. Attendance Rate"),
		varType: newChoiceField("Variable type",
			choice{Value: string(experiment.VariableOutcome), Label: "Outcome"},
			choice{Value: string(experiment.VariableContext), Label: "Context"}),
		dataType: newChoiceField("Data type", dataTypes...),
		list:     &variableList{},
		box:      components.NewSuggestionBox("Suggested variables"),
	}
}

// contextual reports whether context variables apply.
func (v *Variables) contextual() bool {
	return !v.deps.Simple && v.state.ExperimentType == experiment.TypeCMAB
}

// Enter copies the state's variables into the working list.
func (v *Variables) Enter(s experiment.State) tea.Cmd {
	v.state = s
	v.list.vars = append([]experiment.Variable(nil), s.Variables...)
	v.list.contextual = v.contextual()
	v.list.cursor = 0
	v.name.SetValue("")
	v.name.err = ""
	v.varType.Select(string(experiment.VariableOutcome))

	fields := []field{v.name}
	if v.contextual() {
		fields = append(fields, v.varType)
	}
	fields = append(fields, v.dataType, v.list)
	v.form = form{}
	cmd := v.form.setFields(fields...)

	key := fmt.Sprintf("%s/%s", s.Domain, v.deps.experimentType(s.ExperimentType))
	if key == v.requestedFor {
		return cmd
	}
	v.requestedFor = key
	return tea.Batch(cmd, v.requestSuggestion())
}

func (v *Variables) requestSuggestion() tea.Cmd {
	v.box.SetLoading()
	return v.deps.request(suggest.Request{
		Kind: suggest.KindVariables,
		Params: suggest.Params{
			Domain:         v.state.Domain,
			Focus:          v.state.Focus,
			ExperimentType: v.deps.experimentType(v.state.ExperimentType),
		},
	})
}

// HandleKey processes keyboard input.
func (v *Variables) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		return ActionContinue, v.requestSuggestion()
	case "ctrl+n":
		v.box.Move(1)
		return ActionContinue, nil
	case "ctrl+p":
		v.box.Move(-1)
		return ActionContinue, nil
	case "ctrl+e":
		v.box.ToggleExplanation()
		return ActionContinue, nil
	case "ctrl+a":
		v.applySelected()
		return ActionContinue, nil
	case "enter":
		if v.form.focused() == field(v.name) && strings.TrimSpace(v.name.Value()) != "" {
			v.addManual()
			return ActionContinue, nil
		}
	}
	if handled, cmd := v.form.handleKey(msg); handled {
		return ActionContinue, cmd
	}
	return ActionPass, nil
}

func (v *Variables) addManual() {
	name := strings.TrimSpace(v.name.Value())
	if err := experiment.ValidateVariableName(name, v.list.vars); err != nil {
		v.name.err = capitalize(err.Error())
		return
	}
	t := experiment.VariableOutcome
	if v.contextual() {
		t = experiment.VariableType(v.varType.Value())
	}
	v.list.vars = append(v.list.vars, experiment.Variable{
		Name:     name,
		Type:     t,
		DataType: experiment.DataType(v.dataType.Value()),
	})
	v.name.SetValue("")
	v.name.err = ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// applySelected adds the highlighted suggestion unless it is already listed.
func (v *Variables) applySelected() {
	if len(v.suggested) == 0 {
		return
	}
	sv := v.suggested[min(v.box.Cursor(), len(v.suggested)-1)]
	if experiment.HasVariable(v.list.vars, sv.Name) {
		return
	}
	v.list.vars = append(v.list.vars, sv)
}

// Update applies variable suggestions.
func (v *Variables) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(SuggestionMsg)
	if !ok || m.Kind != suggest.KindVariables {
		return nil
	}
	v.suggested = splitSuggested(m.Suggestion.Values, v.contextual())
	shown := m.Suggestion
	shown.Values = make([]string, 0, len(v.suggested))
	for _, sv := range v.suggested {
		shown.Values = append(shown.Values, sv.Name)
	}
	v.box.SetSuggestion(shown)
	return nil
}

// splitSuggested turns suggested names into variables. With context
// variables, every third item starting at the first is a context.
func splitSuggested(names []string, contextual bool) []experiment.Variable {
	var outcomes, contexts []experiment.Variable
	for i, n := range names {
		v := experiment.Variable{Name: n, Type: experiment.VariableOutcome, DataType: experiment.InferDataType(n)}
		if contextual && i%3 == 0 {
			v.Type = experiment.VariableContext
			contexts = append(contexts, v)
			continue
		}
		outcomes = append(outcomes, v)
	}
	if contextual && len(contexts) == 0 {
		for _, n := range suggest.DefaultContexts {
			contexts = append(contexts, experiment.Variable{Name: n, Type: experiment.VariableContext, DataType: experiment.InferDataType(n)})
		}
	}
	return append(outcomes, contexts...)
}

// Submit commits the working list.
func (v *Variables) Submit() (experiment.Partial, error) {
	vars := append([]experiment.Variable{}, v.list.vars...)
	return experiment.Partial{Variables: &vars}, nil
}

// Working returns the current working list.
func (v *Variables) Working() []experiment.Variable {
	return append([]experiment.Variable(nil), v.list.vars...)
}

// Render returns the step body.
func (v *Variables) Render(width int) []string {
	st := v.deps.Styles
	lines := v.form.render(st)
	lines = append(lines, "")

	labels := make([]string, 0, len(v.suggested))
	for _, sv := range v.suggested {
		l := fmt.Sprintf("%s (%s)", sv.Name, sv.DataType)
		if v.contextual() {
			l = fmt.Sprintf("%s [%s, %s]", sv.Name, sv.Type, sv.DataType)
		}
		labels = append(labels, l)
	}
	return append(lines, v.box.Render(st, width, labels...)...)
}

// variableList shows the working variables grouped by type. Left/right
// move the cursor and backspace removes the highlighted variable.
type variableList struct {
	vars       []experiment.Variable
	contextual bool
	cursor     int
	focused    bool
}

// ordered returns the variables in display order: outcomes, then contexts.
func (l *variableList) ordered() []experiment.Variable {
	out := make([]experiment.Variable, 0, len(l.vars))
	for _, t := range []experiment.VariableType{experiment.VariableOutcome, experiment.VariableContext} {
		for _, v := range l.vars {
			if v.Type == t {
				out = append(out, v)
			}
		}
	}
	return out
}

func (l *variableList) Focus() tea.Cmd {
	l.focused = true
	return nil
}

func (l *variableList) Blur() { l.focused = false }

func (l *variableList) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "right", "l":
		if l.cursor < len(l.vars)-1 {
			l.cursor++
		}
		return true, nil
	case "left", "h":
		if l.cursor > 0 {
			l.cursor--
		}
		return true, nil
	case "backspace", "delete", "d":
		return l.remove(), nil
	}
	return false, nil
}

func (l *variableList) remove() bool {
	ordered := l.ordered()
	if len(ordered) == 0 {
		return false
	}
	target := ordered[min(l.cursor, len(ordered)-1)].Name
	for i, v := range l.vars {
		if v.Name == target {
			l.vars = append(l.vars[:i], l.vars[i+1:]...)
			break
		}
	}
	l.cursor = max(0, min(l.cursor, len(l.vars)-1))
	return true
}

func (l *variableList) View(st components.Styles, focused bool) []string {
	lines := []string{label(st, fmt.Sprintf("Variables (%d)", len(l.vars)), focused)}
	if len(l.vars) == 0 {
		return append(lines, st.Muted.Render("  No variables yet"))
	}
	ordered := l.ordered()
	section := experiment.VariableType("")
	for i, v := range ordered {
		if l.contextual && v.Type != section {
			section = v.Type
			title := "Outcome variables"
			if section == experiment.VariableContext {
				title = "Context variables"
			}
			lines = append(lines, st.Muted.Render("  "+title))
		}
		row := fmt.Sprintf("  • %s (%s)", v.Name, v.DataType)
		if focused && i == l.cursor {
			row = st.Accent.Render(fmt.Sprintf("> • %s (%s)", v.Name, v.DataType))
		}
		lines = append(lines, row)
	}
	if focused {
		lines = append(lines, st.Muted.Render("  ←/→: select  backspace: remove"))
	}
	return lines
}
