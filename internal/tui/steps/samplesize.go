package steps

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

const (
	modeManual     = "manual"
	modeCalculator = "calculator"
)

// SampleSize lets the user type a sample size or derive one from the
// calculator.
type SampleSize struct {
	deps Deps
	form form

	mode   *choiceField
	manual *textField
	mde    *choiceField
	power  *choiceField
	alpha  *choiceField

	state experiment.State
	box   *components.SuggestionBox
}

// NewSampleSize creates the sample size step.
func NewSampleSize(d Deps) *SampleSize {
	return &SampleSize{
		deps: d,
		mode: newChoiceField("Mode",
			choice{Value: modeManual, Label: "Enter manually"},
			choice{Value: modeCalculator, Label: "Power calculator"}),
		manual: newTextField("Sample size", "Total number of participants"),
		mde:    newChoiceField("Minimum detectable effect", floatChoices(experiment.MDEChoices, mdeLabel)...),
		power:  newChoiceField("Statistical power", floatChoices(experiment.PowerChoices, percentLabel)...),
		alpha:  newChoiceField("Significance level (alpha)", floatChoices(experiment.AlphaChoices, plainLabel)...),
		box:    components.NewSuggestionBox("Suggested sample size"),
	}
}

func floatChoices(values []float64, lbl func(float64) string) []choice {
	out := make([]choice, 0, len(values))
	for _, v := range values {
		out = append(out, choice{Value: strconv.FormatFloat(v, 'f', -1, 64), Label: lbl(v)})
	}
	return out
}

func mdeLabel(v float64) string {
	return fmt.Sprintf("%s (%s)", plainLabel(v), experiment.EffectLabel(v))
}

func percentLabel(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }

func plainLabel(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func parseChoice(c *choiceField) float64 {
	f, _ := strconv.ParseFloat(c.Value(), 64)
	return f
}

// Enter loads the form and asks for a suggestion.
func (s *SampleSize) Enter(st experiment.State) tea.Cmd {
	s.state = st
	pc := experiment.DefaultPowerCalculation()
	if st.PowerCalculation != nil {
		pc = *st.PowerCalculation
	}
	s.mde.Select(plainLabel(pc.MDE))
	s.power.Select(plainLabel(pc.Power))
	s.alpha.Select(plainLabel(pc.Alpha))
	s.manual.err = ""
	if st.HasSampleSize() {
		s.manual.SetValue(strconv.Itoa(st.SampleSize))
	} else {
		s.manual.SetValue("")
	}
	s.form = form{}
	return tea.Batch(s.layout(), s.requestSuggestion())
}

func (s *SampleSize) layout() tea.Cmd {
	if s.mode.Value() == modeCalculator {
		return s.form.setFields(s.mode, s.mde, s.power, s.alpha)
	}
	return s.form.setFields(s.mode, s.manual)
}

func (s *SampleSize) experimentType() experiment.ExperimentType {
	return s.deps.experimentType(s.state.ExperimentType)
}

func (s *SampleSize) requestSuggestion() tea.Cmd {
	s.box.SetLoading()
	return s.deps.request(suggest.Request{
		Kind: suggest.KindSampleSize,
		Params: suggest.Params{
			Domain:         s.state.Domain,
			Focus:          s.state.Focus,
			ExperimentType: s.experimentType(),
			ExpectedEffect: experiment.EffectLabel(parseChoice(s.mde)),
		},
	})
}

// PowerCalculation returns the calculator selection.
func (s *SampleSize) PowerCalculation() experiment.PowerCalculation {
	return experiment.PowerCalculation{
		MDE:   parseChoice(s.mde),
		Power: parseChoice(s.power),
		Alpha: parseChoice(s.alpha),
	}
}

// Calculated returns the calculator result for the current selection.
func (s *SampleSize) Calculated() int {
	return experiment.CalculateSampleSize(s.PowerCalculation(), s.experimentType())
}

// HandleKey processes keyboard input.
func (s *SampleSize) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		return ActionContinue, s.requestSuggestion()
	case "ctrl+n":
		s.box.Move(1)
		return ActionContinue, nil
	case "ctrl+p":
		s.box.Move(-1)
		return ActionContinue, nil
	case "ctrl+e":
		s.box.ToggleExplanation()
		return ActionContinue, nil
	case "ctrl+a":
		if s.mode.Value() == modeCalculator {
			return ActionContinue, s.useCalculated()
		}
		return ActionContinue, s.applySuggestion()
	}

	mode, mde := s.mode.Value(), s.mde.Value()
	handled, cmd := s.form.handleKey(msg)
	if !handled {
		return ActionPass, nil
	}
	var cmds []tea.Cmd
	cmds = append(cmds, cmd)
	if s.mode.Value() != mode {
		cmds = append(cmds, s.layout())
	}
	if s.mde.Value() != mde {
		cmds = append(cmds, s.requestSuggestion())
	}
	return ActionContinue, tea.Batch(cmds...)
}

// applySuggestion copies the suggested value into the manual field and
// writes it to the store right away.
func (s *SampleSize) applySuggestion() tea.Cmd {
	sg, ok := s.box.Suggestion()
	if !ok {
		return nil
	}
	n, ok := sg.Int()
	if !ok || n <= 0 {
		return nil
	}
	s.manual.SetValue(strconv.Itoa(n))
	s.manual.err = ""
	if s.deps.Store != nil {
		s.deps.Store.Update(experiment.Partial{SampleSize: experiment.Ptr(n)})
	}
	return nil
}

// useCalculated copies the calculator result into the manual field.
func (s *SampleSize) useCalculated() tea.Cmd {
	s.manual.SetValue(strconv.Itoa(s.Calculated()))
	s.mode.Select(modeManual)
	return tea.Batch(s.layout(), s.form.focusOn(s.manual))
}

// Update applies sample size suggestions.
func (s *SampleSize) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(SuggestionMsg); ok && m.Kind == suggest.KindSampleSize {
		s.box.SetSuggestion(m.Suggestion)
	}
	return nil
}

// manualValue returns the typed sample size when it is a positive integer.
func (s *SampleSize) manualValue() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s.manual.Value()))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Submit uses the manual value when valid and the calculated one otherwise.
func (s *SampleSize) Submit() (experiment.Partial, error) {
	n, ok := s.manualValue()
	if !ok {
		n = s.Calculated()
	}
	pc := s.PowerCalculation()
	return experiment.Partial{
		SampleSize:       experiment.Ptr(n),
		PowerCalculation: &pc,
	}, nil
}

// Render returns the step body.
func (s *SampleSize) Render(width int) []string {
	st := s.deps.Styles
	lines := s.form.render(st)
	if s.mode.Value() == modeCalculator {
		pc := s.PowerCalculation()
		lines = append(lines,
			"",
			st.Title.Render(fmt.Sprintf("  Calculated sample size: %d", s.Calculated())),
			st.Muted.Render("  "+experiment.PrecisionLabel(pc.MDE)),
			st.Muted.Render("  ctrl+a: use this value"),
			st.Muted.Render("  Heuristic estimate, not a formal power analysis."),
		)
		return lines
	}
	if !s.deps.Simple {
		lines = append(lines, st.Muted.Render("  "+experiment.SampleSizeNote(s.experimentType())))
	}
	if _, ok := s.manualValue(); !ok && strings.TrimSpace(s.manual.Value()) != "" {
		lines = append(lines, st.Error.Render(fmt.Sprintf("  Not a positive number; the calculated %d will be used.", s.Calculated())))
	}
	lines = append(lines, "")
	lines = append(lines, s.box.Render(st, width)...)
	return lines
}
