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

var (
	stratificationOptions = []string{"Age Group", "Gender", "Location"}
	clusterTypes          = []string{"School", "Village", "Hospital", "Other"}
)

// Randomization picks the assignment method, group count and ratio.
type Randomization struct {
	deps Deps
	form form

	method       *choiceField
	strata       *toggleField
	clusterType  *choiceField
	clusterCount *textField
	groups       *choiceField
	ratio        *choiceField
	custom       *textField

	state experiment.State
	box   *components.SuggestionBox
}

// NewRandomization creates the randomization step.
func NewRandomization(d Deps) *Randomization {
	methods := make([]choice, 0, 4)
	for _, m := range experiment.RandomizationMethods() {
		methods = append(methods, choice{Value: string(m), Label: m.Label()})
	}
	groups := make([]choice, 0, experiment.MaxGroups-experiment.MinGroups+1)
	for n := experiment.MinGroups; n <= experiment.MaxGroups; n++ {
		groups = append(groups, choice{Value: strconv.Itoa(n), Label: strconv.Itoa(n)})
	}
	clusters := make([]choice, 0, len(clusterTypes))
	for _, c := range clusterTypes {
		clusters = append(clusters, choice{Value: c, Label: c})
	}
	return &Randomization{
		deps:         d,
		method:       newChoiceField("Randomization method", methods...),
		strata:       newToggleField("Stratify by", stratificationOptions...),
		clusterType:  newChoiceField("Cluster type", clusters...),
		clusterCount: newTextField("Number of clusters", "e.g. 20"),
		groups:       newChoiceField("Treatment groups", groups...),
		ratio: newChoiceField("Assignment ratio",
			choice{Value: string(experiment.RatioEqual), Label: "Equal"},
			choice{Value: string(experiment.RatioCustom), Label: "Custom"}),
		custom: newTextField("Custom ratio", "e.g. 2:1"),
		box:    components.NewSuggestionBox("Recommended method"),
	}
}

// Enter loads the form. A suggestion is only requested once a sample size
// is known.
func (r *Randomization) Enter(s experiment.State) tea.Cmd {
	r.state = s
	r.method.Select(string(s.RandomizationMethod))
	n := len(s.TreatmentGroups)
	if n < experiment.MinGroups || n > experiment.MaxGroups {
		n = experiment.MinGroups
	}
	r.groups.Select(strconv.Itoa(n))
	r.ratio.Select(string(s.AssignmentRatio))
	r.custom.SetValue(s.CustomRatioValue)
	r.form = form{}
	return tea.Batch(r.layout(), r.requestSuggestion())
}

func (r *Randomization) layout() tea.Cmd {
	fields := []field{r.method}
	switch experiment.RandomizationMethod(r.method.Value()) {
	case experiment.MethodStratified:
		fields = append(fields, r.strata)
	case experiment.MethodCluster:
		fields = append(fields, r.clusterType, r.clusterCount)
	}
	fields = append(fields, r.groups, r.ratio)
	if experiment.AssignmentRatio(r.ratio.Value()) == experiment.RatioCustom {
		fields = append(fields, r.custom)
	}
	return r.form.setFields(fields...)
}

func (r *Randomization) requestSuggestion() tea.Cmd {
	if !r.state.HasSampleSize() {
		r.box.SetNotice(suggest.PendingRandomization)
		return nil
	}
	var clusters []string
	if experiment.RandomizationMethod(r.method.Value()) == experiment.MethodCluster {
		clusters = []string{r.clusterType.Value()}
	}
	r.box.SetLoading()
	return r.deps.request(suggest.Request{
		Kind: suggest.KindRandomization,
		Params: suggest.Params{
			Domain:         r.state.Domain,
			ExperimentType: r.deps.experimentType(r.state.ExperimentType),
			SampleSize:     r.state.SampleSize,
			Variables:      r.state.VariableNames(),
			Clusters:       clusters,
		},
	})
}

// HandleKey processes keyboard input.
func (r *Randomization) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		return ActionContinue, r.requestSuggestion()
	case "ctrl+e":
		r.box.ToggleExplanation()
		return ActionContinue, nil
	case "ctrl+n", "ctrl+p":
		return ActionContinue, nil
	case "ctrl+a":
		if v, ok := r.box.Selected(); ok {
			r.method.Select(v)
			return ActionContinue, r.layout()
		}
		return ActionContinue, nil
	}

	method, ratio := r.method.Value(), r.ratio.Value()
	handled, cmd := r.form.handleKey(msg)
	if !handled {
		return ActionPass, nil
	}
	if r.method.Value() != method || r.ratio.Value() != ratio {
		return ActionContinue, tea.Batch(cmd, r.layout())
	}
	return ActionContinue, cmd
}

// Update applies randomization suggestions.
func (r *Randomization) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(SuggestionMsg); ok && m.Kind == suggest.KindRandomization {
		r.box.SetSuggestion(m.Suggestion)
	}
	return nil
}

func (r *Randomization) groupCount() int {
	n, err := strconv.Atoi(r.groups.Value())
	if err != nil {
		return experiment.MinGroups
	}
	return n
}

// Preview returns the live assignment preview.
func (r *Randomization) Preview() experiment.Preview {
	return experiment.RatioPreview(experiment.AssignmentRatio(r.ratio.Value()), r.custom.Value(), r.groupCount())
}

// Submit writes the method and group layout. The custom ratio is stored as
// typed; a malformed value only affects the preview.
func (r *Randomization) Submit() (experiment.Partial, error) {
	return experiment.Partial{
		RandomizationMethod: experiment.Ptr(experiment.RandomizationMethod(r.method.Value())),
		TreatmentGroups:     experiment.Ptr(experiment.TreatmentLabels(r.groupCount())),
		AssignmentRatio:     experiment.Ptr(experiment.AssignmentRatio(r.ratio.Value())),
		CustomRatioValue:    experiment.Ptr(strings.TrimSpace(r.custom.Value())),
	}, nil
}

// Render returns the step body.
func (r *Randomization) Render(width int) []string {
	st := r.deps.Styles
	var lines []string
	for i, fl := range r.form.fields {
		focused := i == r.form.focus
		lines = append(lines, fl.View(st, focused)...)
		switch fl {
		case field(r.method):
			if d := experiment.RandomizationMethod(r.method.Value()).Description(); d != "" {
				lines = append(lines, st.Muted.Render("  "+d))
			}
		case field(r.custom):
			lines = append(lines, st.Muted.Render(fmt.Sprintf("  Colon separated, one number per group (e.g. %s)", experiment.RatioExample(r.groupCount()))))
		}
	}
	lines = append(lines, "", st.Label.Render("  Assignment preview"))
	lines = append(lines, components.RatioBar(st, r.Preview(), width)...)
	lines = append(lines, "")

	labels := make([]string, 0, 1)
	if sg, ok := r.box.Suggestion(); ok && len(sg.Values) > 0 {
		labels = append(labels, experiment.RandomizationMethod(sg.Value()).Label())
	}
	lines = append(lines, r.box.Render(st, width, labels...)...)
	return lines
}
