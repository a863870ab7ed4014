package steps

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

type fakeRequester struct {
	reqs []suggest.Request
}

func (f *fakeRequester) Request(req suggest.Request) tea.Cmd {
	f.reqs = append(f.reqs, req)
	gen := uint64(len(f.reqs))
	return func() tea.Msg {
		return SuggestionMsg{Kind: req.Kind, Gen: gen, Suggestion: suggest.Default(req)}
	}
}

func (f *fakeRequester) last() suggest.Request {
	return f.reqs[len(f.reqs)-1]
}

func testDeps(f *fakeRequester) Deps {
	return Deps{Requester: f, Styles: components.PlainStyles()}
}

func press(t *testing.T, s Step, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		s.HandleKey(k)
	}
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyGen   = tea.KeyMsg{Type: tea.KeyCtrlG}
	keyApply = tea.KeyMsg{Type: tea.KeyCtrlA}
	keyNext  = tea.KeyMsg{Type: tea.KeyCtrlN}
)

func view(s Step) string {
	return ansi.Strip(strings.Join(s.Render(80), "\n"))
}

func TestBasicInfoRequiresFields(t *testing.T) {
	b := NewBasicInfo(testDeps(&fakeRequester{}))
	b.Enter(experiment.NewState())

	_, err := b.Submit()
	var verrs experiment.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)

	out := view(b)
	require.Contains(t, out, "Please provide the focus of your experiment")
	require.Contains(t, out, "Name is required")
	require.Contains(t, out, "Description is required")
}

func TestBasicInfoSubmit(t *testing.T) {
	b := NewBasicInfo(testDeps(&fakeRequester{}))
	b.Enter(experiment.NewState())

	// type, domain, focus, name, description
	press(t, b, keyRight, keyTab, keyRight, keyTab, typeText("SMS"), keyTab, typeText("Test"), keyTab, typeText("d"))
	a, _ := b.HandleKey(keyEnter)
	require.Equal(t, ActionPass, a)

	p, err := b.Submit()
	require.NoError(t, err)
	require.Equal(t, "Test", *p.Title)
	require.Equal(t, "SMS", *p.Focus)
	require.Equal(t, "d", *p.Description)
	require.Equal(t, experiment.DomainEducation, *p.Domain)
	require.Equal(t, experiment.TypeCMAB, *p.ExperimentType)
	require.NotContains(t, view(b), "is required")
}

func TestBasicInfoSimpleModeHasNoType(t *testing.T) {
	d := testDeps(&fakeRequester{})
	d.Simple = true
	b := NewBasicInfo(d)
	b.Enter(experiment.NewState())

	// domain, focus, name, description
	press(t, b, keyTab, typeText("SMS"), keyTab, typeText("Test"), keyTab, typeText("d"))
	p, err := b.Submit()
	require.NoError(t, err)
	require.Nil(t, p.ExperimentType)
	require.NotContains(t, view(b), "Experiment type")
}

func TestBasicInfoNameSuggestions(t *testing.T) {
	f := &fakeRequester{}
	b := NewBasicInfo(testDeps(f))
	s := experiment.NewState()
	s.Focus = "SM"
	b.Enter(s)

	_, cmd := b.HandleKey(keyGen)
	require.Nil(t, cmd)
	require.Empty(t, f.reqs)
	require.Contains(t, view(b), "at least 3 characters")

	press(t, b, keyTab, keyTab, typeText("S"))
	_, cmd = b.HandleKey(keyGen)
	require.NotNil(t, cmd)
	require.Len(t, f.reqs, 1)
	require.Equal(t, suggest.KindTitle, f.last().Kind)
	require.Equal(t, "SMS", f.last().Params.Focus)
	require.Equal(t, experiment.TypeMAB, f.last().Params.ExperimentType)
	require.Contains(t, view(b), "Thinking...")

	b.Update(cmd())
	press(t, b, keyNext, keyApply)
	p, err := b.Submit()
	require.Error(t, err)
	require.Nil(t, p.Title)
	require.Equal(t, suggest.Default(f.last()).Values[1], b.name.Value())
}

func TestSampleSizeCalculator(t *testing.T) {
	f := &fakeRequester{}
	s := NewSampleSize(testDeps(f))
	st := experiment.NewState()
	s.Enter(st)

	require.Len(t, f.reqs, 1)
	require.Equal(t, "medium", f.last().Params.ExpectedEffect)
	require.Equal(t, experiment.TypeMAB, f.last().Params.ExperimentType)

	press(t, s, keyRight)
	require.Contains(t, view(s), "Calculated sample size: 120")

	// mde 0.2 -> 0.5 refetches with the new effect size
	press(t, s, keyTab, keyRight)
	require.Len(t, f.reqs, 2)
	require.Equal(t, "large", f.last().Params.ExpectedEffect)

	p, err := s.Submit()
	require.NoError(t, err)
	require.Equal(t, 20, *p.SampleSize)
	require.Equal(t, experiment.PowerCalculation{MDE: 0.5, Power: 0.8, Alpha: 0.05}, *p.PowerCalculation)
}

func TestSampleSizeUseCalculatedValue(t *testing.T) {
	s := NewSampleSize(testDeps(&fakeRequester{}))
	st := experiment.NewState()
	st.ExperimentType = experiment.TypeCMAB
	s.Enter(st)

	press(t, s, keyRight, keyApply)
	require.Equal(t, modeManual, s.mode.Value())
	require.Equal(t, "152", s.manual.Value())
}

func TestSampleSizeManualValue(t *testing.T) {
	store := experiment.NewStore(experiment.NewState())
	f := &fakeRequester{}
	d := testDeps(f)
	d.Store = store
	s := NewSampleSize(d)
	s.Enter(store.Get())

	press(t, s, keyTab, typeText("abc"))
	require.Contains(t, view(s), "Not a positive number")
	p, _ := s.Submit()
	require.Equal(t, 120, *p.SampleSize)

	s.Update(SuggestionMsg{Kind: suggest.KindSampleSize, Suggestion: suggest.Suggestion{Kind: suggest.KindSampleSize, Values: []string{"640"}}})
	press(t, s, keyApply)
	require.Equal(t, 640, store.Get().SampleSize)

	p, _ = s.Submit()
	require.Equal(t, 640, *p.SampleSize)
}

func TestRandomizationWaitsForSampleSize(t *testing.T) {
	f := &fakeRequester{}
	r := NewRandomization(testDeps(f))
	r.Enter(experiment.NewState())
	require.Empty(t, f.reqs)
	require.Contains(t, view(r), "set your sample size first")

	st := experiment.NewState()
	st.SampleSize = 300
	st.Variables = []experiment.Variable{{Name: "Age", Type: experiment.VariableOutcome, DataType: experiment.DataNumeric}}
	r.Enter(st)
	require.Len(t, f.reqs, 1)
	require.Equal(t, 300, f.last().Params.SampleSize)
	require.Equal(t, []string{"Age"}, f.last().Params.Variables)
}

func TestRandomizationCustomRatio(t *testing.T) {
	r := NewRandomization(testDeps(&fakeRequester{}))
	r.Enter(experiment.NewState())

	// method, groups, ratio
	press(t, r, keyTab, keyRight, keyTab, keyRight)
	require.Len(t, r.form.fields, 4)
	require.Contains(t, view(r), experiment.PlaceholderUndefined)

	press(t, r, keyTab, typeText("1:1"))
	require.Contains(t, view(r), experiment.PlaceholderInvalid)

	press(t, r, keyBack, keyBack, keyBack, typeText("2:1:1"))
	prev := r.Preview()
	require.Len(t, prev.Segments, 3)
	require.Equal(t, []float64{50, 25, 25}, []float64{prev.Segments[0].Percent, prev.Segments[1].Percent, prev.Segments[2].Percent})

	p, err := r.Submit()
	require.NoError(t, err)
	require.Equal(t, []string{"Control", "Treatment 1", "Treatment 2"}, *p.TreatmentGroups)
	require.Equal(t, experiment.RatioCustom, *p.AssignmentRatio)
	require.Equal(t, "2:1:1", *p.CustomRatioValue)
}

func TestRandomizationApplySuggestion(t *testing.T) {
	r := NewRandomization(testDeps(&fakeRequester{}))
	st := experiment.NewState()
	st.SampleSize = 100
	r.Enter(st)

	r.Update(SuggestionMsg{Kind: suggest.KindRandomization, Suggestion: suggest.Suggestion{Values: []string{"stratified"}}})
	require.Contains(t, view(r), "Stratified Randomization")
	press(t, r, keyApply)
	require.Equal(t, string(experiment.MethodStratified), r.method.Value())
	require.Contains(t, view(r), "Stratify by")

	p, _ := r.Submit()
	require.Equal(t, experiment.MethodStratified, *p.RandomizationMethod)
}

func TestVariablesManualAdd(t *testing.T) {
	v := NewVariables(testDeps(&fakeRequester{}))
	st := experiment.NewState()
	st.ExperimentType = experiment.TypeCMAB
	v.Enter(st)

	press(t, v, typeText("Attendance Rate"), keyEnter)
	press(t, v, typeText("Attendance Rate"), keyEnter)
	require.Contains(t, view(v), "This variable already exists")

	// name, variable type, data type
	press(t, v, keyBack, keyBack, keyBack, keyBack, typeText("Zone"), keyTab, keyRight, keyTab, keyRight)
	v.form.focusOn(v.name)
	press(t, v, keyEnter)

	require.Equal(t, []experiment.Variable{
		{Name: "Attendance Rate", Type: experiment.VariableOutcome, DataType: experiment.DataNumeric},
		{Name: "Attendance Zone", Type: experiment.VariableContext, DataType: experiment.DataCategorical},
	}, v.Working())
	require.Contains(t, view(v), "Context variables")

	a, _ := v.HandleKey(keyEnter)
	require.Equal(t, ActionPass, a)
}

func TestVariablesSuggestionsAndRemove(t *testing.T) {
	f := &fakeRequester{}
	v := NewVariables(testDeps(f))
	st := experiment.NewState()
	st.ExperimentType = experiment.TypeCMAB
	v.Enter(st)
	require.Len(t, f.reqs, 1)

	v.Update(SuggestionMsg{Kind: suggest.KindVariables, Suggestion: suggest.Suggestion{Values: []string{"Region", "Has Phone", "Score", "Device Type"}}})
	require.Equal(t, []string{"Has Phone", "Score", "Region", "Device Type"}, names(v.suggested))
	require.Equal(t, experiment.VariableContext, v.suggested[2].Type)
	require.Equal(t, experiment.DataBinary, v.suggested[0].DataType)

	press(t, v, keyApply, keyApply, keyNext, keyNext, keyApply)
	require.Equal(t, []string{"Has Phone", "Region"}, names(v.Working()))

	// focus the list and remove the highlighted variable
	press(t, v, keyTab, keyTab, keyTab, keyBack)
	require.Equal(t, []string{"Region"}, names(v.Working()))

	p, err := v.Submit()
	require.NoError(t, err)
	require.Equal(t, []string{"Region"}, names(*p.Variables))

	v.Enter(st)
	require.Len(t, f.reqs, 1)
}

func TestSplitSuggested(t *testing.T) {
	got := splitSuggested([]string{"A", "B"}, false)
	require.Equal(t, []string{"A", "B"}, names(got))
	require.Empty(t, experimentContexts(got))

	got = splitSuggested(nil, true)
	require.Equal(t, suggest.DefaultContexts, names(got))
}

func TestVariablesSimpleMode(t *testing.T) {
	f := &fakeRequester{}
	d := testDeps(f)
	d.Simple = true
	v := NewVariables(d)
	st := experiment.NewState()
	st.ExperimentType = experiment.TypeCMAB
	v.Enter(st)

	require.Empty(t, f.last().Params.ExperimentType)
	require.Len(t, v.form.fields, 3)
	require.NotContains(t, view(v), "Variable type")
}

func TestReviewScoresAfterDelay(t *testing.T) {
	r := NewReview(testDeps(&fakeRequester{}))
	st := experiment.NewState()
	st.ExperimentType = experiment.TypeCMAB

	require.NotNil(t, r.Enter(st))
	require.Contains(t, view(r), "Analyzing your experiment design")
	_, ok := r.Result()
	require.False(t, ok)

	stale := reviewDoneMsg{seq: r.seq - 1}
	r.Update(stale)
	_, ok = r.Result()
	require.False(t, ok)

	r.Update(reviewDoneMsg{seq: r.seq})
	res, ok := r.Result()
	require.True(t, ok)
	require.Equal(t, 60, res.Score)

	out := view(r)
	require.Contains(t, out, "Design quality score: 60/100")
	require.Contains(t, out, "Sample size:")
	require.Contains(t, out, notSet)

	r.Update(CreatedMsg{})
	require.Contains(t, view(r), "Experiment created")
}

func TestReviewSimpleMode(t *testing.T) {
	d := testDeps(&fakeRequester{})
	d.Simple = true
	r := NewReview(d)
	require.Nil(t, r.Enter(experiment.NewState()))
	require.NotContains(t, view(r), "design review")
}

func names(vars []experiment.Variable) []string {
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		out = append(out, v.Name)
	}
	return out
}

func experimentContexts(vars []experiment.Variable) []experiment.Variable {
	var out []experiment.Variable
	for _, v := range vars {
		if v.Type == experiment.VariableContext {
			out = append(out, v)
		}
	}
	return out
}
