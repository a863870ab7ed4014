package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/steps"
	"github.com/interpretive-systems/expwiz/internal/wizard"
)

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyGen   = tea.KeyMsg{Type: tea.KeyCtrlG}
	keyQuit  = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func newTestProgram(t *testing.T, opts Options) Program {
	t.Helper()
	if opts.Client == nil {
		opts.Client = suggest.NewClient(suggest.Unavailable{})
	}
	m := New(context.Background(), opts)
	t.Cleanup(m.shutdown)
	m.Init()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Program)
}

func send(m Program, msgs ...tea.Msg) (Program, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Program)
	}
	return m, cmd
}

func typeText(m Program, s string) Program {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func plainView(m Program) string {
	return ansi.Strip(m.View())
}

// fillBasicInfo moves from the experiment type to focus, name and description.
func fillBasicInfo(m Program) Program {
	m, _ = send(m, keyTab, keyTab)
	m = typeText(m, "SMS")
	m, _ = send(m, keyTab)
	m = typeText(m, "Test")
	m, _ = send(m, keyTab)
	m = typeText(m, "d")
	m, _ = send(m, keyEnter)
	return m
}

func TestView_BeforeSize(t *testing.T) {
	m := New(context.Background(), Options{})
	t.Cleanup(m.shutdown)
	require.Equal(t, "Loading...", m.View())
}

func TestView_Frame(t *testing.T) {
	m := newTestProgram(t, Options{})
	out := plainView(m)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 40)
	require.True(t, strings.HasPrefix(lines[0], "expwiz · Basic Information"), lines[0])
	require.True(t, strings.HasSuffix(strings.TrimRight(lines[0], " "), "enhanced"))
	require.Contains(t, lines[2], "● Basic Information")
	require.Contains(t, lines[39], "enter: continue")
}

func TestView_SimpleMode(t *testing.T) {
	m := newTestProgram(t, Options{Simple: true})
	require.Contains(t, plainView(m), "simple")
	require.NotContains(t, plainView(m), "Experiment type")
}

func TestProgram_SubmitBasicInfo(t *testing.T) {
	m := newTestProgram(t, Options{})
	m = fillBasicInfo(m)

	got := m.Store().Get()
	require.Equal(t, "Test", got.Title)
	require.Equal(t, "SMS", got.Focus)
	require.Equal(t, "d", got.Description)
	require.Equal(t, wizard.StepSampleSize, m.state.Controller.Current())

	out := plainView(m)
	require.True(t, strings.HasPrefix(out, "expwiz · Sample Size"))
	require.Contains(t, out, "Test · MAB")
}

func TestProgram_RejectsIncompleteStep(t *testing.T) {
	m := newTestProgram(t, Options{})
	m, _ = send(m, keyEnter)

	require.Equal(t, wizard.StepBasic, m.state.Controller.Current())
	require.Equal(t, "Please fix the highlighted fields", m.state.StatusBar.Message())
	require.Equal(t, "", m.Store().Get().Title)
}

func TestProgram_BackKeepsValues(t *testing.T) {
	m := newTestProgram(t, Options{})
	m = fillBasicInfo(m)
	m, _ = send(m, keyEsc)

	require.Equal(t, wizard.StepBasic, m.state.Controller.Current())
	require.Contains(t, plainView(m), "Test")

	// Back on the first step stays put.
	m, _ = send(m, keyEsc)
	require.Equal(t, wizard.StepBasic, m.state.Controller.Current())
}

func TestProgram_DropsStaleSuggestions(t *testing.T) {
	m := newTestProgram(t, Options{})
	m, _ = send(m, keyTab, keyTab)
	m = typeText(m, "SMS")

	m, first := send(m, keyGen)
	m, second := send(m, keyGen)
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale := first().(steps.SuggestionMsg)
	fresh := second().(steps.SuggestionMsg)
	require.Less(t, stale.Gen, fresh.Gen)

	stale.Suggestion.Values = []string{"Stale Title"}
	fresh.Suggestion.Values = []string{"Fresh Title"}

	m, _ = send(m, stale)
	require.NotContains(t, plainView(m), "Stale Title")

	m, _ = send(m, fresh)
	require.Contains(t, plainView(m), "Fresh Title")
}

func TestProgram_QuitCancelsRequests(t *testing.T) {
	m := newTestProgram(t, Options{})
	ctx, _ := m.requester.tracker.Begin(context.Background(), suggest.KindVariables)

	m, cmd := send(m, keyQuit)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestProgram_CreateExperiment(t *testing.T) {
	m := newTestProgram(t, Options{Simple: true})
	// Simple mode has no experiment type field.
	m, _ = send(m, keyTab)
	m = typeText(m, "SMS")
	m, _ = send(m, keyTab)
	m = typeText(m, "Test")
	m, _ = send(m, keyTab)
	m = typeText(m, "d")

	for i := 0; i < wizard.StepCount-1; i++ {
		m, _ = send(m, keyEnter)
	}
	require.Equal(t, wizard.StepReview, m.state.Controller.Current())
	require.False(t, m.state.Controller.Created())

	m, _ = send(m, keyEnter)
	require.True(t, m.state.Controller.Created())
	out := plainView(m)
	require.Contains(t, out, "Experiment created")

	got := m.Store().Get()
	require.Equal(t, "Test", got.Title)
	require.True(t, got.HasSampleSize())
	require.Equal(t, experiment.RatioEqual, got.AssignmentRatio)
}

func TestProgram_SummaryFollowsStore(t *testing.T) {
	m := newTestProgram(t, Options{})
	m.Store().Update(experiment.Partial{SampleSize: experiment.Ptr(250)})
	require.Contains(t, plainView(m), "n=250")
}

func TestProgram_SampleSizeChangeInvalidatesRandomization(t *testing.T) {
	m := newTestProgram(t, Options{})
	_, gen := m.requester.tracker.Begin(context.Background(), suggest.KindRandomization)
	require.True(t, m.requester.tracker.Current(suggest.KindRandomization, gen))

	m.Store().Update(experiment.Partial{Title: experiment.Ptr("x")})
	require.True(t, m.requester.tracker.Current(suggest.KindRandomization, gen))

	m.Store().Update(experiment.Partial{SampleSize: experiment.Ptr(400)})
	require.False(t, m.requester.tracker.Current(suggest.KindRandomization, gen))
}

func TestProgram_ScrollsLongBody(t *testing.T) {
	m := newTestProgram(t, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 10})
	m = next.(Program)

	require.Contains(t, plainView(m), "more lines (pgdown)")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyPgDown})
	require.Greater(t, m.state.Scroll, 0)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyPgUp})
	require.Equal(t, 0, m.state.Scroll)
}
