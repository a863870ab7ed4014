// Package steps holds the five forms of the experiment wizard. Each form is
// a bubbletea sub-model that reads the shared experiment state on entry and
// hands back a partial update when submitted.
package steps

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
)

// Action tells the program whether a step consumed a key.
type Action int

const (
	ActionContinue Action = iota // Key handled by the step
	ActionPass                   // Key left to the program (enter, esc)
)

// Step is the interface all wizard forms implement.
type Step interface {
	// Enter loads the form from s. It is called every time the step becomes
	// active and may start suggestion requests.
	Enter(s experiment.State) tea.Cmd

	// HandleKey processes keyboard input.
	HandleKey(msg tea.KeyMsg) (Action, tea.Cmd)

	// Update processes async results such as suggestions and timers.
	Update(msg tea.Msg) tea.Cmd

	// Submit checks the form and returns the fields it owns.
	Submit() (experiment.Partial, error)

	// Render returns the step body lines.
	Render(width int) []string
}

// SuggestionMsg carries a finished suggestion request. Gen is the request
// generation handed out by the tracker.
type SuggestionMsg struct {
	Kind       suggest.Kind
	Gen        uint64
	Suggestion suggest.Suggestion
}

// Requester starts a suggestion request and returns the command that
// resolves it into a SuggestionMsg.
type Requester interface {
	Request(req suggest.Request) tea.Cmd
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(req suggest.Request) tea.Cmd

// Request calls f.
func (f RequesterFunc) Request(req suggest.Request) tea.Cmd { return f(req) }

// Deps are shared by every step.
type Deps struct {
	Requester Requester
	// Store receives writes that apply immediately instead of on submit.
	Store       *experiment.Store
	Simple      bool
	ReviewDelay time.Duration
	Styles      components.Styles
}

// New returns the five steps in wizard order.
func New(d Deps) []Step {
	return []Step{
		NewBasicInfo(d),
		NewSampleSize(d),
		NewRandomization(d),
		NewVariables(d),
		NewReview(d),
	}
}

func (d Deps) request(req suggest.Request) tea.Cmd {
	if d.Requester == nil {
		return nil
	}
	return d.Requester.Request(req)
}

func (d Deps) experimentType(t experiment.ExperimentType) experiment.ExperimentType {
	if d.Simple {
		return ""
	}
	return t
}
