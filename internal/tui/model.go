package tui

import (
	"fmt"
	"strings"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
	"github.com/interpretive-systems/expwiz/internal/tui/steps"
	"github.com/interpretive-systems/expwiz/internal/wizard"
)

// State holds all application state.
type State struct {
	Store      *experiment.Store
	Controller *wizard.Controller
	Steps      []steps.Step
	Simple     bool

	// UI state
	Width  int
	Height int
	// Scroll is the first visible body line.
	Scroll int

	StatusBar *components.StatusBar
	Theme     Theme
	Styles    components.Styles
}

// ActiveStep returns the form for the current wizard step.
func (s *State) ActiveStep() steps.Step {
	return s.Steps[s.Controller.Current()]
}

// StepNames returns the display names of all steps in order.
func StepNames() []string {
	names := make([]string, 0, wizard.StepCount)
	for _, st := range wizard.Steps() {
		names = append(names, st.Name())
	}
	return names
}

// summary renders the right side of the status bar.
func summary(s experiment.State) string {
	parts := []string{}
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	if s.ExperimentType != "" {
		parts = append(parts, strings.ToUpper(string(s.ExperimentType)))
	}
	if s.HasSampleSize() {
		parts = append(parts, fmt.Sprintf("n=%d", s.SampleSize))
	}
	if n := len(s.Variables); n > 0 {
		parts = append(parts, fmt.Sprintf("%d vars", n))
	}
	return strings.Join(parts, " · ")
}
