// Package wizard implements the step state machine that drives the
// experiment wizard.
package wizard

// Step identifies a wizard screen.
type Step int

const (
	StepBasic Step = iota
	StepSampleSize
	StepRandomization
	StepVariables
	StepReview
)

// StepCount is the number of wizard screens.
const StepCount = int(StepReview) + 1

var stepNames = [StepCount]string{
	"Basic Information",
	"Sample Size",
	"Randomization Method",
	"Variables & Metrics",
	"Review & Create",
}

var stepIDs = [StepCount]string{"basic", "sample", "randomization", "variables", "review"}

// Name returns the display name of the step.
func (s Step) Name() string {
	if s < 0 || int(s) >= StepCount {
		return ""
	}
	return stepNames[s]
}

// ID returns the short identifier of the step.
func (s Step) ID() string {
	if s < 0 || int(s) >= StepCount {
		return ""
	}
	return stepIDs[s]
}

// Steps lists all steps in order.
func Steps() []Step {
	out := make([]Step, 0, StepCount)
	for i := 0; i < StepCount; i++ {
		out = append(out, Step(i))
	}
	return out
}

// Controller tracks the active step. Forward moves are only requested after
// the active step accepted its own input; there is no cross-step validation.
type Controller struct {
	current Step
	created bool
}

// NewController starts at the first step.
func NewController() *Controller {
	return &Controller{current: StepBasic}
}

// Current returns the active step.
func (c *Controller) Current() Step { return c.current }

// Next advances one step, stopping at the review step.
func (c *Controller) Next() Step {
	c.current = min(c.current+1, StepReview)
	return c.current
}

// Back returns one step, stopping at the first step.
func (c *Controller) Back() Step {
	c.current = max(c.current-1, StepBasic)
	return c.current
}

// IsFirst reports whether the active step is the first one.
func (c *Controller) IsFirst() bool { return c.current == StepBasic }

// IsLast reports whether the active step is the review step.
func (c *Controller) IsLast() bool { return c.current == StepReview }

// Create acknowledges the experiment on the review step. It reports whether
// the acknowledgement was recorded.
func (c *Controller) Create() bool {
	if c.current != StepReview {
		return false
	}
	c.created = true
	return true
}

// Created reports whether Create succeeded.
func (c *Controller) Created() bool { return c.created }
