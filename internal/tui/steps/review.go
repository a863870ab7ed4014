package steps

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

const notSet = "Not set"

// reviewDoneMsg ends the simulated design review started by Enter.
type reviewDoneMsg struct {
	seq int
}

// CreatedMsg tells the review step the experiment was acknowledged.
type CreatedMsg struct{}

// Review summarises the experiment and, in enhanced mode, shows a heuristic
// design review after a short delay.
type Review struct {
	deps Deps

	state     experiment.State
	seq       int
	reviewing bool
	result    *experiment.Review
	created   bool
}

// NewReview creates the review step.
func NewReview(d Deps) *Review {
	return &Review{deps: d}
}

// Enter snapshots the state and starts the design review.
func (r *Review) Enter(s experiment.State) tea.Cmd {
	r.state = s
	r.result = nil
	r.created = false
	r.seq++
	if r.deps.Simple {
		r.reviewing = false
		return nil
	}
	r.reviewing = true
	seq := r.seq
	return tea.Tick(r.deps.ReviewDelay, func(time.Time) tea.Msg {
		return reviewDoneMsg{seq: seq}
	})
}

// HandleKey leaves enter and esc to the program.
func (r *Review) HandleKey(tea.KeyMsg) (Action, tea.Cmd) {
	return ActionPass, nil
}

// Update finishes the design review.
func (r *Review) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case reviewDoneMsg:
		if msg.seq != r.seq || !r.reviewing {
			return nil
		}
		res := experiment.ReviewDesign(r.state)
		r.result = &res
		r.reviewing = false
	case CreatedMsg:
		r.created = true
	}
	return nil
}

// Result returns the finished design review, if any.
func (r *Review) Result() (experiment.Review, bool) {
	if r.result == nil {
		return experiment.Review{}, false
	}
	return *r.result, true
}

// Submit owns no fields.
func (r *Review) Submit() (experiment.Partial, error) {
	return experiment.Partial{}, nil
}

// Render returns the summary and review.
func (r *Review) Render(width int) []string {
	st := r.deps.Styles
	s := r.state
	row := func(k, v string) string {
		if strings.TrimSpace(v) == "" {
			v = st.Muted.Render(notSet)
		}
		return fmt.Sprintf("  %-22s %s", k+":", v)
	}

	lines := []string{st.Title.Render("Basic information")}
	lines = append(lines,
		row("Name", s.Title),
		row("Description", s.Description),
		row("Domain", s.Domain.Label()),
		row("Focus", s.Focus),
	)
	if !r.deps.Simple {
		lines = append(lines, row("Experiment type", s.ExperimentType.Label()))
	}

	lines = append(lines, "", st.Title.Render("Design"))
	size := ""
	if s.HasSampleSize() {
		size = fmt.Sprintf("%d participants", s.SampleSize)
	}
	lines = append(lines, row("Sample size", size))
	if pc := s.PowerCalculation; pc != nil {
		lines = append(lines, row("Power calculation", fmt.Sprintf("MDE %g, power %g, alpha %g", pc.MDE, pc.Power, pc.Alpha)))
	}
	method := ""
	if s.RandomizationMethod != experiment.MethodUnset {
		method = s.RandomizationMethod.Label()
	}
	lines = append(lines, row("Randomization", method))
	lines = append(lines, row("Treatment groups", strings.Join(s.TreatmentGroups, ", ")))
	ratio := string(s.AssignmentRatio)
	if s.AssignmentRatio == experiment.RatioCustom {
		ratio = "custom " + s.CustomRatioValue
	}
	lines = append(lines, row("Assignment ratio", ratio))

	lines = append(lines, "", st.Title.Render("Variables"))
	if len(s.Variables) == 0 {
		lines = append(lines, "  "+st.Muted.Render(notSet))
	}
	for _, v := range s.Variables {
		if r.deps.Simple {
			lines = append(lines, fmt.Sprintf("  • %s (%s)", v.Name, v.DataType))
			continue
		}
		lines = append(lines, fmt.Sprintf("  • %s [%s, %s]", v.Name, v.Type, v.DataType))
	}

	if !r.deps.Simple {
		lines = append(lines, "", st.Title.Render("✨ AI design review"))
		switch {
		case r.reviewing:
			lines = append(lines, st.Muted.Render("  Analyzing your experiment design..."))
		case r.result != nil:
			lines = append(lines, r.renderResult()...)
		}
	}

	lines = append(lines, "")
	if r.created {
		lines = append(lines, st.Success.Render("  ✓ Experiment created. Press ctrl+c to exit."))
	} else {
		lines = append(lines, st.Muted.Render("  enter: create experiment  esc: back"))
	}
	return lines
}

func (r *Review) renderResult() []string {
	st := r.deps.Styles
	res := r.result
	scoreStyle := st.Success
	switch {
	case res.Score < 60:
		scoreStyle = st.Error
	case res.Score < 80:
		scoreStyle = st.Accent
	}
	lines := []string{"  Design quality score: " + scoreStyle.Render(fmt.Sprintf("%d/100", res.Score))}
	for _, f := range res.Findings {
		lines = append(lines, st.Error.Render("  ! "+f))
	}
	lines = append(lines, st.Label.Render("  Tips"))
	for _, tip := range res.Suggestions {
		lines = append(lines, "  - "+tip)
	}
	return lines
}
