package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/components"
	"github.com/interpretive-systems/expwiz/internal/tui/steps"
	"github.com/interpretive-systems/expwiz/internal/wizard"
)

// Options configure a wizard session.
type Options struct {
	Client      *suggest.Client
	Logger      *zap.Logger
	Simple      bool
	Theme       string
	ReviewDelay time.Duration
	// Initial seeds the experiment record. The zero value means a new one.
	Initial *experiment.State
}

// Program is the main Bubble Tea model.
type Program struct {
	state       *State
	layout      *Layout
	keyHandler  *KeyHandler
	requester   *requester
	log         *zap.Logger
	unsubscribe func()
}

// New creates a wizard session. ctx bounds every suggestion request.
func New(ctx context.Context, opts Options) Program {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	initial := experiment.NewState()
	if opts.Initial != nil {
		initial = *opts.Initial
	}
	theme := GetTheme(opts.Theme)
	st := &State{
		Store:      experiment.NewStore(initial),
		Controller: wizard.NewController(),
		Simple:     opts.Simple,
		StatusBar:  components.NewStatusBar(),
		Theme:      theme,
		Styles:     theme.Styles(),
	}
	req := newRequester(ctx, opts.Client)
	st.Steps = steps.New(steps.Deps{
		Requester:   req,
		Store:       st.Store,
		Simple:      opts.Simple,
		ReviewDelay: opts.ReviewDelay,
		Styles:      st.Styles,
	})

	statusBar := st.StatusBar
	statusBar.SetSummary(summary(initial))
	// Randomization advice depends on the sample size.
	lastSize := initial.SampleSize
	unsubscribe := st.Store.Subscribe(func(s experiment.State) {
		statusBar.SetSummary(summary(s))
		if s.SampleSize != lastSize {
			lastSize = s.SampleSize
			req.tracker.Invalidate(suggest.KindRandomization)
		}
	})

	m := Program{
		state:       st,
		layout:      NewLayout(),
		keyHandler:  NewKeyHandler(),
		requester:   req,
		log:         log,
		unsubscribe: unsubscribe,
	}
	m.refreshHints()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	m.shutdown()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Store exposes the experiment record, mainly for callers that print the
// result after Run returns.
func (m Program) Store() *experiment.Store {
	return m.state.Store
}

// Init implements tea.Model.
func (m Program) Init() tea.Cmd {
	return m.enterCurrent()
}

// Update implements tea.Model.
func (m Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.layout.SetSize(msg.Width, msg.Height)
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case steps.SuggestionMsg:
		if !m.requester.accept(msg) {
			m.log.Debug("dropping stale suggestion",
				zap.String("kind", string(msg.Kind)), zap.Uint64("gen", msg.Gen))
			return m, nil
		}
		return m, m.broadcast(msg)
	}
	return m, m.broadcast(msg)
}

// broadcast hands msg to every step; each one ignores what it did not ask for.
func (m Program) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range m.state.Steps {
		if cmd := s.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyHandler.Intercept(msg) {
	case ActionQuit:
		m.shutdown()
		return m, tea.Quit
	case ActionPageUp:
		m.state.Scroll -= m.layout.ContentHeight()
		m.clampScroll()
		return m, nil
	case ActionPageDown:
		m.state.Scroll += m.layout.ContentHeight()
		m.clampScroll()
		return m, nil
	}

	action, cmd := m.state.ActiveStep().HandleKey(msg)
	if action == steps.ActionContinue {
		return m, cmd
	}

	switch m.keyHandler.Handle(msg) {
	case ActionBack:
		return m.back()
	case ActionSubmit:
		return m.submit()
	}
	return m, cmd
}

func (m Program) back() (tea.Model, tea.Cmd) {
	ctrl := m.state.Controller
	if ctrl.IsFirst() {
		return m, nil
	}
	ctrl.Back()
	m.state.StatusBar.ClearMessage()
	return m, m.enterCurrent()
}

func (m Program) submit() (tea.Model, tea.Cmd) {
	st := m.state
	ctrl := st.Controller
	if ctrl.IsLast() {
		if !ctrl.Create() {
			return m, nil
		}
		exp := st.Store.Get()
		m.log.Info("experiment created",
			zap.String("title", exp.Title),
			zap.String("type", string(exp.ExperimentType)),
			zap.Int("sample_size", exp.SampleSize),
			zap.Int("variables", len(exp.Variables)))
		st.StatusBar.SetMessage("Experiment created")
		return m, st.ActiveStep().Update(steps.CreatedMsg{})
	}

	p, err := st.ActiveStep().Submit()
	if err != nil {
		m.log.Debug("step rejected input", zap.String("step", ctrl.Current().ID()), zap.Error(err))
		st.StatusBar.SetError("Please fix the highlighted fields")
		return m, nil
	}
	st.Store.Update(p)
	ctrl.Next()
	st.StatusBar.ClearMessage()
	return m, m.enterCurrent()
}

// enterCurrent loads the active step from the store.
func (m Program) enterCurrent() tea.Cmd {
	m.state.Scroll = 0
	m.refreshHints()
	m.log.Debug("entering step", zap.String("step", m.state.Controller.Current().ID()))
	return m.state.ActiveStep().Enter(m.state.Store.Get())
}

func (m Program) refreshHints() {
	ctrl := m.state.Controller
	m.state.StatusBar.SetHints(m.keyHandler.Hints(ctrl.IsFirst(), ctrl.IsLast()))
}

func (m Program) shutdown() {
	m.requester.cancelAll()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Program) bodyLines() []string {
	return m.state.ActiveStep().Render(m.layout.Width())
}

func (m Program) clampScroll() {
	maxScroll := len(m.bodyLines()) - m.layout.ContentHeight()
	if m.state.Scroll > maxScroll {
		m.state.Scroll = maxScroll
	}
	if m.state.Scroll < 0 {
		m.state.Scroll = 0
	}
}

// View implements tea.Model.
func (m Program) View() string {
	if !m.layout.Ready() {
		return "Loading..."
	}
	st := m.state
	current := st.Controller.Current()

	title := lipgloss.NewStyle().Bold(true).Render("expwiz")
	topLeft := title + " · " + current.Name()
	mode := "enhanced"
	if st.Simple {
		mode = "simple"
	}
	topRight := lipgloss.NewStyle().Faint(true).Render(mode)

	indicator := components.StepIndicator(st.Styles, StepNames(), int(current), m.layout.Width())

	body := m.bodyLines()
	if st.Scroll > 0 && st.Scroll < len(body) {
		body = body[st.Scroll:]
	}
	if h := m.layout.ContentHeight(); len(body) > h {
		body = append(body[:h-1:h-1], st.Styles.Muted.Render("  "+moreBelow(len(body)-h+1)))
	}

	return m.layout.RenderFrame(topLeft, topRight, indicator, body, st.StatusBar.Render(m.layout.Width()), st.Theme)
}

func moreBelow(n int) string {
	if n == 1 {
		return "… 1 more line (pgdown)"
	}
	return fmt.Sprintf("… %d more lines (pgdown)", n)
}
