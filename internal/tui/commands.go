package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui/steps"
)

// requester runs suggestion requests off the update loop. Each request is
// tagged with a tracker generation so the program can drop stale replies.
type requester struct {
	ctx     context.Context
	client  *suggest.Client
	tracker *suggest.Tracker
}

func newRequester(ctx context.Context, client *suggest.Client) *requester {
	if client == nil {
		client = suggest.NewClient(nil)
	}
	return &requester{ctx: ctx, client: client, tracker: suggest.NewTracker()}
}

// Request starts req, cancelling the previous request of the same kind.
func (r *requester) Request(req suggest.Request) tea.Cmd {
	ctx, gen := r.tracker.Begin(r.ctx, req.Kind)
	return func() tea.Msg {
		return steps.SuggestionMsg{
			Kind:       req.Kind,
			Gen:        gen,
			Suggestion: r.client.Request(ctx, req),
		}
	}
}

// accept reports whether msg answers the latest request of its kind and
// releases that request.
func (r *requester) accept(msg steps.SuggestionMsg) bool {
	if !r.tracker.Current(msg.Kind, msg.Gen) {
		return false
	}
	r.tracker.Finish(msg.Kind, msg.Gen)
	return true
}

func (r *requester) cancelAll() {
	r.tracker.CancelAll()
}
