package suggest

import (
	"context"
	"sync"
)

// Tracker hands out a generation number per kind so that only the reply to
// the most recent request of a kind is applied. Beginning a request cancels
// the one it supersedes.
type Tracker struct {
	mu      sync.Mutex
	gen     map[Kind]uint64
	cancels map[Kind]context.CancelFunc
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		gen:     make(map[Kind]uint64),
		cancels: make(map[Kind]context.CancelFunc),
	}
}

// Begin starts a request of kind k and returns its context and generation.
func (t *Tracker) Begin(parent context.Context, k Kind) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev := t.cancels[k]; prev != nil {
		prev()
	}
	t.gen[k]++
	t.cancels[k] = cancel
	return ctx, t.gen[k]
}

// Current reports whether gen is the latest generation of kind k.
func (t *Tracker) Current(k Kind, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen[k] == gen
}

// Finish releases the context of gen if it is still the latest request.
func (t *Tracker) Finish(k Kind, gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[k] != gen {
		return
	}
	if cancel := t.cancels[k]; cancel != nil {
		cancel()
		delete(t.cancels, k)
	}
}

// Invalidate makes any in-flight reply of kind k stale.
func (t *Tracker) Invalidate(k Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cancel := t.cancels[k]; cancel != nil {
		cancel()
		delete(t.cancels, k)
	}
	t.gen[k]++
}

// CancelAll cancels every in-flight request and makes its reply stale.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, cancel := range t.cancels {
		cancel()
		delete(t.cancels, k)
		t.gen[k]++
	}
}
