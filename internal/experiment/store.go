package experiment

import (
	"slices"
	"sync"
)

// Partial is a shallow update of State. Nil fields are left untouched;
// non-nil fields replace the top-level value wholesale.
type Partial struct {
	Title               *string
	Description         *string
	Domain              *Domain
	Focus               *string
	ExperimentType      *ExperimentType
	RandomizationMethod *RandomizationMethod
	TreatmentGroups     *[]string
	AssignmentRatio     *AssignmentRatio
	CustomRatioValue    *string
	SampleSize          *int
	PowerCalculation    *PowerCalculation
	Variables           *[]Variable
}

// Ptr returns a pointer to v, for building a Partial.
func Ptr[T any](v T) *T { return &v }

// IsEmpty reports whether the partial would leave the state unchanged.
func (p Partial) IsEmpty() bool {
	return p == Partial{}
}

// Apply merges p into s and returns the result. s is not modified.
func (p Partial) Apply(s State) State {
	out := s.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Domain != nil {
		out.Domain = *p.Domain
	}
	if p.Focus != nil {
		out.Focus = *p.Focus
	}
	if p.ExperimentType != nil {
		out.ExperimentType = *p.ExperimentType
	}
	if p.RandomizationMethod != nil {
		out.RandomizationMethod = *p.RandomizationMethod
	}
	if p.TreatmentGroups != nil {
		out.TreatmentGroups = slices.Clone(*p.TreatmentGroups)
	}
	if p.AssignmentRatio != nil {
		out.AssignmentRatio = *p.AssignmentRatio
	}
	if p.CustomRatioValue != nil {
		out.CustomRatioValue = *p.CustomRatioValue
	}
	if p.SampleSize != nil {
		out.SampleSize = *p.SampleSize
	}
	if p.PowerCalculation != nil {
		pc := *p.PowerCalculation
		out.PowerCalculation = &pc
	}
	if p.Variables != nil {
		out.Variables = slices.Clone(*p.Variables)
	}
	return out
}

// Store owns the experiment record of one wizard session.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore creates a store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{
		state: initial.clone(),
		subs:  make(map[int]func(State)),
	}
}

// Get returns a copy of the current record.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Update shallow-merges p into the record and notifies subscribers
// synchronously before returning.
func (s *Store) Update(p Partial) {
	s.mu.Lock()
	s.state = p.Apply(s.state)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, id := range s.subscriberIDs() {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers fn to receive every update. The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// subscriberIDs returns ids in registration order. Caller holds mu.
func (s *Store) subscriberIDs() []int {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
