package view

import "sync"

// RegionState is what a response region currently shows.
type RegionState struct {
	Loading bool   `json:"loading"`
	Text    string `json:"text"`
}

// Region is a response region (queryResponseAI, queryResponse). Every Begin
// hands out a token; Finish with that token replaces the loading state.
//
// By default the last call to Finish wins regardless of which Begin it
// belongs to. With latestOnly set, a Finish whose token is older than the
// newest Begin is dropped.
type Region struct {
	id         string
	latestOnly bool

	mu        sync.Mutex
	state     RegionState
	seq       uint64
	observers []func(RegionState)
}

// NewRegion creates an empty region.
func NewRegion(id string, latestOnly bool) *Region {
	return &Region{id: id, latestOnly: latestOnly}
}

// ID returns the element id of the region.
func (r *Region) ID() string {
	return r.id
}

// Observe registers fn to be called with every new state.
func (r *Region) Observe(fn func(RegionState)) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Begin switches the region to its loading state and returns the request token.
func (r *Region) Begin() uint64 {
	r.mu.Lock()
	r.seq++
	token := r.seq
	r.state = RegionState{Loading: true, Text: LoadingMessage}
	st, obs := r.state, r.snapshotObservers()
	r.mu.Unlock()
	notify(obs, st)
	return token
}

// Finish replaces the loading state with text. It reports whether the text
// was applied.
func (r *Region) Finish(token uint64, text string) bool {
	r.mu.Lock()
	if r.latestOnly && token != r.seq {
		r.mu.Unlock()
		return false
	}
	r.state = RegionState{Text: text}
	st, obs := r.state, r.snapshotObservers()
	r.mu.Unlock()
	notify(obs, st)
	return true
}

// State returns the current state.
func (r *Region) State() RegionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Loading reports whether the spinner is showing.
func (r *Region) Loading() bool {
	return r.State().Loading
}

func (r *Region) snapshotObservers() []func(RegionState) {
	return append([]func(RegionState){}, r.observers...)
}

func notify(observers []func(RegionState), st RegionState) {
	for _, fn := range observers {
		fn(st)
	}
}
