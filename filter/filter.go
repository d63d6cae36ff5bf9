// Package filter freezes a minimized fsa.DFA into the dense,
// allocation-free stepping contract the search driver needs (§4.2.3): a
// start state, an acceptance test, and an O(1) byte step. It owns no
// reference back to the fsa package's builder types — once built, a
// Filter is just two flat slices.
package filter

import "github.com/nutrimatic-go/nutrimatic/fsa"

// State indexes into a Filter's transition table.
type State uint32

// Filter is a dense (state, byte) -> state table, one row per state.
type Filter struct {
	trans   [][256]State
	accept  []bool
	start   State
	noState State
}

// New adapts d (already minimized) into a Filter. Per §4.2.3, d is first
// concatenated with a trailing mandatory space so every match ends on a
// word boundary; if the result minimizes to zero states, a one-state
// reject-all filter is synthesized instead of panicking on an empty table.
func New(d *fsa.DFA) *Filter {
	withSpace := fsa.Optimize(intersectSpaceSuffix(d))
	return fromDFA(withSpace)
}

// FromAutomatonNoSuffix adapts d directly with no trailing space
// appended, for callers that handle word-boundary spacing themselves.
func FromAutomatonNoSuffix(d *fsa.DFA) *Filter {
	return fromDFA(fsa.Minimize(d))
}

func fromDFA(d *fsa.DFA) *Filter {
	n := d.NumStates()
	if n == 0 {
		return rejectAll()
	}
	f := &Filter{
		trans:   make([][256]State, n),
		accept:  make([]bool, n),
		start:   State(d.Start),
		noState: State(n), // one past the end: reserved "no transition" sentinel
	}
	for s := 0; s < n; s++ {
		f.accept[s] = d.Accept[s]
		for b := 0; b < 256; b++ {
			t, ok := d.Step(fsa.StateID(s), byte(b))
			if !ok {
				f.trans[s][b] = f.noState
				continue
			}
			if int(t) >= n {
				// Validate: every target must be in-range (§4.2.3).
				panic("filter: out-of-range target state from DFA")
			}
			f.trans[s][b] = State(t)
		}
	}
	return f
}

func rejectAll() *Filter {
	f := &Filter{
		trans:   make([][256]State, 1),
		accept:  make([]bool, 1),
		start:   0,
		noState: 1,
	}
	for b := 0; b < 256; b++ {
		f.trans[0][b] = f.noState
	}
	return f
}

// Start returns the filter's initial state.
func (f *Filter) Start() State { return f.start }

// IsAccepting reports whether s is an accepting state.
func (f *Filter) IsAccepting(s State) bool {
	if int(s) >= len(f.accept) {
		return false
	}
	return f.accept[s]
}

// Step returns the state reached from s on byte b, or (0, false) if b is
// not a valid arc byte (must lie in 1..=255 — a NUL byte never appears in
// the corpus alphabet and is reserved, §3) or there is no such transition.
func (f *Filter) Step(s State, b byte) (State, bool) {
	if b == 0 {
		return 0, false
	}
	if int(s) >= len(f.trans) {
		return 0, false
	}
	next := f.trans[s][b]
	if next == f.noState {
		return 0, false
	}
	return next, true
}

// NumStates reports the number of live states in the filter.
func (f *Filter) NumStates() int { return len(f.trans) }

func intersectSpaceSuffix(d *fsa.DFA) *fsa.Automaton {
	// d is already an fsa.DFA; lift it back to NFA-shaped concatenation by
	// way of a trivial byte-range automaton for the mandatory trailing
	// space and re-determinizing. DFAs and Automatons share the same
	// epsilon/byte-range/split vocabulary, so a DFA can be embedded as an
	// Automaton whose states are all KindByteRange/KindMatch with no
	// epsilon fan-out.
	return fsa.Concat(liftDFA(d), fsa.SingleByte(' '))
}

// liftDFA re-expresses a deterministic automaton as a generic fsa.Automaton
// fragment so it can be fed back through Concat/Union — every DFA is
// already a valid (degenerate) NFA fragment, since a deterministic
// transition is a single-target byte-range edge.
func liftDFA(d *fsa.DFA) *fsa.Automaton {
	return fsa.FromDFA(d)
}
