package fsa

import (
	"sort"

	"github.com/nutrimatic-go/nutrimatic/internal/sparse"
)

// DFA is a byte-deterministic acceptor: for every state and every byte,
// at most one transition exists. It is the form Determinize/Minimize
// produce and the only form Intersect/Equivalent/the filter adapter
// accept — mixing it up with the NFA-shaped Automaton is a compile-time
// type error by construction.
type DFA struct {
	// Trans[state][byte] is the next state, or InvalidState if none.
	Trans  [][256]StateID
	Accept []bool
	Start  StateID
}

// NumStates reports the number of states.
func (d *DFA) NumStates() int { return len(d.Trans) }

// IsAccepting reports whether s is an accepting state.
func (d *DFA) IsAccepting(s StateID) bool {
	if int(s) >= len(d.Accept) {
		return false
	}
	return d.Accept[s]
}

// Step returns the state reached from s on byte b, or (InvalidState,
// false) if there is none.
func (d *DFA) Step(s StateID, b byte) (StateID, bool) {
	if int(s) >= len(d.Trans) {
		return InvalidState, false
	}
	next := d.Trans[s][b]
	return next, next != InvalidState
}

func newRow() [256]StateID {
	var row [256]StateID
	for b := range row {
		row[b] = InvalidState
	}
	return row
}

// epsilonClosure extends a set of NFA states with every state reachable
// via zero or more epsilon/split transitions, returned sorted and
// de-duplicated so it can serve as a stable subset-construction key.
func epsilonClosure(a *Automaton, seed []StateID) []StateID {
	seen := sparse.NewSparseSet(uint32(len(a.States)))
	var stack, out []StateID
	for _, id := range seed {
		if !seen.Contains(uint32(id)) {
			seen.Insert(uint32(id))
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		s := a.States[id]
		switch s.Kind {
		case KindEpsilon:
			if !seen.Contains(uint32(s.Next)) {
				seen.Insert(uint32(s.Next))
				stack = append(stack, s.Next)
			}
		case KindSplit:
			if s.Left != InvalidState && !seen.Contains(uint32(s.Left)) {
				seen.Insert(uint32(s.Left))
				stack = append(stack, s.Left)
			}
			if s.Right != InvalidState && !seen.Contains(uint32(s.Right)) {
				seen.Insert(uint32(s.Right))
				stack = append(stack, s.Right)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func subsetKey(ids []StateID) string {
	b := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		b = append(b, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return string(b)
}

func subsetHasMatch(a *Automaton, ids []StateID) bool {
	for _, id := range ids {
		if a.States[id].Kind == KindMatch {
			return true
		}
	}
	return false
}

// byteBoundaries returns the sorted set of byte values that end a
// maximal run of bytes every KindByteRange transition treats identically
// — the same boundary technique as the teacher package's ByteClassSet
// (nfa/alphabet.go), generalized from "class index per byte" to
// "explicit run list" since the automata here are small enough to keep
// per-byte dense tables directly instead of a class-indirection layer.
func byteBoundaries(a *Automaton) []byte {
	var marks [256]bool
	for _, s := range a.States {
		if s.Kind == KindByteRange {
			if s.Lo > 0 {
				marks[s.Lo-1] = true
			}
			marks[s.Hi] = true
		}
	}
	marks[255] = true
	bounds := make([]byte, 0, 256)
	for i := 0; i < 256; i++ {
		if marks[i] {
			bounds = append(bounds, byte(i))
		}
	}
	return bounds
}

// FromDFA re-expresses d as a generic (degenerate, already-deterministic)
// Automaton fragment, so a previously built DFA can be fed back through
// Concat/Union — e.g. the filter adapter appending a mandatory trailing
// space (§4.2.3) onto an already-compiled pattern automaton. Every
// accepting state becomes an epsilon edge into one shared KindMatch
// accept state, matching the single-accept-state convention every other
// primitive in this package maintains.
func FromDFA(d *DFA) *Automaton {
	a := newAutomaton()
	n := d.NumStates()
	if n == 0 {
		return Empty()
	}
	ids := make([]StateID, n)
	for s := 0; s < n; s++ {
		ids[s] = a.addFail() // placeholder, overwritten below
	}
	accept := a.addMatch()
	for s := 0; s < n; s++ {
		// Represent each DFA state's 256-wide row as a run-length union of
		// byte-range edges into a split chain, since a single KindByteRange
		// state can only carry one outgoing edge.
		var row [256]StateID
		for b := 0; b < 256; b++ {
			row[b] = InvalidState
			if t, ok := d.Step(StateID(s), byte(b)); ok {
				row[b] = ids[t]
			}
		}
		var chain StateID = InvalidState
		lo := -1
		for b := 0; b <= 256; b++ {
			sameRun := lo >= 0 && b < 256 && row[b] == row[lo]
			if lo >= 0 && !sameRun {
				edge := a.addByteRange(byte(lo), byte(b-1), row[lo])
				chain = a.addSplit(edge, chain)
				lo = -1
			}
			if b < 256 && row[b] != InvalidState && lo < 0 {
				lo = b
			}
		}
		if chain == InvalidState {
			chain = a.addFail()
		}
		a.States[ids[s]] = State{Kind: KindEpsilon, Next: chain}
		if d.Accept[s] {
			acceptEdge := a.addEpsilon(accept)
			a.States[ids[s]] = State{Kind: KindSplit, Left: chain, Right: acceptEdge}
		}
	}
	a.Start = ids[d.Start]
	a.Accept = accept
	return a
}

// Determinize performs subset construction (§4.2.1 "determinize"),
// collapsing epsilon transitions on the fly (§4.2.1 "remove_epsilon") —
// the teacher package keeps these as separate NFA passes feeding an
// on-demand (lazy) determinization in dfa/lazy/state.go; here both
// happen together in one eager pass since Σ is small enough that the
// whole DFA always fits in memory, matching the non-lazy contract
// §4.2.1 asks for.
func Determinize(a *Automaton) *DFA {
	bounds := byteBoundaries(a)

	index := map[string]StateID{}
	var subsets [][]StateID

	register := func(ids []StateID) StateID {
		key := subsetKey(ids)
		if id, ok := index[key]; ok {
			return id
		}
		id := StateID(len(subsets))
		index[key] = id
		subsets = append(subsets, ids)
		return id
	}

	start := register(epsilonClosure(a, []StateID{a.Start}))

	d := &DFA{Start: start}
	for pos := 0; pos < len(subsets); pos++ {
		ids := subsets[pos]
		d.Trans = append(d.Trans, newRow())
		d.Accept = append(d.Accept, subsetHasMatch(a, ids))

		lo := byte(0)
		for _, hi := range bounds {
			var targets []StateID
			seen := sparse.NewSparseSet(uint32(len(a.States)))
			for _, id := range ids {
				s := a.States[id]
				if s.Kind == KindByteRange && s.Lo <= lo && hi <= s.Hi {
					if !seen.Contains(uint32(s.Next)) {
						seen.Insert(uint32(s.Next))
						targets = append(targets, s.Next)
					}
				}
			}
			if len(targets) > 0 {
				next := register(epsilonClosure(a, targets))
				row := &d.Trans[pos]
				for b := int(lo); b <= int(hi); b++ {
					row[b] = next
				}
			}
			if hi == 255 {
				break
			}
			lo = hi + 1
		}
	}

	return d
}
