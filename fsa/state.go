// Package fsa implements the boolean-acceptor byte-FSA contract that the
// pattern compiler is built on: construction primitives, the union/concat/
// closure/intersect combinators, and the remove-epsilon/determinize/
// minimize normalizers (§4.2.1). States live in a flat arena addressed by
// StateID, never behind pointers, so an Automaton is trivially copyable
// and trivially freed — there is no state graph to walk to tear one down.
package fsa

import "fmt"

// StateID identifies a state within one Automaton's arena.
type StateID uint32

// InvalidState marks an absent target (e.g. an unpatched forward
// reference, or "no transition" before a DFA is built).
const InvalidState StateID = 0xFFFFFFFF

// Kind discriminates the handful of state shapes an Automaton ever holds.
// Unlike a general-purpose regex NFA, a boolean acceptor needs nothing
// beyond these five: this is the tropical/boolean specialization the
// design notes call for, with the weighted-semiring machinery dropped.
type Kind uint8

const (
	// KindMatch is an accepting state with no outgoing transitions of its
	// own (acceptance is tested independently of this kind for DFA states,
	// but NFA fragments built by the primitives still use it as a sentinel
	// accept node).
	KindMatch Kind = iota
	// KindByteRange consumes one byte in [Lo, Hi] and moves to Next.
	KindByteRange
	// KindSplit is a single epsilon fan-out to Left and Right (used for
	// union and for the loop-back edge of closures).
	KindSplit
	// KindEpsilon is a single epsilon transition to Next.
	KindEpsilon
	// KindFail is a state with no transitions at all; Empty() is built
	// from one of these.
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "Match"
	case KindByteRange:
		return "ByteRange"
	case KindSplit:
		return "Split"
	case KindEpsilon:
		return "Epsilon"
	case KindFail:
		return "Fail"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// State is one arena entry. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type State struct {
	Kind        Kind
	Lo, Hi      byte
	Next        StateID
	Left, Right StateID
}

// Automaton is an epsilon-NFA fragment, the input to Determinize.
// Determinize and Minimize produce a DFA instead (see dfa.go): a dense
// transition table plus an Accept bitset. Combinators in build.go
// operate on the NFA form; DFA is a distinct type so a caller can never
// accidentally feed a non-deterministic fragment to Intersect.
type Automaton struct {
	States []State
	Start  StateID
	Accept StateID // the single accept state every fragment reduces to
}

func newAutomaton() *Automaton {
	return &Automaton{States: make([]State, 0, 8)}
}

func (a *Automaton) add(s State) StateID {
	id := StateID(len(a.States))
	a.States = append(a.States, s)
	return id
}

func (a *Automaton) addMatch() StateID {
	return a.add(State{Kind: KindMatch})
}

func (a *Automaton) addByteRange(lo, hi byte, next StateID) StateID {
	return a.add(State{Kind: KindByteRange, Lo: lo, Hi: hi, Next: next})
}

func (a *Automaton) addSplit(left, right StateID) StateID {
	return a.add(State{Kind: KindSplit, Left: left, Right: right})
}

func (a *Automaton) addEpsilon(next StateID) StateID {
	return a.add(State{Kind: KindEpsilon, Next: next})
}

func (a *Automaton) addFail() StateID {
	return a.add(State{Kind: KindFail})
}

// mergeFrom appends a copy of b's arena onto a and returns the offset to
// add to any of b's original StateIDs to find their new home in a.
func (a *Automaton) mergeFrom(b *Automaton) StateID {
	offset := StateID(len(a.States))
	for _, s := range b.States {
		shifted := s
		switch s.Kind {
		case KindByteRange, KindEpsilon:
			if s.Next != InvalidState {
				shifted.Next = s.Next + offset
			}
		case KindSplit:
			if s.Left != InvalidState {
				shifted.Left = s.Left + offset
			}
			if s.Right != InvalidState {
				shifted.Right = s.Right + offset
			}
		}
		a.States = append(a.States, shifted)
	}
	return offset
}

// clone returns a deep, self-contained copy of a.
func (a *Automaton) clone() *Automaton {
	out := &Automaton{States: make([]State, len(a.States)), Start: a.Start, Accept: a.Accept}
	copy(out.States, a.States)
	return out
}

func (a *Automaton) patchSplitRight(id, target StateID) {
	a.States[id].Right = target
}

// retarget rewires every Next/Left/Right pointer that points at oldAccept
// so it points at newTarget instead. Thompson construction builds
// fragments with exactly one loose end (the old accept state, which is a
// KindMatch state with nothing pointing past it); retarget replaces that
// state's role by redirecting anything that pointed at it. It does not
// touch a.Start, so a caller whose fragment starts at oldAccept moves the
// start itself.
func (a *Automaton) retarget(oldAccept, newTarget StateID) {
	for i := range a.States {
		s := &a.States[i]
		switch s.Kind {
		case KindByteRange, KindEpsilon:
			if s.Next == oldAccept {
				s.Next = newTarget
			}
		case KindSplit:
			if s.Left == oldAccept {
				s.Left = newTarget
			}
			if s.Right == oldAccept {
				s.Right = newTarget
			}
		}
	}
}

// NumStates reports the arena size, used for the §4.2.5 time/size
// diagnostics.
func (a *Automaton) NumStates() int { return len(a.States) }
