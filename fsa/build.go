package fsa

// This file implements the §4.2.1 primitives and combinators as Thompson
// construction over epsilon-NFA fragments, the same technique the teacher
// package's nfa.Builder uses to lower regexp/syntax into byte automata
// (AddSplit/AddEpsilon/Patch), generalized here to a pure boolean acceptor
// with no captures, no anchors, and no UTF-8 awareness — Σ is bytes only.
//
// Every combinator below normalizes its result to a single canonical
// accept state (by retargeting the operand's own accept state), so
// fragments compose without accumulating dead Match states beyond one
// per merge.

// Empty returns a fragment that accepts no strings at all.
func Empty() *Automaton {
	a := newAutomaton()
	start := a.addFail()
	accept := a.addMatch() // unreachable from start; never visited
	a.Start, a.Accept = start, accept
	return a
}

// EpsilonAutomaton returns a fragment that accepts only the empty string.
func EpsilonAutomaton() *Automaton {
	a := newAutomaton()
	id := a.addMatch()
	a.Start, a.Accept = id, id
	return a
}

// SingleByte returns a fragment that accepts exactly the one-byte string
// consisting of b.
func SingleByte(b byte) *Automaton {
	return ByteRange(b, b)
}

// ByteRange returns a fragment that accepts exactly one byte in [lo, hi].
func ByteRange(lo, hi byte) *Automaton {
	a := newAutomaton()
	accept := a.addMatch()
	start := a.addByteRange(lo, hi, accept)
	a.Start, a.Accept = start, accept
	return a
}

// ByteSet returns a fragment that accepts exactly one byte from any of the
// given (inclusive) ranges. Used for character classes like `.`, `_`, `A`.
func ByteSet(ranges [][2]byte) *Automaton {
	if len(ranges) == 0 {
		return Empty()
	}
	out := ByteRange(ranges[0][0], ranges[0][1])
	for _, r := range ranges[1:] {
		out = Union(out, ByteRange(r[0], r[1]))
	}
	return out
}

// Union returns a fragment accepting the language of a or the language of
// b (destructive: a and b are consumed and must not be reused).
func Union(a, b *Automaton) *Automaton {
	offset := a.mergeFrom(b)
	bStart := b.Start + offset
	bAccept := b.Accept + offset
	newStart := a.addSplit(a.Start, bStart)
	a.retarget(bAccept, a.Accept)
	a.Start = newStart
	return a
}

// Concat returns a fragment accepting the language of a followed by the
// language of b (destructive).
func Concat(a, b *Automaton) *Automaton {
	offset := a.mergeFrom(b)
	bStart := b.Start + offset
	bAccept := b.Accept + offset
	if a.Start == a.Accept {
		a.Start = bStart
	}
	a.retarget(a.Accept, bStart)
	a.Accept = bAccept
	return a
}

// ClosureStar returns a fragment accepting zero or more repetitions of a's
// language (Kleene star, destructive).
func ClosureStar(a *Automaton) *Automaton {
	loop := a.addSplit(a.Start, InvalidState)
	accept := a.addMatch()
	a.patchSplitRight(loop, accept)
	a.retarget(a.Accept, loop)
	a.Start, a.Accept = loop, accept
	return a
}

// ClosurePlus returns a fragment accepting one or more repetitions of a's
// language (destructive): a+ = a · a*.
func ClosurePlus(a *Automaton) *Automaton {
	tail := ClosureStar(a.clone())
	return Concat(a, tail)
}

// Optional returns a fragment accepting a's language or the empty string
// (the `?` quantifier, destructive).
func Optional(a *Automaton) *Automaton {
	return Union(a, EpsilonAutomaton())
}

// Repeat returns a fragment accepting between m and n (inclusive)
// repetitions of a's language. n may be -1 to mean unbounded ("{m,}").
// Required by §4.2.2's bounded-repetition quantifier, 0 ≤ m ≤ n ≤ 255.
func Repeat(a *Automaton, m, n int) *Automaton {
	if n >= 0 && m > n {
		return Empty()
	}
	if m == 0 && n < 0 {
		return ClosureStar(a)
	}
	if m == 1 && n < 0 {
		return ClosurePlus(a)
	}

	var out *Automaton
	remaining := a
	for i := 0; i < m; i++ {
		piece := remaining
		remaining = remaining.clone()
		if out == nil {
			out = piece
		} else {
			out = Concat(out, piece)
		}
	}
	if n < 0 {
		// m required copies followed by zero or more additional ones.
		return Concat(out, ClosureStar(remaining))
	}
	for i := m; i < n; i++ {
		piece := remaining
		if i+1 < n {
			remaining = remaining.clone()
		}
		opt := Optional(piece)
		if out == nil {
			out = opt
		} else {
			out = Concat(out, opt)
		}
	}
	if out == nil {
		return EpsilonAutomaton()
	}
	return out
}
