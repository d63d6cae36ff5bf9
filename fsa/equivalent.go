package fsa

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Equivalent reports whether a and b accept the same language. Both are
// first minimized and canonicalized (Minimize already renumbers states
// in BFS order, so two equivalent minimal DFAs are byte-for-byte
// identical transition tables), then compared directly — cheaper than a
// bisimulation search and exact, not approximate, because canonical
// minimal DFAs are unique up to this renumbering.
func Equivalent(a, b *DFA) bool {
	ma, mb := Minimize(a), Minimize(b)
	if ma.NumStates() != mb.NumStates() {
		return false
	}
	for s := range ma.Trans {
		if ma.Accept[s] != mb.Accept[s] {
			return false
		}
		if ma.Trans[s] != mb.Trans[s] {
			return false
		}
	}
	return true
}

// Fingerprint returns a content hash of a's minimized, canonicalized
// form, used by the anagram compiler (§4.2.4) to bucket syntactically
// distinct but semantically identical sub-patterns ("cat" and "(c)(a)(t)"
// hash the same) without an O(n²) pairwise Equivalent scan.
func Fingerprint(a *DFA) uint64 {
	m := Minimize(a)
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(m.NumStates()))
	h.Write(buf[:])
	for s := range m.Trans {
		if m.Accept[s] {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		for c := 0; c < 256; c++ {
			binary.LittleEndian.PutUint32(buf[:4], uint32(m.Trans[s][c]))
			h.Write(buf[:4])
		}
	}
	return h.Sum64()
}
