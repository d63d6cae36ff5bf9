package pattern

import (
	"github.com/nutrimatic-go/nutrimatic/fsa"
	"github.com/nutrimatic-go/nutrimatic/internal/alphabet"
)

// anagramBucket groups syntactically distinct but semantically identical
// pieces (§4.2.4 step 2), so the intersection combiner works with
// multiplicities instead of a flat list of k possibly-duplicate automata.
type anagramBucket struct {
	dfa          *fsa.DFA
	fingerprint  uint64
	multiplicity int
}

// compileAnagram implements §4.2.4's five-step construction: bucket
// identical pieces, build the total-length automaton L, build one
// "contains exactly cᵢ occurrences of Pᵢ" automaton Cᵢ per bucket, and
// intersect them all via the pairwise combiner (§4.2.5).
//
// Pieces are compiled with implicit space-insertion suppressed (anagram
// letters sit tight within one permuted word); "optional spaces between
// and around" pieces (spec line) is instead modeled explicitly by
// bracketing every piece with an optional space on each side before it
// enters the L/Cᵢ construction.
func compileAnagram(a anagram) *fsa.Automaton {
	if len(a.pieces) == 0 {
		return fsa.EpsilonAutomaton()
	}

	buckets := bucketPieces(a.pieces)

	wrapped := make([]*fsa.DFA, len(buckets))
	for i, b := range buckets {
		wrapped[i] = fsa.Optimize(wrapOptionalSpace(fsa.FromDFA(b.dfa)))
	}

	total := 0
	for _, b := range buckets {
		total += b.multiplicity
	}

	l := fsa.Optimize(fsa.Repeat(unionAllDFAs(wrapped), total, total))

	combined := []*fsa.DFA{l}
	for i, b := range buckets {
		others := unionDFAsExcept(wrapped, i)
		combined = append(combined, fsa.Optimize(buildCi(wrapped[i], others, b.multiplicity)))
	}

	return fsa.FromDFA(fsa.IntersectAll(combined))
}

// bucketPieces groups pieces by FSA equivalence (§4.2.4 step 2), using a
// content hash to avoid the naive O(k²) pairwise Equivalent scan — a hash
// collision still gets a definitive Equivalent check before merging, so
// correctness never depends on the hash being collision-free.
func bucketPieces(pieces []node) []anagramBucket {
	var buckets []anagramBucket
	for _, p := range pieces {
		d := fsa.Optimize(compileAnagramPiece(p))
		fp := fsa.Fingerprint(d)
		merged := false
		for i := range buckets {
			if buckets[i].fingerprint == fp && fsa.Equivalent(buckets[i].dfa, d) {
				buckets[i].multiplicity++
				merged = true
				break
			}
		}
		if !merged {
			buckets = append(buckets, anagramBucket{dfa: d, fingerprint: fp, multiplicity: 1})
		}
	}
	return buckets
}

// compileAnagramPiece compiles a single anagram piece's sub-expression,
// including any internal union/intersection/quantifier, with implicit
// spacing suppressed per the §9 decision that a piece is "one element of
// the anagram multiset matched by a single traversal of its sub-FSA."
func compileAnagramPiece(n node) *fsa.Automaton {
	return compile(n, true)
}

func wrapOptionalSpace(a *fsa.Automaton) *fsa.Automaton {
	leading := fsa.Optional(fsa.SingleByte(alphabet.Space))
	trailing := fsa.Optional(fsa.SingleByte(alphabet.Space))
	return fsa.Concat(fsa.Concat(leading, a), trailing)
}

// unionAllDFAs unions every wrapped bucket FSA (§4.2.4 step 3's "union of
// P1..Pk" used to build L).
func unionAllDFAs(wrapped []*fsa.DFA) *fsa.Automaton {
	var acc *fsa.Automaton
	for _, d := range wrapped {
		lifted := fsa.FromDFA(d)
		if acc == nil {
			acc = lifted
		} else {
			acc = fsa.Union(acc, lifted)
		}
	}
	return acc
}

// unionDFAsExcept is the union of every bucket's wrapped FSA except index
// skip (§4.2.4 step 4's "others = union of Pⱼ for j ≠ i").
func unionDFAsExcept(wrapped []*fsa.DFA, skip int) *fsa.DFA {
	var acc *fsa.Automaton
	for i, d := range wrapped {
		if i == skip {
			continue
		}
		lifted := fsa.FromDFA(d)
		if acc == nil {
			acc = lifted
		} else {
			acc = fsa.Union(acc, lifted)
		}
	}
	if acc == nil {
		return fsa.Optimize(fsa.Empty())
	}
	return fsa.Optimize(acc)
}

// buildCi constructs Cᵢ = (others)* ( Pᵢ (others)* )^{cᵢ} (§4.2.4 step 4).
func buildCi(pi *fsa.DFA, others *fsa.DFA, ci int) *fsa.Automaton {
	unit := fsa.Concat(fsa.FromDFA(pi), fsa.ClosureStar(fsa.FromDFA(others)))
	unitRepeated := fsa.Repeat(unit, ci, ci)
	return fsa.Concat(fsa.ClosureStar(fsa.FromDFA(others)), unitRepeated)
}
