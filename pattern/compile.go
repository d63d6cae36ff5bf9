package pattern

import (
	"github.com/nutrimatic-go/nutrimatic/fsa"
	"github.com/nutrimatic-go/nutrimatic/internal/alphabet"
)

// Compile parses and lowers s into a minimized DFA ready for the filter
// adapter. It returns ErrInfeasible (wrapped) if the result accepts no
// strings at all, per §7's "pattern-infeasible" error kind.
func Compile(s string) (*fsa.DFA, error) {
	ast, err := Parse(s)
	if err != nil {
		return nil, err
	}
	d := fsa.Optimize(compile(ast, false))
	if !hasAcceptingPath(d) {
		return nil, ErrInfeasible
	}
	return d, nil
}

// compile lowers one AST node to an NFA fragment. quoted tracks whether
// we're nested inside a '"'-quoted region, which suppresses the
// implicit-space wrapping single-byte atoms otherwise get (§4.2.2).
func compile(n node, inQuotes bool) *fsa.Automaton {
	switch v := n.(type) {
	case union:
		out := compile(v.branches[0], inQuotes)
		for _, b := range v.branches[1:] {
			out = fsa.Union(out, compile(b, inQuotes))
		}
		return out
	case intersection:
		dfas := make([]*fsa.DFA, len(v.factors))
		for i, f := range v.factors {
			dfas[i] = fsa.Optimize(compile(f, inQuotes))
		}
		return fsa.FromDFA(fsa.IntersectAll(dfas))
	case concat:
		if len(v.pieces) == 0 {
			return fsa.EpsilonAutomaton()
		}
		out := compile(v.pieces[0], inQuotes)
		for _, pc := range v.pieces[1:] {
			out = fsa.Concat(out, compile(pc, inQuotes))
		}
		return out
	case piece:
		base := compile(v.atom, inQuotes)
		if !v.quant.present {
			return base
		}
		return fsa.Repeat(base, v.quant.min, v.quant.max)
	case quoted:
		return compile(v.inner, true)
	case group:
		return compile(v.inner, inQuotes)
	case charClass:
		if len(v.ranges) > 0 && v.ranges[0] == [2]byte{alphabet.Filler, alphabet.Filler} {
			// the `-` filler: nothing, or one of the remaining bytes
			return wrapImplicitSpace(fsa.Optional(fsa.ByteSet(v.ranges[1:])), inQuotes)
		}
		return wrapImplicitSpace(fsa.ByteSet(v.ranges), inQuotes)
	case bracketClass:
		ranges := v.ranges
		if v.negate {
			ranges = complementInSigma(ranges)
		}
		return wrapImplicitSpace(fsa.ByteSet(ranges), inQuotes)
	case anagram:
		return compileAnagram(v)
	default:
		panic("pattern: unknown AST node")
	}
}

// wrapImplicitSpace gives a single-byte atom's fragment a self-loop on
// space at both endpoints (§4.2.2's "Implicit spaces"), unless inQuotes
// suppresses it.
func wrapImplicitSpace(base *fsa.Automaton, inQuotes bool) *fsa.Automaton {
	if inQuotes {
		return base
	}
	leading := fsa.ClosureStar(fsa.SingleByte(alphabet.Space))
	trailing := fsa.ClosureStar(fsa.SingleByte(alphabet.Space))
	return fsa.Concat(fsa.Concat(leading, base), trailing)
}

func complementInSigma(ranges [][2]byte) [][2]byte {
	var marked [256]bool
	for _, r := range ranges {
		for b := int(r[0]); b <= int(r[1]); b++ {
			marked[b] = true
		}
	}
	var out [][2]byte
	lo := -1
	for b := 0; b < 256; b++ {
		include := alphabet.IsMember(byte(b)) && !marked[b]
		if include && lo < 0 {
			lo = b
		}
		if !include && lo >= 0 {
			out = append(out, [2]byte{byte(lo), byte(b - 1)})
			lo = -1
		}
	}
	if lo >= 0 {
		out = append(out, [2]byte{byte(lo), 255})
	}
	return out
}

func hasAcceptingPath(d *fsa.DFA) bool {
	n := d.NumStates()
	if n == 0 {
		return false
	}
	seen := make([]bool, n)
	var stack []fsa.StateID
	stack = append(stack, d.Start)
	seen[d.Start] = true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if d.IsAccepting(s) {
			return true
		}
		for b := 0; b < 256; b++ {
			t, ok := d.Step(s, byte(b))
			if ok && !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}
	return false
}
