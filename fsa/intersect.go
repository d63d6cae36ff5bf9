package fsa

// Intersect returns a DFA, not minimized, for the language accepted by
// both a and b, via product construction: each product state is a pair (sa, sb)
// of operand states, stepping both simultaneously on every byte; a
// product state accepts iff both halves do. State-set bookkeeping
// mirrors the same breadth-first worklist shape Determinize uses, just
// keyed on a pair instead of a subset.
//
// Callers almost always want the result minimized before it's combined
// further (IntersectAll minimizes each product) — §4.2.5's pairwise-fold
// combiner relies on this to keep intermediate products small.
func Intersect(a, b *DFA) *DFA {
	type pair struct{ a, b StateID }
	index := map[pair]StateID{}
	var pairs []pair

	register := func(p pair) StateID {
		if id, ok := index[p]; ok {
			return id
		}
		id := StateID(len(pairs))
		index[p] = id
		pairs = append(pairs, p)
		return id
	}

	start := register(pair{a.Start, b.Start})
	d := &DFA{Start: start}

	for pos := 0; pos < len(pairs); pos++ {
		p := pairs[pos]
		d.Trans = append(d.Trans, newRow())
		d.Accept = append(d.Accept, a.IsAccepting(p.a) && b.IsAccepting(p.b))
		row := &d.Trans[pos]
		for c := 0; c < 256; c++ {
			ta, ok := a.Step(p.a, byte(c))
			if !ok {
				continue
			}
			tb, ok := b.Step(p.b, byte(c))
			if !ok {
				continue
			}
			row[c] = register(pair{ta, tb})
		}
	}

	return d
}

// Optimize determinizes an NFA fragment and minimizes the result in one
// call — the "optimize(a), optimize(b), intersect(a,b)" step §4.2.5
// names for the pairwise combiner.
func Optimize(a *Automaton) *DFA {
	return Minimize(Determinize(a))
}

// IntersectAll folds a slice of DFAs pairwise, minimizing between every
// step (§4.2.5): a balanced reduction tree keeps intermediate products
// from multiplying unchecked, since minimization runs between every
// level instead of only at the very end.
func IntersectAll(ds []*DFA) *DFA {
	if len(ds) == 0 {
		return Minimize(Determinize(EpsilonAutomaton()))
	}
	level := ds
	for len(level) > 1 {
		var next []*DFA
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, Minimize(Intersect(level[i], level[i+1])))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}
