package fsa

import "testing"

func accepts(d *DFA, s string) bool {
	cur := d.Start
	for i := 0; i < len(s); i++ {
		next, ok := d.Step(cur, s[i])
		if !ok {
			return false
		}
		cur = next
	}
	return d.IsAccepting(cur)
}

func TestLiteralByteRange(t *testing.T) {
	d := Optimize(SingleByte('a'))
	if !accepts(d, "a") {
		t.Fatal("expected to accept \"a\"")
	}
	if accepts(d, "b") || accepts(d, "aa") || accepts(d, "") {
		t.Fatal("expected to reject everything but \"a\"")
	}
}

func TestConcat(t *testing.T) {
	d := Optimize(Concat(SingleByte('a'), SingleByte('b')))
	if !accepts(d, "ab") {
		t.Fatal("expected to accept \"ab\"")
	}
	for _, s := range []string{"a", "b", "ba", "abc"} {
		if accepts(d, s) {
			t.Fatalf("unexpected accept of %q", s)
		}
	}
}

func TestUnion(t *testing.T) {
	d := Optimize(Union(SingleByte('a'), SingleByte('b')))
	if !accepts(d, "a") || !accepts(d, "b") {
		t.Fatal("expected to accept both operands")
	}
	if accepts(d, "c") || accepts(d, "ab") {
		t.Fatal("expected to reject anything else")
	}
}

func TestClosureStar(t *testing.T) {
	d := Optimize(ClosureStar(SingleByte('a')))
	for _, s := range []string{"", "a", "aaaa"} {
		if !accepts(d, s) {
			t.Fatalf("expected to accept %q", s)
		}
	}
	if accepts(d, "aab") {
		t.Fatal("expected to reject \"aab\"")
	}
}

func TestClosurePlus(t *testing.T) {
	d := Optimize(ClosurePlus(SingleByte('a')))
	if accepts(d, "") {
		t.Fatal("plus must reject the empty string")
	}
	if !accepts(d, "a") || !accepts(d, "aaa") {
		t.Fatal("plus must accept one or more repetitions")
	}
}

func TestRepeatBounded(t *testing.T) {
	d := Optimize(Repeat(SingleByte('a'), 2, 3))
	if accepts(d, "a") || accepts(d, "aaaa") {
		t.Fatal("out-of-range repeat counts must reject")
	}
	if !accepts(d, "aa") || !accepts(d, "aaa") {
		t.Fatal("in-range repeat counts must accept")
	}
}

func TestIntersect(t *testing.T) {
	// Strings over {a,b} of length exactly 3, intersected with strings
	// that start with 'a'.
	anyByte := ByteSet([][2]byte{{'a', 'b'}})
	lenThree := Optimize(Repeat(anyByte, 3, 3))
	startsA := Optimize(Concat(SingleByte('a'), ClosureStar(ByteSet([][2]byte{{'a', 'b'}}))))
	d := Minimize(Intersect(lenThree, startsA))

	for _, s := range []string{"aaa", "aab", "aba", "abb"} {
		if !accepts(d, s) {
			t.Fatalf("expected to accept %q", s)
		}
	}
	for _, s := range []string{"baa", "aa", "aaaa", ""} {
		if accepts(d, s) {
			t.Fatalf("expected to reject %q", s)
		}
	}
}

func TestEquivalent(t *testing.T) {
	a := Optimize(Union(SingleByte('a'), SingleByte('a')))
	b := Optimize(SingleByte('a'))
	if !Equivalent(a, b) {
		t.Fatal("expected (a|a) to be equivalent to a")
	}
	c := Optimize(SingleByte('b'))
	if Equivalent(a, c) {
		t.Fatal("expected a and b to not be equivalent")
	}
}

func TestFingerprintMatchesEquivalence(t *testing.T) {
	a := Optimize(Concat(SingleByte('c'), Concat(SingleByte('a'), SingleByte('t'))))
	b := Optimize(Concat(Concat(SingleByte('c'), SingleByte('a')), SingleByte('t')))
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("expected identical-language automata to fingerprint the same")
	}
}

func TestEmptyAcceptsNothing(t *testing.T) {
	d := Optimize(Empty())
	if accepts(d, "") || accepts(d, "a") {
		t.Fatal("Empty must accept nothing, not even the empty string")
	}
}

func TestEpsilonAcceptsOnlyEmptyString(t *testing.T) {
	d := Optimize(EpsilonAutomaton())
	if !accepts(d, "") {
		t.Fatal("epsilon automaton must accept the empty string")
	}
	if accepts(d, "a") {
		t.Fatal("epsilon automaton must reject everything else")
	}
}
