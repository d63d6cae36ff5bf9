package filter

import (
	"testing"

	"github.com/nutrimatic-go/nutrimatic/fsa"
)

func run(f *Filter, s string) bool {
	cur := f.Start()
	for i := 0; i < len(s); i++ {
		next, ok := f.Step(cur, s[i])
		if !ok {
			return false
		}
		cur = next
	}
	return f.IsAccepting(cur)
}

func TestNewAppendsTrailingSpace(t *testing.T) {
	d := fsa.Optimize(fsa.Concat(fsa.SingleByte('c'), fsa.SingleByte('a')))
	f := New(d)
	if run(f, "ca") {
		t.Fatal("expected bare match without trailing space to be rejected")
	}
	if !run(f, "ca ") {
		t.Fatal("expected match with trailing space to be accepted")
	}
}

func TestFromAutomatonNoSuffixSkipsSpace(t *testing.T) {
	d := fsa.Optimize(fsa.SingleByte('a'))
	f := FromAutomatonNoSuffix(d)
	if !run(f, "a") {
		t.Fatal("expected bare match to be accepted with no suffix appended")
	}
	if run(f, "a ") {
		t.Fatal("unexpected acceptance of trailing space")
	}
}

func TestRejectAllSynthesizedForEmptyLanguage(t *testing.T) {
	d := fsa.Optimize(fsa.Empty())
	f := FromAutomatonNoSuffix(d)
	if f.NumStates() != 1 {
		t.Fatalf("expected a single synthesized reject-all state, got %d", f.NumStates())
	}
	if f.IsAccepting(f.Start()) {
		t.Fatal("reject-all filter must not accept")
	}
	if _, ok := f.Step(f.Start(), 'a'); ok {
		t.Fatal("reject-all filter must have no transitions")
	}
}

func TestStepRejectsNulByte(t *testing.T) {
	d := fsa.Optimize(fsa.SingleByte('a'))
	f := FromAutomatonNoSuffix(d)
	if _, ok := f.Step(f.Start(), 0); ok {
		t.Fatal("NUL byte must never be a valid arc")
	}
}
