package search

import (
	"bytes"
	"sort"
	"testing"

	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/index"
	"github.com/nutrimatic-go/nutrimatic/pattern"
)

func buildIndex(t *testing.T, entries map[string]int64) *index.Reader {
	t.Helper()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := index.NewWriter(&buf)
	for _, k := range keys {
		if err := w.Add([]byte(k), entries[k]); err != nil {
			t.Fatalf("Add(%q): %v", k, err)
		}
	}
	if _, err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	r, err := index.FromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return r
}

func compileFilter(t *testing.T, expr string) *filter.Filter {
	t.Helper()
	d, err := pattern.Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	return filter.New(d)
}

func drainAll(t *testing.T, d *Driver, max int) []string {
	t.Helper()
	var out []string
	for i := 0; i < max; i++ {
		text, _, ok, err := d.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, text)
	}
	return out
}

// §8 end-to-end scenario 1: a trie containing only "the"/5 and "then"/2,
// find-expr "the" yields exactly one match: "the " with score 5.
func TestScenarioLiteralMatchesExactWordOnly(t *testing.T) {
	r := buildIndex(t, map[string]int64{"the ": 5, "then ": 2})
	f := compileFilter(t, "the")
	d := New(r, f, Options{})

	text, score, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: text=%q ok=%v err=%v", text, ok, err)
	}
	if text != "the " {
		t.Fatalf("text = %q, want %q", text, "the ")
	}
	if score != 5 {
		t.Fatalf("score = %v, want 5", score)
	}

	if _, _, ok, err := d.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	} else if ok {
		t.Fatal("expected exactly one result, got a second")
	}
}

// §8 end-to-end scenario 6: anagram letters "aet" on a trie containing
// eat/5, ate/3, tea/4; all three emit, ranked by count: eat, tea, ate.
func TestScenarioAnagramRanksByCount(t *testing.T) {
	r := buildIndex(t, map[string]int64{"eat ": 5, "ate ": 3, "tea ": 4})
	f := compileFilter(t, "<aet>")
	d := New(r, f, Options{})

	got := drainAll(t, d, 10)
	want := []string{"eat ", "tea ", "ate "}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emission %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

// §8 "de-duplication": no string is emitted twice, even with the
// restart rule active.
func TestNoStringEmittedTwice(t *testing.T) {
	r := buildIndex(t, map[string]int64{
		"go ": 10, "go west ": 9, "go home ": 1, "stop ": 2,
	})
	f := compileFilter(t, ".*")
	d := New(r, f, Options{Restart: 0.5})

	seen := make(map[string]bool)
	for _, text := range drainAll(t, d, 1000) {
		if seen[text] {
			t.Fatalf("string %q emitted twice", text)
		}
		seen[text] = true
	}
}

// §8 "monotone-under-no-restart": with restart = 0, scores are
// non-increasing across successive emissions.
func TestMonotoneUnderNoRestart(t *testing.T) {
	r := buildIndex(t, map[string]int64{
		"cat ": 20, "cat dog ": 5, "cat fox ": 3, "zebra ": 50,
	})
	f := compileFilter(t, ".*")
	d := New(r, f, Options{})

	var prev float64 = 1e18
	for i := 0; i < 10; i++ {
		_, score, ok, err := d.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if score > prev {
			t.Fatalf("score %v exceeds previous %v (expected non-increasing)", score, prev)
		}
		prev = score
	}
}

// §8 "driver determinism": two runs over the same trie, filter, and
// restart produce identical result sequences including order.
func TestDriverDeterminism(t *testing.T) {
	r := buildIndex(t, map[string]int64{
		"go ": 10, "go west ": 9, "go home ": 4, "stop ": 2,
	})

	run := func() []string {
		f := compileFilter(t, ".*")
		d := New(r, f, Options{Restart: 0.25})
		return drainAll(t, d, 1000)
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("emission %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

// Options.Budget caps emitted results even though the queue isn't empty.
func TestBudgetCapsEmittedResults(t *testing.T) {
	r := buildIndex(t, map[string]int64{
		"a ": 5, "b ": 4, "c ": 3, "d ": 2, "e ": 1,
	})
	f := compileFilter(t, ".*")
	d := New(r, f, Options{Budget: 2})

	got := drainAll(t, d, 100)
	if len(got) != 2 {
		t.Fatalf("got %d results, want exactly the 2-result budget: %v", len(got), got)
	}
}

func TestStatsTracksPoppedEntries(t *testing.T) {
	r := buildIndex(t, map[string]int64{"hi ": 1})
	f := compileFilter(t, "hi")
	d := New(r, f, Options{})
	if _, _, ok, err := d.Next(); err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if d.Stats().Popped == 0 {
		t.Fatal("expected Stats().Popped to reflect at least one pop")
	}
}
