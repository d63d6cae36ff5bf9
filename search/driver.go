// Package search implements the §4.3 driver: a priority-queue walk of
// an index trie in lock-step with a filter automaton, emitting matches
// in approximately non-increasing score order.
package search

import (
	"container/heap"

	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/index"
)

// Options tunes one Driver run (§4.3.1's supplement: a caller-chosen
// budget, since exhaustive enumeration is a non-goal outside the
// dump/explore commands).
type Options struct {
	// Restart is the discount factor applied when the driver considers
	// jumping back to the trie root after a word boundary instead of
	// continuing the current context (§4.3.3.5). Zero disables the rule
	// entirely — scores are then guaranteed non-increasing across
	// emissions (§8 "monotone-under-no-restart").
	Restart float64
	// Budget caps the number of results Next returns before reporting
	// exhaustion on its own, even if the queue isn't empty yet. Zero
	// means unbounded (the caller stops calling Next whenever it likes).
	Budget int
}

// crumb is one link in the back-pointer chain used to reconstruct a
// popped entry's matched text without storing the whole string at every
// queue entry (§4.3.1).
type crumb struct {
	parent int32
	ch     byte
}

// entry is one priority-queue record: the trie edge it arrived on, the
// filter state reached by following it, the accumulated restart-rule
// discount, and the crumb index identifying the path traveled to reach
// it. crumb == -1 marks the synthetic entry seeded at the trie root.
type entry struct {
	crumb  int32
	scale  float64
	choice index.Choice
	state  filter.State
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	return h[i].scale*float64(h[i].choice.Count) > h[j].scale*float64(h[j].choice.Count)
}
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Driver walks reader in lock-step with f, starting from f.Start(), per
// §4.3. A Driver is single-use and single-threaded: create one per
// query, call Next until it reports exhaustion, then discard it — every
// owned resource (queue, crumb arena, seen-set) is released with it.
type Driver struct {
	reader *index.Reader
	filter *filter.Filter
	opts   Options
	total  int64

	queue  entryHeap
	crumbs []crumb
	seen   map[string]struct{}

	popped  int64
	emitted int
}

// New returns a Driver seeded at reader's root with f's start state, per
// §4.3.2.
func New(reader *index.Reader, f *filter.Filter, opts Options) *Driver {
	d := &Driver{
		reader: reader,
		filter: f,
		opts:   opts,
		total:  reader.Total(),
		seen:   make(map[string]struct{}),
	}
	heap.Push(&d.queue, &entry{
		crumb:  -1,
		scale:  1.0,
		choice: index.Choice{Byte: 0, Count: d.total, Next: reader.Root()},
		state:  f.Start(),
	})
	return d
}

// Stats reports diagnostic counters: how many queue entries have been
// popped so far, and how large the crumb arena has grown.
type Stats struct {
	Popped int64
	Crumbs int
}

// Stats returns the Driver's current counters (§4.3's supplement for
// the "# <n>" progress marker and memory diagnostics).
func (d *Driver) Stats() Stats {
	return Stats{Popped: d.popped, Crumbs: len(d.crumbs)}
}

// Next advances the search until it emits a result or is exhausted.
// text is the matched string (any trailing space from the mandatory
// word-boundary suffix is included — trimming it is a presentation
// concern left to callers). ok is false once the queue empties or the
// configured Budget is reached; err is non-nil only on a codec error
// reading the trie.
func (d *Driver) Next() (text string, score float64, ok bool, err error) {
	if d.opts.Budget > 0 && d.emitted >= d.opts.Budget {
		return "", 0, false, nil
	}
	for {
		text, score, done, err := d.step()
		if err != nil {
			return "", 0, false, err
		}
		if !done {
			continue
		}
		if text == "" {
			// the queue emptied with no further result to give
			return "", 0, false, nil
		}
		d.emitted++
		return text, score, true, nil
	}
}

// step performs one iteration of the outer loop (§4.3.3). The first
// return value is a non-empty match text only when done is true and the
// queue wasn't simply drained.
func (d *Driver) step() (text string, score float64, done bool, err error) {
	if d.queue.Len() == 0 {
		return "", 0, true, nil
	}

	n := heap.Pop(&d.queue).(*entry)
	d.popped++

	k := int32(len(d.crumbs))
	_, children, err := d.reader.Children(n.choice.Next, n.choice.Count, 0x00, 0xFF)
	if err != nil {
		return "", 0, true, err
	}

	crumbPushed := false
	for _, c := range children {
		next, ok := d.filter.Step(n.state, c.Byte)
		if !ok {
			continue
		}
		if !crumbPushed {
			d.crumbs = append(d.crumbs, crumb{parent: n.crumb, ch: n.choice.Byte})
			crumbPushed = true
		}
		heap.Push(&d.queue, &entry{crumb: k, scale: n.scale, choice: c, state: next})
	}

	if d.filter.IsAccepting(n.state) && n.crumb != -1 {
		candidate := d.reconstruct(n)
		if _, ok := d.seen[candidate]; !ok {
			d.seen[candidate] = struct{}{}
			return candidate, n.scale * float64(n.choice.Count), true, nil
		}
	}

	if d.opts.Restart > 0 && n.choice.Byte == ' ' && n.choice.Next != d.reader.Root() {
		heap.Push(&d.queue, &entry{
			crumb:  n.crumb,
			scale:  n.scale * (float64(n.choice.Count) / float64(d.total)) * d.opts.Restart,
			choice: index.Choice{Byte: ' ', Count: d.total, Next: d.reader.Root()},
			state:  n.state,
		})
	}

	return "", 0, false, nil
}

// reconstruct rebuilds the matched string for an accepting entry n:
// every crumb's byte from n.crumb back to (but not including) the root
// sentinel crumb, in order, followed by n's own incoming edge byte. The
// root sentinel (crumbs[0], whose parent is -1) holds no real byte — it
// exists only as the anchor the first real crumb points back to.
func (d *Driver) reconstruct(n *entry) string {
	var rev []byte
	for c := n.crumb; d.crumbs[c].parent != -1; c = d.crumbs[c].parent {
		rev = append(rev, d.crumbs[c].ch)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	rev = append(rev, n.choice.Byte)
	return string(rev)
}
