// Package shard implements the §4.1.5 k-way merge: combining several
// shard tries (each independently sorted and complete in itself) into
// one, folding any n-gram whose combined count falls short of a minimum
// threshold into its nearest enclosing word rather than dropping it.
package shard

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/nutrimatic-go/nutrimatic/index"
)

// wordFrame is one checkpoint in the frequency-cutoff writer's stack:
// the byte length saved was truncated to when this frame was opened,
// and the occurrence count accumulated under it so far. Frames are
// pushed only at word boundaries — the byte right after a space in a
// key — not at every trie depth, since the cutoff folds at word
// granularity, never splitting a word's count across two output keys.
type wordFrame struct {
	length int
	count  int64
}

// cutoffWriter mirrors FrequencyCutoffWriter from the original
// merge-indexes.cpp exactly: it tracks the key currently "saved" and a
// stack of word-boundary frames opened under it, and decides, as each
// frame falls out of scope, whether to emit it as a real n-gram or fold
// its count up into its parent. output_same is the length the
// downstream trie writer has already committed to sharing with
// whatever gets written next; a frame at exactly that length must be
// emitted even below cutoff; folding it instead would ask the writer to
// retroactively revise a prefix it has already flushed.
type cutoffWriter struct {
	out        *index.Writer
	cutoff     int64
	outputSame int
	saved      []byte
	words      []wordFrame
}

func newCutoffWriter(out *index.Writer, cutoff int64) *cutoffWriter {
	return &cutoffWriter{out: out, cutoff: cutoff, words: []wordFrame{{length: 0, count: 0}}}
}

// next folds one (text, same, count) triple — a Walker's current key,
// its shared-prefix length against whatever this Walker yielded last,
// and its occurrence count — into the running word stack. same is only
// ever extended here, never trusted as an overestimate: a Walker's own
// notion of "shared with my own previous key" can undershoot the true
// shared prefix with the writer's saved buffer (the two may belong to
// different shards interleaved by the merge), but for strings arriving
// in sorted order it can never overshoot it.
//
// text == nil flushes every remaining frame and is the shape close uses
// to drain the writer at end of merge.
func (c *cutoffWriter) next(text []byte, same int, count int64) error {
	if text != nil {
		for same < len(c.saved) && same < len(text) && text[same] == c.saved[same] {
			same++
		}
	}

	for len(c.words) > 0 && c.words[len(c.words)-1].length > same {
		last := c.words[len(c.words)-1]
		c.words = c.words[:len(c.words)-1]

		c.saved = c.saved[:last.length]
		if last.length < c.outputSame {
			c.outputSame = last.length
		}

		if last.count >= c.cutoff || (last.count > 0 && c.outputSame == last.length) {
			key := append([]byte(nil), c.saved...)
			if err := c.out.AddSame(key, c.outputSame, last.count); err != nil {
				return err
			}
			c.outputSame = c.words[len(c.words)-1].length
		} else {
			c.words[len(c.words)-1].count += last.count
			if c.words[len(c.words)-1].length < c.outputSame {
				c.outputSame = c.words[len(c.words)-1].length
			}
		}
	}

	c.saved = c.saved[:same]
	if text != nil {
		c.saved = append(c.saved, text[same:]...)
		pos := same
		for {
			idx := bytes.IndexByte(c.saved[pos:], ' ')
			if idx < 0 {
				break
			}
			pos += idx + 1
			c.words = append(c.words, wordFrame{length: pos})
		}
	}

	if len(c.words) > 0 {
		c.words[len(c.words)-1].count += count
	}
	return nil
}

func (c *cutoffWriter) close() (index.Node, error) {
	if err := c.next(nil, 0, 0); err != nil {
		return index.NoNode, err
	}
	return c.out.Close()
}

// shardEntry pairs an open shard reader with its live traversal so the
// merge loop can advance one and close the other once it's exhausted.
type shardEntry struct {
	reader *index.Reader
	walker *index.Walker
}

// shardHeap orders open shards by their current key, smallest on top —
// the Go equivalent of ReaderCompare, simplified to a direct byte
// comparison since a merge of a handful of shards never needs that
// comparator's shared-prefix shortcut to stay fast.
type shardHeap []*shardEntry

func (h shardHeap) Len() int      { return len(h) }
func (h shardHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h shardHeap) Less(i, j int) bool {
	return bytes.Compare(h[i].walker.Text, h[j].walker.Text) < 0
}
func (h *shardHeap) Push(x interface{}) { *h = append(*h, x.(*shardEntry)) }
func (h *shardHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Merge performs a single-threaded k-way merge of shardPaths' tries
// into w, folding any n-gram whose count falls short of cutoff into its
// nearest enclosing word. It returns the merged trie's root address and
// its total occurrence count (equal to the sum of every input shard's
// total — folding redistributes counts, it never discards any).
//
// The shard readers are opened concurrently: each is an independent
// memory-mapped file, so nothing about opening one depends on another.
// The merge loop that follows stays strictly single-threaded, walking
// the open shards in lexicographic lock-step the way the original
// merge tool does.
func Merge(w io.Writer, cutoff int64, shardPaths []string) (root index.Node, total int64, err error) {
	if cutoff <= 0 {
		return index.NoNode, 0, fmt.Errorf("shard: cutoff must be positive, got %d", cutoff)
	}

	readers := make([]*index.Reader, len(shardPaths))
	var g errgroup.Group
	for i, path := range shardPaths {
		i, path := i, path
		g.Go(func() error {
			r, err := index.Open(path)
			if err != nil {
				return fmt.Errorf("shard: open %s: %w", path, err)
			}
			readers[i] = r
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
		return index.NoNode, 0, waitErr
	}
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()

	var h shardHeap
	for i, r := range readers {
		if r.Total() == 0 {
			continue
		}
		walker, err := index.NewWalker(r, r.Root(), r.Total())
		if err != nil {
			return index.NoNode, 0, fmt.Errorf("shard: walk %s: %w", shardPaths[i], err)
		}
		if walker.Text == nil {
			continue
		}
		total += r.Total()
		heap.Push(&h, &shardEntry{reader: r, walker: walker})
	}

	iw := index.NewWriter(w)
	cw := newCutoffWriter(iw, cutoff)

	for h.Len() > 0 {
		entry := heap.Pop(&h).(*shardEntry)
		wk := entry.walker
		if err := cw.next(wk.Text, wk.Same, wk.Count); err != nil {
			return index.NoNode, 0, err
		}
		if err := wk.Next(); err != nil {
			return index.NoNode, 0, err
		}
		if wk.Text != nil {
			heap.Push(&h, entry)
		}
	}

	root, err = cw.close()
	if err != nil {
		return index.NoNode, 0, err
	}
	return root, total, nil
}

// MergeFiles is Merge with the output written to a fresh file at
// outPath. It fails if outPath already exists, matching the rest of
// the system's shard-naming convention (§4.1.5, §6): a merge or build
// step never silently overwrites a previous run's output.
func MergeFiles(outPath string, cutoff int64, shardPaths []string) (root index.Node, total int64, err error) {
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return index.NoNode, 0, fmt.Errorf("shard: create %s: %w", outPath, err)
	}
	defer f.Close()

	root, total, err = Merge(f, cutoff, shardPaths)
	if err != nil {
		return index.NoNode, 0, err
	}
	if err := f.Sync(); err != nil {
		return index.NoNode, 0, fmt.Errorf("shard: sync %s: %w", outPath, err)
	}
	return root, total, nil
}

// NextPath returns the next unused shard path for prefix, following the
// <prefix>.NNNNN.index naming convention (§6): a five-digit zero-padded
// counter starting at 0, stopping at the first value that doesn't
// already name a file.
func NextPath(prefix string) (string, error) {
	for n := 0; n < 100000; n++ {
		path := fmt.Sprintf("%s.%05d.index", prefix, n)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("shard: no unused shard path under prefix %q (100000 exhausted)", prefix)
}
