package index

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/nutrimatic-go/nutrimatic/internal/conv"
)

// Writer streams a sorted stream of (key, count) pairs into the trie
// codec in one pass, child-before-parent, without ever buffering more
// than the current root-to-leaf chain in memory (§4.1.2). Keys must
// arrive in strictly increasing lexicographic order; each node is
// written to disk and dropped from memory the moment its last
// descendant key has gone by.
//
// The scheme keeps a "pending chain" mirroring the path from the trie
// root down to the previous key: Add finds how much of the new key's
// path is shared with that chain, flushes (writes and frees) every
// pending node deeper than the shared prefix, then grows the chain back
// out along the new key's own unshared suffix.
// pendingNode accumulates one trie node's state while any of the keys
// passing through it are still being written — its own terminal count
// (if a key ends exactly here) and the already-written Choice for each
// child finished so far.
type pendingNode struct {
	ch      byte
	count   int64
	choices []Choice
}

// Writer is the streaming encoder (§4.1.2).
type Writer struct {
	w     *bufio.Writer
	pos   int64
	chain []pendingNode
	prev  []byte
	added bool
}

// NewWriter returns a Writer that appends trie bytes to w, starting at
// file position 0 (a shard or merged index file is written fresh, never
// appended to an existing trie).
func NewWriter(w io.Writer) *Writer {
	s := &Writer{w: bufio.NewWriter(w)}
	s.chain = []pendingNode{{ch: 0, count: 0}}
	return s
}

// Add records one key and its occurrence count. Keys must be supplied in
// strictly increasing order; Add returns an error if key does not sort
// after the previous key.
func (s *Writer) Add(key []byte, count int64) error {
	if s.prev != nil && bytes.Compare(key, s.prev) <= 0 {
		return fmt.Errorf("index: keys must strictly increase, got %q after %q", key, s.prev)
	}
	return s.AddSame(key, commonPrefixLen(key, s.prev), count)
}

// AddSame is Add with an explicit, possibly conservative, shared-prefix
// length in place of one freshly computed against the previous key. A
// caller that already tracks its own notion of "how much of this key's
// prefix has the chain already committed to" (the shard merger's
// frequency-cutoff writer, folding some keys and skipping others) can
// pass that value directly; same is extended upward as far as the chain
// matches key, so an underestimate is always safe. It is never reduced:
// an overestimate is used as given.
func (s *Writer) AddSame(key []byte, same int, count int64) error {
	if count <= 0 {
		return fmt.Errorf("index: Add requires a positive count, got %d", count)
	}
	for same+1 < len(s.chain) && same < len(key) && key[same] == s.chain[same+1].ch {
		same++
	}
	if err := s.advance(key, same, count); err != nil {
		return err
	}
	s.prev = append(s.prev[:0], key...)
	s.added = true
	return nil
}

// Close flushes the remaining pending chain (the whole trie collapses
// back to its root) and writes the root node, the last bytes of the
// file. It returns the root's address, which is always the file's
// length: no trailer or metadata is written after the root.
//
// A Writer that never saw a single Add writes no bytes at all; its root
// address is NoNode, the same sentinel Reader uses for "no child".
func (s *Writer) Close() (Node, error) {
	if !s.added {
		return NoNode, s.w.Flush()
	}
	if err := s.advance(nil, 0, 0); err != nil {
		return NoNode, err
	}
	return Node(s.pos), s.w.Flush()
}

// advance implements the pending-chain algorithm: extend the shared
// prefix, pop and write every chain frame deeper than it, then grow the
// chain out to cover key's own suffix.
func (s *Writer) advance(key []byte, same int, count int64) error {
	for len(s.chain)-1 > same {
		pending := s.chain[len(s.chain)-1]
		s.chain = s.chain[:len(s.chain)-1]
		saved, err := s.writeNode(pending, false)
		if err != nil {
			return err
		}
		parent := &s.chain[len(s.chain)-1]
		parent.choices = append(parent.choices, saved)
	}

	for key != nil && len(s.chain)-1 < len(key) {
		s.chain = append(s.chain, pendingNode{ch: key[len(s.chain)-1]})
	}

	s.chain[len(s.chain)-1].count += count

	if key == nil {
		if _, err := s.writeNode(s.chain[0], true); err != nil {
			return err
		}
		s.chain = nil
	}
	return nil
}

// commonPrefixLen returns the number of leading bytes a and b share.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// writeNode picks the cheapest of the five on-disk shapes for p's
// entries and emits it, returning the Choice a parent should record for
// p (its edge byte, its subtree's total count, and its own address).
// The root is never written in the shortcut format, so Reader can always
// take the trie's total from the sum of the root's entries.
func (s *Writer) writeNode(p pendingNode, root bool) (Choice, error) {
	if len(p.choices) == 0 {
		if p.count <= 0 {
			return Choice{}, fmt.Errorf("index: node for %q has no children and no terminal count", p.ch)
		}
		return Choice{Byte: p.ch, Count: p.count, Next: NoNode}, nil
	}

	if !root && len(p.choices) == 1 && p.count == 0 &&
		p.choices[0].Byte >= tagShortcutLo && p.choices[0].Byte <= tagShortcutHi &&
		p.choices[0].Next == Node(s.pos) {
		if err := s.w.WriteByte(p.choices[0].Byte); err != nil {
			return Choice{}, err
		}
		s.pos++
		return Choice{Byte: p.ch, Count: p.choices[0].Count, Next: Node(s.pos)}, nil
	}

	total := p.count
	var maxCount, maxOffset int64
	for i, c := range p.choices {
		if i > 0 && c.Byte <= p.choices[i-1].Byte {
			return Choice{}, fmt.Errorf("index: node children must strictly increase by byte")
		}
		if c.Count <= 0 {
			return Choice{}, fmt.Errorf("index: child count must be positive, got %d", c.Count)
		}
		total += c.Count
		if c.Count > maxCount {
			maxCount = c.Count
		}
		if c.Next != NoNode {
			off := s.pos - int64(c.Next)
			if off < 1 {
				off = 1
			}
			if off > maxOffset {
				maxOffset = off
			}
		}
	}
	if uint64(maxCount) >= maxWideValue {
		return Choice{}, ErrEncodeOverflow
	}

	var mode byte
	n := int64(len(p.choices))
	switch {
	case maxOffset == 0 && maxCount < 0x100:
		mode = tagLeafLo
		for _, c := range p.choices {
			s.w.WriteByte(c.Byte)
			s.w.WriteByte(byte(c.Count))
		}
		s.pos += leafEntryBytes * n
	case maxOffset < 0xFF && maxCount < 0x100:
		mode = tagSmallLo
		for _, c := range p.choices {
			s.w.WriteByte(c.Byte)
			s.w.WriteByte(byte(c.Count))
			s.w.WriteByte(smallOffset(s.pos, c.Next))
		}
		s.pos += smallEntryBytes * n
	case maxOffset < 0xFFFF && maxCount < 0x100:
		mode = tagMediumOffsetLo
		for _, c := range p.choices {
			s.w.WriteByte(c.Byte)
			s.w.WriteByte(byte(c.Count))
			writeLE16(s.w, mediumOffset(s.pos, c.Next))
		}
		s.pos += mediumOffsetEntryBytes * n
	case maxOffset < 0xFFFF && maxCount < 0x10000:
		mode = tagMediumCountLo
		for _, c := range p.choices {
			s.w.WriteByte(c.Byte)
			writeLE16(s.w, conv.Uint64ToUint16(uint64(c.Count)))
			writeLE16(s.w, mediumOffset(s.pos, c.Next))
		}
		s.pos += mediumCountEntryBytes * n
	default:
		mode = tagWideLo
		for _, c := range p.choices {
			s.w.WriteByte(c.Byte)
			writeLE64(s.w, uint64(c.Count))
			writeLE64(s.w, wideOffset(s.pos, c.Next))
		}
		s.pos += wideEntryBytes * n
	}

	if n < wideCountThreshold {
		s.w.WriteByte(byte(n) + mode)
		s.pos++
	} else {
		s.w.WriteByte(byte(n))
		s.w.WriteByte(mode)
		s.pos += 2
	}

	return Choice{Byte: p.ch, Count: total, Next: Node(s.pos)}, nil
}

func smallOffset(pos int64, next Node) byte {
	if next == NoNode {
		return noChildSmall
	}
	return byte(pos - int64(next))
}

func mediumOffset(pos int64, next Node) uint16 {
	if next == NoNode {
		return noChildMediumOffset
	}
	return conv.Uint64ToUint16(uint64(pos - int64(next)))
}

func wideOffset(pos int64, next Node) uint64 {
	if next == NoNode {
		return noChildWide
	}
	return uint64(pos - int64(next))
}

func writeLE16(w *bufio.Writer, v uint16) {
	w.WriteByte(byte(v))
	w.WriteByte(byte(v >> 8))
}

func writeLE64(w *bufio.Writer, v uint64) {
	for j := 0; j < 8; j++ {
		w.WriteByte(byte(v >> (8 * uint(j))))
	}
}
