package index

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Reader opens a trie codec file via memory-map and decodes nodes on
// demand; it never copies the file into the Go heap, so a multi-gigabyte
// index costs only page-cache residency to query (§4.1.3).
type Reader struct {
	data   []byte
	total  int64
	mapped bool
}

// Open memory-maps path read-only and scans just enough of the trie to
// compute the corpus's total occurrence count (§4.1.3's "total at open
// time").
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Reader{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("index: mmap %s: %w", path, err)
	}

	r := &Reader{data: data, mapped: true}
	total, err := r.scanTotal()
	if err != nil {
		unix.Munmap(data)
		return nil, err
	}
	r.total = total
	return r, nil
}

// FromBytes builds a Reader directly over an in-memory trie, bypassing
// the memory-map (used for indexes small enough to hold in the Go heap,
// and by tests).
func FromBytes(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return &Reader{}, nil
	}
	r := &Reader{data: data}
	total, err := r.scanTotal()
	if err != nil {
		return nil, err
	}
	r.total = total
	return r, nil
}

// Close unmaps the underlying file, if this Reader owns a memory-map.
func (r *Reader) Close() error {
	if !r.mapped {
		return nil
	}
	return unix.Munmap(r.data)
}

// Root is the address of the trie's root node: one past the file's last
// byte, since the root is always the last node written.
func (r *Reader) Root() Node { return Node(len(r.data)) }

// Total is the sum of every key's occurrence count in the whole trie.
func (r *Reader) Total() int64 { return r.total }

// scanTotal walks from the root through any leading run of shortcut
// nodes (a shared prefix every key in the file happens to start with)
// until it reaches the first node with real branching, and sums that
// node's children's counts.
func (r *Reader) scanTotal() (int64, error) {
	node := r.Root()
	for {
		_, top, err := r.Children(node, 0, 0x00, 0xFF)
		if err != nil {
			return 0, err
		}
		if len(top) == 1 && top[0].Count == 0 {
			node = top[0].Next
			continue
		}
		var total int64
		for _, c := range top {
			total += c.Count
		}
		return total, nil
	}
}

// Children decodes parent's entries restricted to the byte range
// [lo, hi], appending matches to a freshly allocated slice. count is the
// subtree total already known for parent (from the Choice a caller
// decoded to reach it, or 0 if unknown); the returned int64 is that
// total minus the sum of every decoded child's count — the occurrence
// count of the key that ends exactly at parent, if any.
func (r *Reader) Children(parent Node, count int64, lo, hi byte) (int64, []Choice, error) {
	if parent == NoNode {
		return count, nil, nil
	}
	n := int64(parent)
	if n < 1 || n > int64(len(r.data)) {
		return 0, nil, corrupt(n, "node address out of range")
	}
	n--
	num := r.data[n]

	if num >= tagShortcutLo && num <= tagShortcutHi {
		if n < 1 {
			return 0, nil, corrupt(n, "shortcut node needs an immediately preceding byte")
		}
		var out []Choice
		if num >= lo && num <= hi {
			out = append(out, Choice{Byte: num, Count: count, Next: Node(n)})
		}
		return 0, out, nil
	}

	countSize := 1
	switch {
	case num >= tagWideLo:
		countSize = 8
	case num >= tagMediumCountLo:
		countSize = 2
	}
	offsetSize := 0
	switch {
	case num >= tagWideLo:
		offsetSize = 8
	case num >= tagMediumOffsetLo:
		offsetSize = 2
	case num >= tagSmallLo:
		offsetSize = 1
	}

	num &= 0x1F
	if num == 0 {
		if n < 1 {
			return 0, nil, corrupt(n, "node needs a preceding entry-count byte")
		}
		n--
		num = r.data[n]
	}

	size := int64(countSize + offsetSize + 1)
	if num == 0 || n < int64(num)*size {
		return 0, nil, corrupt(n, "entry table runs past the start of the file")
	}

	start := n - int64(num)*size
	var out []Choice
	remaining := count
	for p := start; p < n; p += size {
		ch := r.data[p]
		if ch < lo || ch > hi {
			continue
		}

		var cnt int64
		for j := 0; j < countSize; j++ {
			cnt |= int64(r.data[p+1+int64(j)]) << (8 * uint(j))
		}
		if cnt <= 0 {
			return 0, nil, corrupt(p+1, "non-positive child count")
		}

		var next Node
		switch offsetSize {
		case 0:
			next = NoNode
		case 1:
			off := r.data[p+1+int64(countSize)]
			if off == noChildSmall {
				next = NoNode
			} else {
				next = Node(start - int64(off))
			}
		case 2:
			off := uint16(r.data[p+1+int64(countSize)]) | uint16(r.data[p+1+int64(countSize)+1])<<8
			if off == noChildMediumOffset {
				next = NoNode
			} else {
				next = Node(start - int64(off))
			}
		default: // 8
			var off uint64
			for j := 0; j < offsetSize; j++ {
				off |= uint64(r.data[p+1+int64(countSize)+int64(j)]) << (8 * uint(j))
			}
			if off == noChildWide {
				next = NoNode
			} else {
				next = Node(start - int64(off))
			}
		}

		if next != NoNode && (int64(next) < 0 || int64(next) > start) {
			return 0, nil, corrupt(p+1+int64(countSize), "offset points outside the node's own prefix")
		}

		out = append(out, Choice{Byte: ch, Count: cnt, Next: next})
		remaining -= cnt
	}
	return remaining, out, nil
}
