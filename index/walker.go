package index

// Walker performs an ordered (lexicographic) traversal of every key
// stored under a node, re-deriving each key's bytes and occurrence count
// one at a time without ever materializing the whole key set (§4.1.4).
// It is the inverse of Writer: feeding a Walker's (Text, Same, Count)
// triples into a fresh Writer, in order, reproduces the same trie.
type Walker struct {
	reader *Reader

	stack []walkerFrame
	buf   []byte

	// Text is the current key's bytes, valid until the next call to
	// Next; it is nil once the traversal is exhausted.
	Text []byte
	// Same is the number of leading bytes Text shares with the
	// previous key yielded by this Walker.
	Same int
	// Count is Text's occurrence count.
	Count int64
}

type walkerFrame struct {
	choices []Choice
	next    int
}

// NewWalker starts a traversal of every key reachable from node, whose
// already-known subtree total is count (pass r.Total() and r.Root() to
// walk an entire trie).
func NewWalker(r *Reader, node Node, count int64) (*Walker, error) {
	_, choices, err := r.Children(node, count, 0x00, 0xFF)
	if err != nil {
		return nil, err
	}
	w := &Walker{reader: r, stack: []walkerFrame{{choices: choices}}}
	if err := w.Next(); err != nil {
		return nil, err
	}
	return w, nil
}

// Next advances to the next key in lexicographic order. After the last
// key, Text becomes nil.
func (w *Walker) Next() error {
	for len(w.stack) > 0 && w.stack[len(w.stack)-1].next == len(w.stack[len(w.stack)-1].choices) {
		w.stack = w.stack[:len(w.stack)-1]
	}
	if len(w.stack) == 0 {
		w.Text, w.Same, w.Count = nil, 0, 0
		return nil
	}

	w.Same = len(w.stack) - 1

	for {
		parent := &w.stack[len(w.stack)-1]
		choice := parent.choices[parent.next]
		parent.next++

		remaining, children, err := w.reader.Children(choice.Next, choice.Count, 0x00, 0xFF)
		if err != nil {
			return err
		}
		w.stack = append(w.stack, walkerFrame{choices: children})

		depth := len(w.stack) - 1
		for len(w.buf) < depth {
			w.buf = append(w.buf, 0)
		}
		w.buf[depth-1] = choice.Byte
		w.Count = remaining

		if remaining != 0 {
			break
		}
	}

	w.Text = w.buf[:len(w.stack)-1]
	return nil
}
