package index

import "fmt"

// CorruptError names the byte offset where a trie read detected an
// inconsistency (§7 "codec corruption"): an out-of-range node address, a
// zero count, or an offset pointing past the node that referenced it.
type CorruptError struct {
	Offset int64
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("index: corrupt trie at offset %d: %s", e.Offset, e.Reason)
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }

func corrupt(offset int64, reason string) error {
	return &CorruptError{Offset: offset, Reason: reason}
}
