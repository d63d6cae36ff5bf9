package index

// Node addresses a trie node by its file position one byte past the
// node's last byte — the same convention the writer's running position
// counter uses, so a freshly written node's address is exactly the
// position immediately after writing it. NoNode marks "no child".
type Node int64

// NoNode is the sentinel Node value meaning "this entry has no child
// node" (the on-disk all-ones offset, decoded).
const NoNode Node = -1

// Choice is one entry of a trie node: the edge byte, the total
// occurrence count of every key stored in the subtree reached via this
// edge (not just the key ending exactly at the child, if any), and the
// child node's address.
type Choice struct {
	Byte  byte
	Count int64
	Next  Node
}
