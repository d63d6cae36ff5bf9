// Package index implements the §4.1 trie codec: a length-prefixed,
// back-pointer-encoded trie written child-before-parent with per-node
// width selection, opened via memory-map and walked from the tail
// backwards.
package index

import "errors"

// Node tag ranges, §4.1.1. Each format's tag byte occupies the node's
// final byte; the high bits of the tag select the format, the low five
// bits (or a preceding full byte, if zero) give the entry count N.
const (
	tagShortcutLo = 0x20
	tagShortcutHi = 0x7F

	tagLeafLo = 0x00
	tagLeafHi = 0x1F

	tagSmallLo = 0x80
	tagSmallHi = 0x9F

	tagMediumOffsetLo = 0xA0
	tagMediumOffsetHi = 0xBF

	tagMediumCountLo = 0xC0
	tagMediumCountHi = 0xDF

	tagWideLo = 0xE0
	tagWideHi = 0xFF
)

// Per-entry byte widths for each format (§4.1.1's table), excluding the
// shortcut format which stores zero bytes per entry (the tag byte itself
// is the sole child's byte).
const (
	leafEntryBytes         = 2  // byte, 1-byte count
	smallEntryBytes        = 3  // byte, 1-byte count, 1-byte offset
	mediumOffsetEntryBytes = 4  // byte, 1-byte count, 2-byte offset
	mediumCountEntryBytes  = 5  // byte, 2-byte count, 2-byte offset
	wideEntryBytes         = 17 // byte, 8-byte count, 8-byte offset
)

// Sentinel "no child" offset values per format: the all-ones pattern of
// the offset field's width. A real offset is written as pos-childPos and
// is 0 when the child ends exactly where the node's entries begin; the
// writer picks a format whose all-ones value no real offset reaches.
const (
	noChildSmall = 0xFF
	// noChildMediumOffset is the 2-byte "no child" sentinel shared by both
	// the medium-offset and medium-count formats (they differ only in
	// their count field's width, not their offset field's).
	noChildMediumOffset = 0xFFFF
	noChildWide         = ^uint64(0)
)

// Entry counts at or above this threshold don't fit the tag byte's low
// five bits; the tag's low bits are left zero and the true count is
// written as a single raw byte immediately before the tag (never with
// any wraparound — the alphabet here never approaches 255 children on a
// single node, so the one-byte count is never ambiguous in practice).
const wideCountThreshold = 0x20

// ErrCorrupt is wrapped by every codec-corruption error (§7 "codec
// corruption"); callers type-assert *CorruptError for the byte offset.
var ErrCorrupt = errors.New("index: corrupt trie node")

// ErrEncodeOverflow is returned by Writer when a count exceeds the
// wide-format limit (§4.1.2, §7 "encoder overflow").
var ErrEncodeOverflow = errors.New("index: count exceeds wide-format limit")

// maxWideValue is the overflow boundary, 2^63: Writer rejects any count
// at or above it, so the largest count the wide format encodes is 2^63-1.
const maxWideValue = uint64(1) << 63
