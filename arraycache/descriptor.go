package arraycache

import "github.com/unkn0wn-root/logarray/arraycache/internal/fingerprint"

// Descriptor is the cacheable projection of a parsed packed array: enough
// to open a Decoder or re-derive a PackedArray view over its source
// without re-running control-word validation. It deliberately carries no
// reference to the source's bytes — only where to find them — so it stays
// cheap to serialize through a Provider and safe to share across many
// array identities pointing at the same underlying file.
type Descriptor struct {
	// Length is the element count.
	Length uint64
	// Width is the per-element bit width.
	Width uint8
	// DataOffset is the byte offset of the array's data segment within its
	// source (past any header-first control word, 0 for trailer form).
	DataOffset int64
	// DataSize is the byte length of the data segment, not including any
	// control word.
	DataSize int64
}

// DescriptorKey derives the cache key for the array living at byte offset
// within source (typically a file path, possibly suffixed with a logical
// segment id for multi-array files). Callers that already have their own
// key scheme can ignore this and call Cache[Descriptor] methods directly
// with whatever key they like; this just gives every caller that doesn't
// care a collision-resistant-enough default.
func DescriptorKey(source string, offset int64) string {
	return fingerprint.Of(source, offset)
}

// NewDescriptorCache builds a Cache[Descriptor] from opts. It is a thin
// convenience over New[Descriptor] and passes opts through unchanged, so
// opts must set Namespace, Provider and Codec just as New requires.
func NewDescriptorCache(opts Options[Descriptor]) (Cache[Descriptor], error) {
	return New[Descriptor](opts)
}
