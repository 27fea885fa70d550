package util

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// BulkKey derives the bulk-entry storage key covering a set of descriptor
// keys, e.g. every array living in one rewritten file. Order and duplicates
// in keys don't matter: BulkKey sorts and dedupes a copy before delegating to
// BulkKeySorted, so two requests for the same logical set always collide on
// the same cache entry regardless of how the caller assembled the slice.
func BulkKey(prefix string, keys []string) string {
	s := make([]string, len(keys))
	copy(s, keys)
	sort.Strings(s)
	uniq := s[:0]
	for _, k := range s {
		if len(uniq) == 0 || uniq[len(uniq)-1] != k {
			uniq = append(uniq, k)
		}
	}
	return BulkKeySorted(prefix, uniq)
}

// BulkKeySorted derives the storage key for a bulk entry from an
// already-sorted, already-deduplicated key set. Each key is length-prefixed
// before hashing so that, e.g., {"ab","c"} and {"a","bc"} never collide on
// naive concatenation.
func BulkKeySorted(prefix string, sortedKeys []string) string {
	// Compute exact buffer size: 4 bytes length + key bytes per key.
	total := 0
	for _, k := range sortedKeys {
		total += 4 + len(k)
	}

	buf := make([]byte, total)
	off := 0

	for _, k := range sortedKeys {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(len(k)))
		off += 4
		copy(buf[off:], k)
		off += len(k)
	}

	sum := sha256.Sum256(buf)
	return prefix + ":" + hex64(sum[:])
}

// hex64 renders the full 32-byte SHA-256 digest as 64 hex chars. A bulk key
// fans in an unbounded number of descriptor keys (a file can hold many
// packed arrays), so the full digest is kept rather than a truncated prefix
// to keep collision odds negligible as the key-set count grows.
func hex64(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
