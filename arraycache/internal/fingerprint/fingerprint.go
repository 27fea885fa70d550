// Package fingerprint turns an array's logical identity (the file or blob
// it lives in, plus its byte offset within that source) into a short,
// collision-resistant-enough cache key component. It exists separately
// from internal/util's bulk-key hashing because that one hashes the
// cache's own keys with sha256 for bulk-membership fingerprinting, while
// this hashes caller-supplied array locations with xxhash for speed: a
// storage engine may be deriving one of these per array open, on a hot
// path, for thousands of arrays.
package fingerprint

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Of returns a stable key for the array located at byte offset within
// source. Two descriptors for the same (source, offset) always fingerprint
// identically; different offsets within the same source do not collide in
// practice.
func Of(source string, offset int64) string {
	h := xxhash.New()
	_, _ = h.WriteString(source)
	_, _ = h.WriteString("#")
	_, _ = h.WriteString(strconv.FormatInt(offset, 10))
	return strconv.FormatUint(h.Sum64(), 16)
}
