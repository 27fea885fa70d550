// Package arraycache is a read-through, CAS-safe cache of array
// descriptors: the (length, width, data offset, data size) a storage
// engine needs to open a logarray.Decoder or reconstruct a
// logarray.PackedArray over one of many packed arrays living in its
// files, without re-running control-word parsing and validation on every
// lookup.
//
// A packed array's own Parse/ParseHeaderFirst is already O(1) — there is
// no loop to memoize. What this cache saves is the I/O: peeking a control
// word means opening a reader and reading 8 bytes from a possibly-remote
// backend. An engine holding thousands of arrays across many files wants
// that cost paid once per (file, array) pair, not once per access — hence
// a cache keyed by logical array identity (for example
// "<file-path>#<header-offset>") rather than by array contents.
//
// Safety comes from per-key generations, same as the cache's original
// CAS design: if the file backing a descriptor is rewritten (say, the
// engine rebuilds the array at a new offset), its generation is bumped,
// and any descriptor cached under the old generation is invalidated on
// next read rather than served stale.
//
// Components:
//   - Descriptor: the cached value type.
//   - Provider: byte store with TTL (Ristretto, BigCache, Redis).
//   - Codec[Descriptor]: (de)serializes Descriptor <-> []byte.
//   - GenStore: generation counter per logical key. Local (in-process) by
//     default, optional Redis implementation for multi-replica / restart
//     persistence.
//
// Keys:
//
//	single:<ns>:<key>  - single descriptor entries
//	bulk:<ns>:<hash>   - set-shaped entries (hash over sorted keys, see
//	                     internal/util)
//
// CAS pattern:
//
//	obs := cache.SnapshotGen(k)               // before re-deriving a descriptor
//	d   := deriveDescriptor(k)                // re-peek the control word
//	_   = cache.SetWithGen(ctx, k, d, obs, 0)  // write iff current gen == obs
package arraycache
