// Package logarray implements a packed-integer array: a sequence of N
// unsigned integers in which every element occupies exactly W bits, W being
// the minimum width needed to hold the largest value in the sequence.
// Choosing W per-array rather than rounding up to a byte/word boundary keeps
// large sorted or semi-sorted integer sequences (offsets, adjacency lists,
// dictionary code points) small while only adding a few bit-shift
// instructions to the cost of a random-access read.
//
// # Layout
//
// The on-disk/in-memory representation is a sequence of 8-byte big-endian
// words. In trailer form, the first L words hold the data (element i's most
// significant bit lives at bit (W*i) mod 64 of word (W*i)/64) and the final
// word is the control word: bytes 0-3 are the low 32 bits of the element
// count N, byte 4 is W, and bytes 5-7 (read together with byte 4 as a
// big-endian u32 masked to 24 bits) are the high bits of N. Header-first
// form puts the control word first and hands the caller back any bytes past
// the data segment, so multiple packed arrays can be concatenated into one
// buffer without a separate index.
//
// # Components
//
//   - PackedArray: immutable, cheaply cloneable view over a shared byte
//     buffer. Supports indexed access, iteration, and zero-copy slicing.
//   - Builder: accumulates values of a known bit width into a storage.Sink,
//     word by word.
//   - LateBuilder: accumulates values of unknown width, computing the
//     minimum width at Finalize and packing with BufBuilder.
//   - Decoder: pull-based streaming decode; produces the same sequence as
//     PackedArray.Iter without materializing the whole buffer.
//   - MonotonicArray: a PackedArray known to be non-decreasing, adding
//     binary search by value.
//
// None of the above know how bytes reach storage; storage.Loader and
// storage.Sink are the minimal capabilities this package consumes, so any
// backend (in-memory, local file, something else entirely) can supply them.
package logarray
