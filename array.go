package logarray

import "fmt"

// PackedArray is an immutable, cheaply cloneable view over a shared byte
// buffer holding a sequence of width-bit elements. The zero value is not
// useful; construct one with Parse or ParseHeaderFirst, or derive one with
// Slice.
//
// A PackedArray never copies its buffer: Slice shares the same backing
// array, and because Go slices of an immutable buffer are safe to read
// concurrently, PackedArray needs no explicit reference counting — the
// buffer stays alive for as long as any PackedArray (or slice of one)
// referencing it does.
type PackedArray struct {
	first  uint64
	length uint64
	width  uint8
	buf    []byte
}

// Parse builds a PackedArray by reading the trailer control word from the
// last 8 bytes of buf and validating it against len(buf).
func Parse(buf []byte) (PackedArray, error) {
	if len(buf) < controlWordSize {
		return PackedArray{}, &ErrInputBufferTooSmall{Size: len(buf)}
	}
	length, width := Decode(buf[len(buf)-controlWordSize:])
	if err := validateLengthAndWidth(len(buf), length, width, false); err != nil {
		return PackedArray{}, err
	}
	return PackedArray{length: length, width: width, buf: buf}, nil
}

// ParseHeaderFirst builds a PackedArray by reading the control word from
// the first 8 bytes of buf. It returns the constructed array and whatever
// bytes of buf follow the array's data segment, so callers can keep
// slicing further header-first structures out of the remainder.
func ParseHeaderFirst(buf []byte) (PackedArray, []byte, error) {
	if len(buf) < controlWordSize {
		return PackedArray{}, nil, &ErrInputBufferTooSmall{Size: len(buf)}
	}
	length, width := Decode(buf[:controlWordSize])
	if err := validateLengthAndWidth(len(buf), length, width, true); err != nil {
		return PackedArray{}, nil, err
	}
	dataSize := dataSizeFor(length, width)
	data := buf[controlWordSize : uint64(controlWordSize)+dataSize]
	rest := buf[uint64(controlWordSize)+dataSize:]
	return PackedArray{length: length, width: width, buf: data}, rest, nil
}

// Len returns the number of elements.
func (a PackedArray) Len() int { return int(a.length) }

// IsEmpty reports whether the array has no elements.
func (a PackedArray) IsEmpty() bool { return a.length == 0 }

// Width returns the bit width of each element.
func (a PackedArray) Width() uint8 { return a.width }

// Entry returns the element at index i. It panics if i is out of range;
// this is a programming error, not a recoverable data-shape error.
func (a PackedArray) Entry(i int) uint64 {
	if i < 0 || uint64(i) >= a.length {
		panic(errIndexOutOfRange(i, a.length))
	}
	return entryAt(a.buf, a.first, a.width, uint64(i))
}

// Iter returns a restartable iterator over the array's elements.
func (a PackedArray) Iter() *Iterator {
	return &Iterator{array: a, end: a.length}
}

// Slice returns a view of the off..off+n elements of a, sharing a's
// backing buffer. It panics if off+n exceeds a's length.
func (a PackedArray) Slice(off, n int) PackedArray {
	if off < 0 || n < 0 {
		panic(errSliceOutOfRange(off, n, a.length))
	}
	offset, length := uint64(off), uint64(n)
	end := offset + length
	if end < offset || end > a.length { // end < offset catches overflow
		panic(errSliceOutOfRange(off, n, a.length))
	}
	return PackedArray{first: a.first + offset, length: length, width: a.width, buf: a.buf}
}

func errIndexOutOfRange(i int, length uint64) string {
	return fmt.Sprintf("logarray: expected index (%d) < length (%d)", i, length)
}

func errSliceOutOfRange(off, n int, length uint64) string {
	return fmt.Sprintf("logarray: expected slice offset (%d) + length (%d) <= source length (%d)", off, n, length)
}
