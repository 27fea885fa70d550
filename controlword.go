package logarray

import "encoding/binary"

// controlWordSize is the fixed 8-byte size of a control word.
const controlWordSize = 8

// Encode writes the control word for (length, width): bytes 0-3 are the
// low 32 bits of length (big-endian), byte 4 is width, and bytes 5-7 are
// the high 24 bits of length. Byte 4 is written twice deliberately: once
// as the top byte of the big-endian u32 covering bytes 4-7 (carrying the
// length's high bits), then overwritten with width. Decode masks bytes
// 4-7 with 0x00FFFFFF to recover the length's high bits without the width
// byte contaminating them.
func Encode(length uint64, width uint8) ([controlWordSize]byte, error) {
	if length > MaxLength {
		return [controlWordSize]byte{}, &ErrLengthExceedsLimit{Length: length}
	}

	var buf [controlWordSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(length&0xFFFFFFFF))
	binary.BigEndian.PutUint32(buf[4:8], uint32((length>>32)&0xFFFFFF))
	buf[4] = width
	return buf, nil
}

// Decode reads (length, width) from an 8-byte control word. It does not
// validate the result against a buffer size; callers that need that do so
// separately (see validateLengthAndWidth).
func Decode(buf []byte) (length uint64, width uint8) {
	lengthLow := uint64(binary.BigEndian.Uint32(buf[0:4]))
	width = buf[4]
	lengthHigh := uint64(binary.BigEndian.Uint32(buf[4:8]) & 0x00FFFFFF)
	length = (lengthHigh << 32) | lengthLow
	return length, width
}

// dataSizeFor returns the number of data bytes (not counting any control
// word) needed to hold length elements of width bits each, rounded up to
// the next 8-byte word.
func dataSizeFor(length uint64, width uint8) uint64 {
	numBits := length * uint64(width)
	numWords := numBits / 64
	if numBits%64 != 0 {
		numWords++
	}
	return numWords * 8
}

// validateLengthAndWidth checks width <= 64 and that bufSize matches (or,
// when trailingAllowed, is at least) the data size implied by (length,
// width) plus the 8-byte control word.
func validateLengthAndWidth(bufSize int, length uint64, width uint8, trailingAllowed bool) error {
	if width > 64 {
		return &ErrWidthTooLarge{Width: width}
	}

	expected := dataSizeFor(length, width) + controlWordSize
	actual := uint64(bufSize)

	if trailingAllowed {
		if actual < expected {
			return &ErrUnexpectedInputBufferSize{Actual: actual, Expected: expected, Length: length, Width: width}
		}
		return nil
	}
	if actual != expected {
		return &ErrUnexpectedInputBufferSize{Actual: actual, Expected: expected, Length: length, Width: width}
	}
	return nil
}
