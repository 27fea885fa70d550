package logarray

import "encoding/binary"

// entryAt reads the width-bit element at logical index (first+index) out of
// buf. Precondition: the element fits entirely within buf (callers validate
// length beforehand). All shifts here are logical (Go's uint64 shifts
// always are); a signed shift would corrupt the top bit of 64-bit-wide
// elements.
func entryAt(buf []byte, first uint64, width uint8, index uint64) uint64 {
	bitIndex := uint64(width) * (first + index)
	byteIndex := (bitIndex / 64) * 8
	offset := uint8(bitIndex % 64)

	firstWord := binary.BigEndian.Uint64(buf[byteIndex:])
	leadingZeros := 64 - width

	if offset+width <= 64 {
		return firstWord << offset >> leadingZeros
	}

	secondWord := binary.BigEndian.Uint64(buf[byteIndex+8:])
	firstWidth := 64 - offset
	secondWidth := width - firstWidth

	firstPart := firstWord << offset >> offset << secondWidth
	secondPart := secondWord >> (64 - secondWidth)
	return firstPart | secondPart
}
