package logarray

import (
	"context"
	"encoding/binary"
	"io"
)

// Decoder pulls elements one at a time from an io.Reader containing packed
// array data (no control word), without ever materializing the whole
// buffer. It produces exactly the sequence PackedArray.Iter would produce
// over the same data, given the same (width, length).
//
// A Decoder reads a second 64-bit word lazily, only when an element
// straddles a word boundary, so it never reads more than one word ahead of
// what it has returned.
type Decoder struct {
	r         io.Reader
	current   uint64
	width     uint8
	offset    uint8
	remaining uint64
}

// NewDecoder returns a Decoder that will read exactly length width-bit
// elements from r. Unlike Parse, it does not validate width or length
// against the size of anything; the caller is expected to have obtained
// both from a trusted control word (see PeekLengthAndWidth).
func NewDecoder(r io.Reader, width uint8, length uint64) *Decoder {
	return &Decoder{r: r, offset: 64, width: width, remaining: length}
}

// Close closes the underlying reader, if it implements io.Closer. It is a
// no-op otherwise.
func (d *Decoder) Close() error {
	if c, ok := d.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Next returns the next decoded element. The returned bool is false once
// every element has been produced, in which case err is nil; err is
// non-nil only if reading the underlying stream failed before remaining
// reached zero.
func (d *Decoder) Next() (uint64, bool, error) {
	if d.remaining == 0 {
		return 0, false, nil
	}

	firstWord := d.current
	offset := d.offset
	width := d.width
	leadingZeros := 64 - width

	if offset+width <= 64 {
		d.offset += width
		d.remaining--
		return firstWord << offset >> leadingZeros, true, nil
	}

	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, false, err
	}
	secondWord := binary.BigEndian.Uint64(buf[:])
	d.current = secondWord
	d.remaining--

	if offset == 64 {
		d.offset = width
		return secondWord >> leadingZeros, true, nil
	}

	firstWidth := 64 - offset
	secondWidth := width - firstWidth
	firstPart := firstWord << offset >> offset << secondWidth
	secondPart := secondWord >> (64 - secondWidth)
	d.offset = secondWidth
	return firstPart | secondPart, true, nil
}

// Entry is one value pulled from a Decoder by DecodeAll, paired with any
// error that terminated decoding early.
type Entry struct {
	Value uint64
	Err   error
}

// DecodeAll drains d on a background goroutine, sending each decoded value
// (or a single terminal error) on the returned channel. The channel is
// closed after the error, if any, or after the last value. Canceling ctx
// stops the goroutine after its next Next call and closes the channel
// without sending a final error.
func DecodeAll(ctx context.Context, d *Decoder) <-chan Entry {
	out := make(chan Entry)
	go func() {
		defer close(out)
		for {
			v, ok, err := d.Next()
			if err != nil {
				select {
				case out <- Entry{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if !ok {
				return
			}
			select {
			case out <- Entry{Value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
