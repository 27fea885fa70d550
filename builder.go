package logarray

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/unkn0wn-root/logarray/storage"
)

// calculateWidth returns the minimum number of bits needed to hold val: 0
// for val == 0 (an all-zero column needs no storage), otherwise
// 64-LeadingZeros64(val).
func calculateWidth(val uint64) uint8 {
	return uint8(64 - bits.LeadingZeros64(val))
}

// BufBuilder packs values of a known bit width directly into an in-memory
// byte slice, word by word. Unlike Builder, which writes to external
// storage and so reports a badly-fitting value as a recoverable error,
// BufBuilder panics: a value that does not fit the configured width here
// is always a programming error, because the width is either a caller-
// supplied constant or (via LateBuilder) computed from the very values
// being pushed.
type BufBuilder struct {
	buf     []byte
	width   uint8
	current uint64
	offset  uint8
	count   uint64
}

// NewBufBuilder returns a BufBuilder that packs values into width-bit
// elements.
func NewBufBuilder(width uint8) *BufBuilder {
	return &BufBuilder{width: width}
}

// Count returns the number of values pushed so far.
func (b *BufBuilder) Count() uint64 { return b.count }

// Push appends val, panicking if it does not fit in the builder's width.
func (b *BufBuilder) Push(val uint64) {
	leadingZeros := 64 - b.width
	if uint8(bits.LeadingZeros64(val)) < leadingZeros {
		panic(fmt.Sprintf("logarray: expected value (%d) to fit in %d bits", val, b.width))
	}

	b.count++
	b.current |= val << leadingZeros >> b.offset
	b.offset += b.width

	if b.offset >= 64 {
		b.writeWord(b.current)
		b.offset -= 64
		if b.offset == 0 {
			b.current = 0
		} else {
			b.current = val << (64 - b.offset)
		}
	}
}

// PushAll pushes every value of vals in order.
func (b *BufBuilder) PushAll(vals []uint64) {
	for _, v := range vals {
		b.Push(v)
	}
}

func (b *BufBuilder) writeWord(word uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], word)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *BufBuilder) finalizeData() {
	if b.count*uint64(b.width)&0b11_1111 != 0 {
		b.writeWord(b.current)
	}
}

// Finalize returns the trailer-form buffer: data words followed by the
// control word.
func (b *BufBuilder) Finalize() []byte {
	b.finalizeData()
	cw, err := Encode(b.count, b.width)
	if err != nil {
		panic(err)
	}
	return append(b.buf, cw[:]...)
}

// FinalizeWithoutControlWord returns just the data words, for callers (like
// LateBuilder.FinalizeHeaderFirst) that write their own control word ahead
// of the data.
func (b *BufBuilder) FinalizeWithoutControlWord() []byte {
	b.finalizeData()
	return b.buf
}

// Builder accumulates values of a known bit width, word by word, directly
// into a storage.Sink. Construct one with NewBuilder; call Push for each
// value in order, then Finalize exactly once.
//
// Builder buffers at most one 64-bit word at a time: it never holds the
// whole array in memory, which is the point of writing directly to a
// storage.Sink instead of packing into a byte slice with BufBuilder.
type Builder struct {
	w       storage.SyncWriter
	width   uint8
	current uint64
	offset  uint8
	count   uint64
}

// NewBuilder opens sink for writing and returns a Builder that will pack
// values into width-bit elements.
func NewBuilder(ctx context.Context, sink storage.Sink, width uint8) (*Builder, error) {
	w, err := sink.OpenWrite(ctx)
	if err != nil {
		return nil, err
	}
	return &Builder{w: w, width: width}, nil
}

// Count returns the number of values pushed so far.
func (b *Builder) Count() uint64 { return b.count }

// Push appends val, which must fit in the builder's width. Unlike
// BufBuilder.Push, a storage-backed Builder reports a bad fit as a
// recoverable error (wrapped with github.com/pkg/errors for a stack trace,
// for historical reasons) rather than panicking, since the value reaching
// here may have come from outside the process.
func (b *Builder) Push(val uint64) error {
	leadingZeros := 64 - b.width
	if uint8(bits.LeadingZeros64(val)) < leadingZeros {
		return errors.WithStack(&ErrValueExceedsWidth{Value: val, Width: b.width})
	}

	b.count++
	b.current |= val << leadingZeros >> b.offset
	b.offset += b.width

	if b.offset >= 64 {
		if err := b.writeWord(b.current); err != nil {
			return err
		}
		b.offset -= 64
		if b.offset == 0 {
			b.current = 0
		} else {
			b.current = val << (64 - b.offset)
		}
	}
	return nil
}

// PushAll pushes every value of vals in order, stopping at the first error.
func (b *Builder) PushAll(vals []uint64) error {
	for _, v := range vals {
		if err := b.Push(v); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) writeWord(word uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], word)
	_, err := b.w.Write(buf[:])
	return errors.Wrap(err, "write logarray word")
}

func (b *Builder) finalizeData() error {
	if b.count*uint64(b.width)&0b11_1111 != 0 {
		return b.writeWord(b.current)
	}
	return nil
}

// Finalize writes any partial final word followed by the trailer control
// word, flushes, syncs, and closes. The builder must not be used
// afterward.
func (b *Builder) Finalize() error {
	if err := b.finalizeData(); err != nil {
		return err
	}
	cw, err := Encode(b.count, b.width)
	if err != nil {
		return err
	}
	if _, err := b.w.Write(cw[:]); err != nil {
		return errors.Wrap(err, "write logarray control word")
	}
	return b.syncAndClose()
}

// FinalizeWithoutControlWord writes any partial final word but no control
// word, flushes, syncs, and closes. Used by LateBuilder's header-first
// finalize path, which writes the control word itself before the data so
// it can be read without scanning to the end of the buffer.
func (b *Builder) FinalizeWithoutControlWord() error {
	if err := b.finalizeData(); err != nil {
		return err
	}
	return b.syncAndClose()
}

func (b *Builder) syncAndClose() error {
	if err := b.w.Flush(); err != nil {
		return errors.Wrap(err, "flush logarray builder")
	}
	if err := b.w.Sync(); err != nil {
		return errors.Wrap(err, "sync logarray builder")
	}
	return errors.Wrap(b.w.Close(), "close logarray builder")
}
