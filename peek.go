package logarray

import (
	"context"
	"io"

	"github.com/unkn0wn-root/logarray/storage"
)

// PeekLengthAndWidth reads the trailer control word from l without loading
// the rest of the array, returning the element count and bit width. Pair
// it with NewDecoder to stream an array's elements without ever holding
// the whole thing in memory.
func PeekLengthAndWidth(ctx context.Context, l storage.Loader) (length uint64, width uint8, err error) {
	size, err := l.Size(ctx)
	if err != nil {
		return 0, 0, err
	}
	if size < controlWordSize {
		return 0, 0, &ErrInputBufferTooSmall{Size: int(size)}
	}

	r, err := l.OpenReadFrom(ctx, size-controlWordSize)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	var buf [controlWordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, err
	}

	length, width = Decode(buf[:])
	if err := validateLengthAndWidth(int(size), length, width, false); err != nil {
		return 0, 0, err
	}
	return length, width, nil
}

// OpenDecoder is a convenience that peeks l's control word and opens a
// Decoder over its data segment, ready to stream from the first element.
// The returned Decoder's Close method closes the underlying stream.
func OpenDecoder(ctx context.Context, l storage.Loader) (*Decoder, error) {
	length, width, err := PeekLengthAndWidth(ctx, l)
	if err != nil {
		return nil, err
	}
	r, err := l.OpenReadFrom(ctx, 0)
	if err != nil {
		return nil, err
	}
	return NewDecoder(r, width, length), nil
}
