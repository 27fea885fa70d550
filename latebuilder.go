package logarray

import (
	"context"

	"github.com/unkn0wn-root/logarray/storage"
)

// LateBuilder accumulates values whose width isn't known up front: it
// buffers every pushed value in memory and computes the minimum width that
// fits all of them (0 for an all-zero sequence) once Finalize or
// FinalizeHeaderFirst is called, then packs them with a BufBuilder before
// handing the finished buffer to storage in one write.
//
// Because it holds every value until finalization, LateBuilder trades the
// Builder's constant memory use for not having to know the width ahead of
// time. Push itself never fails or panics: the width is always widened to
// fit whatever has been pushed, so the eventual BufBuilder pack can never
// find a value that doesn't fit.
type LateBuilder struct {
	sink  storage.Sink
	vals  []uint64
	width uint8
}

// NewLateBuilder returns a LateBuilder that will eventually write to sink.
func NewLateBuilder(sink storage.Sink) *LateBuilder {
	return &LateBuilder{sink: sink}
}

// Count returns the number of values pushed so far.
func (lb *LateBuilder) Count() uint64 { return uint64(len(lb.vals)) }

// Push appends val, widening the eventual element width if needed.
func (lb *LateBuilder) Push(val uint64) {
	lb.vals = append(lb.vals, val)
	if w := calculateWidth(val); w > lb.width {
		lb.width = w
	}
}

// PushAll pushes every value of vals in order.
func (lb *LateBuilder) PushAll(vals []uint64) {
	for _, v := range vals {
		lb.Push(v)
	}
}

// Last returns the most recently pushed value, or (0, false) if empty.
func (lb *LateBuilder) Last() (uint64, bool) {
	if len(lb.vals) == 0 {
		return 0, false
	}
	return lb.vals[len(lb.vals)-1], true
}

// Pop removes and returns the most recently pushed value, or (0, false) if
// empty. Popping never narrows the width already computed from earlier
// pushes, matching the original builder's behavior of only ever widening.
func (lb *LateBuilder) Pop() (uint64, bool) {
	if len(lb.vals) == 0 {
		return 0, false
	}
	v := lb.vals[len(lb.vals)-1]
	lb.vals = lb.vals[:len(lb.vals)-1]
	return v, true
}

// Finalize packs the trailer-form array (data words followed by the
// control word) and writes it to the sink in a single write.
func (lb *LateBuilder) Finalize(ctx context.Context) error {
	if _, err := Encode(lb.Count(), lb.width); err != nil {
		return err
	}
	bb := NewBufBuilder(lb.width)
	bb.PushAll(lb.vals)
	return lb.writeOut(ctx, bb.Finalize())
}

// FinalizeHeaderFirst packs the header-first form (control word, then data
// words, no trailer) and writes it to the sink in a single write.
func (lb *LateBuilder) FinalizeHeaderFirst(ctx context.Context) error {
	cw, err := Encode(lb.Count(), lb.width)
	if err != nil {
		return err
	}
	bb := NewBufBuilder(lb.width)
	bb.PushAll(lb.vals)
	data := bb.FinalizeWithoutControlWord()

	out := make([]byte, 0, len(cw)+len(data))
	out = append(out, cw[:]...)
	out = append(out, data...)
	return lb.writeOut(ctx, out)
}

func (lb *LateBuilder) writeOut(ctx context.Context, buf []byte) error {
	w, err := lb.sink.OpenWrite(ctx)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.Sync(); err != nil {
		return err
	}
	return w.Close()
}
