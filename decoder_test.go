package logarray

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestDecodeSingleElement(t *testing.T) {
	d := NewDecoder(bytes.NewReader(test0Data[:]), 17, 1)
	v, ok, err := d.Next()
	if err != nil || !ok || v != 1 {
		t.Fatalf("Next() = (%d, %v, %v), want (1, true, nil)", v, ok, err)
	}
	v, ok, err = d.Next()
	if err != nil || ok {
		t.Fatalf("Next() = (%d, %v, %v), want (_, false, nil)", v, ok, err)
	}
}

func TestDecodeAcrossWordBoundary(t *testing.T) {
	r := io.MultiReader(bytes.NewReader(test0Data[:]), bytes.NewReader(test1Data[:]))
	d := NewDecoder(r, 17, 4)

	want := []uint64{1, 2, 3, 4}
	for i, w := range want {
		v, ok, err := d.Next()
		if err != nil || !ok || v != w {
			t.Fatalf("Next() #%d = (%d, %v, %v), want (%d, true, nil)", i, v, ok, err, w)
		}
	}
	if _, ok, err := d.Next(); err != nil || ok {
		t.Fatalf("expected exhausted decoder, got ok=%v err=%v", ok, err)
	}
}

func TestDecodeMatchesIterator(t *testing.T) {
	arr := test0Array(t)
	buf := append(append([]byte{}, test0Data[:]...), test0Control[:]...)
	d := NewDecoder(bytes.NewReader(buf[:8]), arr.Width(), uint64(arr.Len()))

	var got []uint64
	for {
		v, ok, err := d.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := arr.Iter().Collect()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDecodeAllChannel(t *testing.T) {
	d := NewDecoder(bytes.NewReader(test0Data[:]), 17, 3)
	ch := DecodeAll(context.Background(), d)

	var got []uint64
	for e := range ch {
		if e.Err != nil {
			t.Fatalf("unexpected error: %v", e.Err)
		}
		got = append(got, e.Value)
	}
	want := []uint64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
