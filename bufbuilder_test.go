package logarray

import (
	"reflect"
	"testing"
)

func TestBufBuilderRoundTrip(t *testing.T) {
	b := NewBufBuilder(5)
	original := []uint64{1, 3, 2, 5, 12, 31, 18}
	b.PushAll(original)
	buf := b.Finalize()

	arr, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := arr.Iter().Collect(); !reflect.DeepEqual(got, original) {
		t.Fatalf("entries = %v, want %v", got, original)
	}
}

func TestBufBuilderPushPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r != "logarray: expected value (8) to fit in 3 bits" {
			t.Fatalf("panic = %v, want value-too-wide message", r)
		}
	}()
	b := NewBufBuilder(3)
	b.Push(8)
}
