package logarray

import (
	"reflect"
	"testing"
)

var test0Data = [8]byte{
	0b00000000,
	0b00000000,
	0b1_0000000,
	0b00000000,
	0b10_000000,
	0b00000000,
	0b011_00000,
	0b00000000,
}

var test0Control = [8]byte{0, 0, 0, 3, 17, 0, 0, 0}

var test1Data = [8]byte{
	0b0100_0000,
	0b00000000,
	0b00101_000,
	0b00000000,
	0b000110_00,
	0b00000000,
	0b0000111_0,
	0b00000000,
}

func test0Array(t *testing.T) PackedArray {
	t.Helper()
	buf := append(append([]byte{}, test0Data[:]...), test0Control[:]...)
	arr, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return arr
}

func TestParseEmpty(t *testing.T) {
	arr, err := Parse(make([]byte, 8))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !arr.IsEmpty() {
		t.Fatal("expected empty array")
	}
}

func TestEntry(t *testing.T) {
	arr := test0Array(t)
	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	if arr.Width() != 17 {
		t.Fatalf("Width() = %d, want 17", arr.Width())
	}
	got := []uint64{arr.Entry(0), arr.Entry(1), arr.Entry(2)}
	want := []uint64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
}

func TestEntryPanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if r != "logarray: expected index (3) < length (3)" {
			t.Fatalf("panic message = %q", r)
		}
	}()
	test0Array(t).Entry(3)
}

func TestSlicePanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if r != "logarray: expected slice offset (2) + length (2) <= source length (3)" {
			t.Fatalf("panic message = %q", r)
		}
	}()
	test0Array(t).Slice(2, 2)
}

func TestSliceEntryPanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if r != "logarray: expected index (2) < length (2)" {
			t.Fatalf("panic message = %q", r)
		}
	}()
	test0Array(t).Slice(1, 2).Entry(2)
}

func TestIterCollect(t *testing.T) {
	arr := test0Array(t)
	got := arr.Iter().Collect()
	want := []uint64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect() = %v, want %v", got, want)
	}
}

func TestParseHeaderFirst(t *testing.T) {
	buf := append(append(append([]byte{}, test0Control[:]...), test0Data[:]...), test1Data[:]...)
	arr, rest, err := ParseHeaderFirst(buf)
	if err != nil {
		t.Fatalf("ParseHeaderFirst: %v", err)
	}
	if got := arr.Iter().Collect(); !reflect.DeepEqual(got, []uint64{1, 2, 3}) {
		t.Fatalf("entries = %v", got)
	}
	if !reflect.DeepEqual(rest, test1Data[:]) {
		t.Fatalf("rest = %v, want test1Data", rest)
	}
}
