package logarray

import "testing"

func TestControlWordRoundTrip(t *testing.T) {
	cw, err := Encode(0xFF_FFFF_FFFF_FFFF, 32)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := [8]byte{255, 255, 255, 255, 32, 255, 255, 255}
	if cw != want {
		t.Fatalf("control word = %v, want %v", cw, want)
	}

	length, width := Decode(cw[:])
	if length != 0xFF_FFFF_FFFF_FFFF || width != 32 {
		t.Fatalf("decode = (%d, %d), want (%d, %d)", length, width, uint64(0xFF_FFFF_FFFF_FFFF), uint8(32))
	}
}

func TestEncodeControlWordLengthTooLarge(t *testing.T) {
	_, err := Encode(MaxLength+1, 1)
	if err == nil {
		t.Fatal("expected error for length over MaxLength")
	}
	if _, ok := err.(*ErrLengthExceedsLimit); !ok {
		t.Fatalf("got %T, want *ErrLengthExceedsLimit", err)
	}
}

func TestDataSizeFor(t *testing.T) {
	cases := []struct {
		length uint64
		width  uint8
		want   uint64
	}{
		{0, 17, 0},
		{1, 0, 0},
		{1, 64, 8},
		{3, 17, 8},
		{4, 17, 16},
	}
	for _, c := range cases {
		got := dataSizeFor(c.length, c.width)
		if got != c.want {
			t.Errorf("dataSizeFor(%d, %d) = %d, want %d", c.length, c.width, got, c.want)
		}
	}
}

func TestValidateLengthAndWidth(t *testing.T) {
	if err := validateLengthAndWidth(8, 1, 17, false); err == nil {
		t.Fatal("expected UnexpectedInputBufferSize error")
	} else if e, ok := err.(*ErrUnexpectedInputBufferSize); !ok {
		t.Fatalf("got %T, want *ErrUnexpectedInputBufferSize", err)
	} else if e.Actual != 8 || e.Expected != 16 {
		t.Fatalf("got actual=%d expected=%d, want 8/16", e.Actual, e.Expected)
	}

	if err := validateLengthAndWidth(8, 0, 65, false); err == nil {
		t.Fatal("expected WidthTooLarge error")
	} else if _, ok := err.(*ErrWidthTooLarge); !ok {
		t.Fatalf("got %T, want *ErrWidthTooLarge", err)
	}

	if err := validateLengthAndWidth(8, 0, 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
