package logarray

import (
	"context"
	"testing"

	"github.com/unkn0wn-root/logarray/storage"
)

func buildMonotonic(t *testing.T, vals []uint64, width uint8) MonotonicArray {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	b, err := NewBuilder(ctx, store, width)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.PushAll(vals); err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	content, err := store.Map(ctx)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	arr, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewMonotonicArray(arr)
}

func TestMonotonicIndexOf(t *testing.T) {
	original := []uint64{1, 3, 5, 6, 7, 10, 11, 15, 16, 18, 20, 25, 31}
	m := buildMonotonic(t, original, 5)

	for i, v := range original {
		idx, ok := m.IndexOf(v)
		if !ok || idx != i {
			t.Fatalf("IndexOf(%d) = (%d, %v), want (%d, true)", v, idx, ok, i)
		}
	}
	if _, ok := m.IndexOf(12); ok {
		t.Fatal("expected IndexOf(12) to report not found")
	}
	if m.Len() != len(original) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(original))
	}
}

func TestMonotonicNearestIndexOf(t *testing.T) {
	original := []uint64{3, 5, 6, 7, 10, 11, 15, 16, 18, 20, 25, 31}
	m := buildMonotonic(t, original, 5)

	for i, v := range original {
		idx, ok := m.IndexOf(v)
		if !ok || idx != i {
			t.Fatalf("IndexOf(%d) = (%d, %v), want (%d, true)", v, idx, ok, i)
		}
	}

	want := []int{0, 0, 0, 1, 1, 2, 3, 4, 4, 4, 5, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 10, 10, 10, 10, 11, 11, 11, 11, 11, 11, 12}
	for i := 1; i <= 32; i++ {
		got := m.NearestIndexOf(uint64(i))
		if got != want[i-1] {
			t.Errorf("NearestIndexOf(%d) = %d, want %d", i, got, want[i-1])
		}
	}
}

func TestMonotonicCheckedRejectsDecrease(t *testing.T) {
	buf := []byte{0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0, 2, 32, 0, 0, 0}
	arr, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = NewMonotonicArrayChecked(arr)
	if err == nil {
		t.Fatal("expected not-monotonic error")
	}
	e, ok := err.(*ErrNotMonotonic)
	if !ok {
		t.Fatalf("got %T, want *ErrNotMonotonic", err)
	}
	if e.Predecessor != 2 || e.Successor != 1 {
		t.Fatalf("got pred=%d succ=%d, want 2/1", e.Predecessor, e.Successor)
	}
}
