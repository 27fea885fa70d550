package logarray

import (
	"context"
	"reflect"
	"testing"

	"github.com/unkn0wn-root/logarray/storage"
)

func TestLateBuilderJustZero(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	lb := NewLateBuilder(store)
	lb.Push(0)
	if err := lb.Finalize(ctx); err != nil {
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
	if got := arr.Entry(0); got != 0 {
		t.Fatalf("Entry(0) = %d, want 0", got)
	}
}

func TestLateBuilderComputesWidth(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	lb := NewLateBuilder(store)
	original := []uint64{1, 3, 2, 5, 12, 31, 18}
	lb.PushAll(original)
	if lb.Count() != uint64(len(original)) {
		t.Fatalf("Count() = %d, want %d", lb.Count(), len(original))
	}
	if err := lb.Finalize(ctx); err != nil {
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
	if arr.Width() != 5 { // max value 31 needs 5 bits
		t.Fatalf("Width() = %d, want 5", arr.Width())
	}
	if got := arr.Iter().Collect(); !reflect.DeepEqual(got, original) {
		t.Fatalf("entries = %v, want %v", got, original)
	}
}

func TestLateBuilderLastAndPop(t *testing.T) {
	store := storage.NewMemoryStore()
	lb := NewLateBuilder(store)
	if _, ok := lb.Last(); ok {
		t.Fatal("expected Last() to report false on empty builder")
	}
	lb.Push(7)
	lb.Push(9)
	if v, ok := lb.Last(); !ok || v != 9 {
		t.Fatalf("Last() = (%d, %v), want (9, true)", v, ok)
	}
	if v, ok := lb.Pop(); !ok || v != 9 {
		t.Fatalf("Pop() = (%d, %v), want (9, true)", v, ok)
	}
	if lb.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", lb.Count())
	}
}

func TestLateBuilderFinalizeHeaderFirst(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	lb := NewLateBuilder(store)
	original := []uint64{1, 3, 2, 5, 12, 31, 18}
	lb.PushAll(original)
	if err := lb.FinalizeHeaderFirst(ctx); err != nil {
		t.Fatalf("FinalizeHeaderFirst: %v", err)
	}

	content, err := store.Map(ctx)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	arr, rest, err := ParseHeaderFirst(content)
	if err != nil {
		t.Fatalf("ParseHeaderFirst: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %v, want empty", rest)
	}
	if got := arr.Iter().Collect(); !reflect.DeepEqual(got, original) {
		t.Fatalf("entries = %v, want %v", got, original)
	}
}
