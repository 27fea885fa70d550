package logarray

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/unkn0wn-root/logarray/storage"
)

func TestBuilderGenerateThenParse(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	b, err := NewBuilder(ctx, store, 5)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	original := []uint64{1, 3, 2, 5, 12, 31, 18}
	if err := b.PushAll(original); err != nil {
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

	got := arr.Iter().Collect()
	if !reflect.DeepEqual(got, original) {
		t.Fatalf("entries = %v, want %v", got, original)
	}
}

func TestBuilderPushValueExceedsWidth(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	b, err := NewBuilder(ctx, store, 3)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	err = b.Push(8)
	if err == nil {
		t.Fatal("expected error pushing value that does not fit in 3 bits")
	}
	var e *ErrValueExceedsWidth
	if !errors.As(err, &e) {
		t.Fatalf("got %T, want *ErrValueExceedsWidth", err)
	}
	if e.Value != 8 || e.Width != 3 {
		t.Fatalf("got value=%d width=%d", e.Value, e.Width)
	}
	want := "logarray: expected value (8) to fit in 3 bits"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestBuilderWriting64BitsOfData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	b, err := NewBuilder(ctx, store, 4)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	original := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8}
	if err := b.PushAll(original); err != nil {
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
	if arr.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", arr.Len())
	}
	if arr.Width() != 4 {
		t.Fatalf("Width() = %d, want 4", arr.Width())
	}
	if got := arr.Iter().Collect(); !reflect.DeepEqual(got, original) {
		t.Fatalf("entries = %v, want %v", got, original)
	}
}

func TestBuilderSliceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	b, err := NewBuilder(ctx, store, 5)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	original := []uint64{1, 3, 2, 5, 12, 31, 18}
	if err := b.PushAll(original); err != nil {
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
	slice := arr.Slice(2, 3)
	want := []uint64{2, 5, 12}
	if got := slice.Iter().Collect(); !reflect.DeepEqual(got, want) {
		t.Fatalf("slice entries = %v, want %v", got, want)
	}
}
