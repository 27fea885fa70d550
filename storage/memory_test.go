package storage

import (
	"context"
	"io"
	"testing"
)

func TestMemoryStoreNonexistentBeforeWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if ok, err := m.Exists(ctx); err != nil || ok {
		t.Fatalf("Exists() = (%v, %v), want (false, nil)", ok, err)
	}
	if _, err := m.Size(ctx); err == nil {
		t.Fatal("expected error sizing nonexistent store")
	}
	if _, err := m.Map(ctx); err == nil {
		t.Fatal("expected error mapping nonexistent store")
	}
}

func TestMemoryStoreWriteThenRead(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	w, err := m.OpenWrite(ctx)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte(" world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if ok, err := m.Exists(ctx); err != nil || !ok {
		t.Fatalf("Exists() = (%v, %v), want (true, nil)", ok, err)
	}
	size, err := m.Size(ctx)
	if err != nil || size != 11 {
		t.Fatalf("Size() = (%d, %v), want (11, nil)", size, err)
	}

	buf, err := m.Map(ctx)
	if err != nil || string(buf) != "hello world" {
		t.Fatalf("Map() = (%q, %v)", buf, err)
	}

	r, err := m.OpenReadFrom(ctx, 6)
	if err != nil {
		t.Fatalf("OpenReadFrom: %v", err)
	}
	defer r.Close()
	rest, err := io.ReadAll(r)
	if err != nil || string(rest) != "world" {
		t.Fatalf("read = (%q, %v), want (world, nil)", rest, err)
	}
}
