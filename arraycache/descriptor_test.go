package arraycache

import (
	"context"
	"testing"

	c "github.com/unkn0wn-root/logarray/arraycache/codec"
)

func TestDescriptorCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	codec, err := c.NewCBOR[Descriptor](false)
	if err != nil {
		t.Fatalf("NewCBOR: %v", err)
	}

	cache, err := NewDescriptorCache(Options[Descriptor]{
		Namespace: "logarray",
		Provider:  mp,
		Codec:     codec,
	})
	if err != nil {
		t.Fatalf("NewDescriptorCache: %v", err)
	}
	defer cache.Close(ctx)

	key := DescriptorKey("/data/adjacency.lar", 4096)
	d := Descriptor{Length: 31, Width: 5, DataOffset: 4104, DataSize: 24}

	obs := cache.SnapshotGen(key)
	if err := cache.SetWithGen(ctx, key, d, obs, 0); err != nil {
		t.Fatalf("SetWithGen: %v", err)
	}

	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != d {
		t.Fatalf("got %+v, want %+v", got, d)
	}
}

func TestDescriptorKeyStable(t *testing.T) {
	a := DescriptorKey("/data/adjacency.lar", 4096)
	b := DescriptorKey("/data/adjacency.lar", 4096)
	if a != b {
		t.Fatalf("DescriptorKey not stable: %q vs %q", a, b)
	}
	if c := DescriptorKey("/data/adjacency.lar", 8192); c == a {
		t.Fatalf("DescriptorKey collided across offsets: %q", c)
	}
}
