package hybrid

import (
	"testing"

	"github.com/ditsuke/cachegate/pkg/cachekey"
)

func TestCache_MemoryOnlyPutGet(t *testing.T) {
	c := New(Config{MaxMemory: 1 << 20, Shards: 1})
	key := cachekey.New("assets", "a.png")
	c.Put(key, []byte("hello"), "image/png")

	entry, ok := c.Get(key)
	if !ok || string(entry.Bytes) != "hello" {
		t.Fatalf("entry = %+v, ok = %v", entry, ok)
	}
}

func TestCache_DiskTierSurvivesMemoryEviction(t *testing.T) {
	dir := t.TempDir()
	c := New(Config{MaxMemory: 16, MaxDisk: 1 << 20, DiskPath: dir, Shards: 1})

	keys := []cachekey.Key{
		cachekey.New("b", "x"),
		cachekey.New("b", "y"),
		cachekey.New("b", "z"),
	}
	for _, k := range keys {
		c.Put(k, []byte("0123456789"), "text/plain")
	}

	// memory tier (16 bytes, one shard) can't hold all three 10-byte
	// entries; disk tier (1MB) can. Every key should still be gettable via
	// disk fallback.
	for _, k := range keys {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %v to be servable from disk after memory eviction", k)
		}
	}
}

func TestCache_DiskZeroCapDegradesToMemoryOnly(t *testing.T) {
	dir := t.TempDir()
	c := New(Config{MaxMemory: 1 << 20, MaxDisk: 0, DiskPath: dir, Shards: 1})

	key := cachekey.New("b", "p")
	c.Put(key, []byte("v"), "")
	if _, ok := c.Get(key); !ok {
		t.Fatal("expected memory hit")
	}
}

func TestCache_Sharding(t *testing.T) {
	c := New(Config{MaxMemory: 1 << 20, Shards: 4})
	for i := 0; i < 20; i++ {
		k := cachekey.New("b", string(rune('a'+i)))
		c.Put(k, []byte("v"), "")
	}
	if got := c.Stats().Entries; got != 20 {
		t.Errorf("Entries = %d, want 20", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(Config{MaxMemory: 1024, Shards: 1})
	if _, ok := c.Get(cachekey.New("b", "missing")); ok {
		t.Error("expected miss")
	}
}
