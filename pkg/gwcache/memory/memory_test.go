package memory

import (
	"testing"

	"github.com/ditsuke/cachegate/pkg/cachekey"
)

func TestCache_PutGet(t *testing.T) {
	c := New(1024)
	key := cachekey.New("assets", "a.png")
	c.Put(key, []byte("hello"), "image/png")

	entry, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit")
	}
	if string(entry.Bytes) != "hello" || entry.ContentType != "image/png" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(1024)
	if _, ok := c.Get(cachekey.New("assets", "missing")); ok {
		t.Error("expected miss")
	}
}

func TestCache_RejectsOversizedEntry(t *testing.T) {
	c := New(4)
	c.Put(cachekey.New("b", "p"), []byte("too-big"), "")
	if _, ok := c.Get(cachekey.New("b", "p")); ok {
		t.Error("oversized entry should not be admitted")
	}
	if got := c.Stats().Entries; got != 0 {
		t.Errorf("Entries = %d, want 0", got)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(10) // holds at most two 5-byte entries
	a := cachekey.New("b", "a")
	bKey := cachekey.New("b", "b")
	cKey := cachekey.New("b", "c")

	c.Put(a, []byte("aaaaa"), "")
	c.Put(bKey, []byte("bbbbb"), "")

	// touch a so it becomes most-recently-used
	if _, ok := c.Get(a); !ok {
		t.Fatal("expected hit on a")
	}

	c.Put(cKey, []byte("ccccc"), "") // should evict b, not a

	if _, ok := c.Get(bKey); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get(a); !ok {
		t.Error("a should still be resident")
	}
	if _, ok := c.Get(cKey); !ok {
		t.Error("c should be resident")
	}
}

func TestCache_PutOverwritesExisting(t *testing.T) {
	c := New(1024)
	key := cachekey.New("b", "p")
	c.Put(key, []byte("v1"), "text/plain")
	c.Put(key, []byte("v2-longer"), "text/plain")

	entry, ok := c.Get(key)
	if !ok || string(entry.Bytes) != "v2-longer" {
		t.Errorf("entry = %+v, ok = %v", entry, ok)
	}
	if got := c.Stats().Entries; got != 1 {
		t.Errorf("Entries = %d, want 1", got)
	}
}

func TestCache_Stats(t *testing.T) {
	c := New(1024)
	c.Put(cachekey.New("b", "a"), []byte("12345"), "")
	c.Put(cachekey.New("b", "b"), []byte("67890"), "")

	stats := c.Stats()
	if stats.Inserts != 2 {
		t.Errorf("Inserts = %d, want 2", stats.Inserts)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.Bytes != 10 {
		t.Errorf("Bytes = %d, want 10", stats.Bytes)
	}
}

func TestCache_UnlimitedWhenZero(t *testing.T) {
	c := New(0)
	for i := 0; i < 100; i++ {
		c.Put(cachekey.New("b", string(rune('a'+i%26))), make([]byte, 1024), "")
	}
	if c.Stats().Evictions != 0 {
		t.Error("unlimited cache should never evict")
	}
}
