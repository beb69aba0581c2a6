// Package cachekey defines the value types shared by the cache backend,
// the inflight coordinator, and the request handlers: the key objects are
// addressed by, the entries they store, and the stats snapshots they expose.
package cachekey

// Key identifies a cached object by bucket and path. Keys are immutable
// after construction and comparable, so they can be used directly as map
// keys.
type Key struct {
	Bucket string
	Path   string
}

// New builds a Key for the given bucket and path.
func New(bucket, path string) Key {
	return Key{Bucket: bucket, Path: path}
}

func (k Key) String() string {
	return k.Bucket + "/" + k.Path
}

// Entry is an immutable cached payload. Bytes is never mutated after
// construction; callers that receive an Entry from Get share the
// underlying buffer and must treat it as read-only.
type Entry struct {
	Bytes       []byte
	ContentType string
}

// Size returns the resident size of the entry in bytes.
func (e Entry) Size() int64 {
	return int64(len(e.Bytes))
}

// Stats is a best-effort, non-blocking snapshot of backend state.
type Stats struct {
	Inserts   int64
	Entries   int64
	Bytes     int64
	Evictions int64
}
