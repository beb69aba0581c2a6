package gwapi

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ditsuke/cachegate/pkg/upstream"
)

// fakeStore is an in-memory upstream.Store double for deterministic
// single-flight and pipeline tests.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	getCalls  atomic.Int64
	headCalls atomic.Int64
	getDelay  chan struct{} // if non-nil, Get blocks until closed
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) put(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = data
}

func (f *fakeStore) Get(ctx context.Context, path string) (*upstream.Object, error) {
	f.getCalls.Add(1)
	if f.getDelay != nil {
		<-f.getDelay
	}
	f.mu.Lock()
	data, ok := f.objects[path]
	f.mu.Unlock()
	if !ok {
		return nil, upstream.ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return &upstream.Object{Body: io.NopCloser(bytes.NewReader(cp)), Size: int64(len(cp))}, nil
}

func (f *fakeStore) Head(ctx context.Context, path string) (*upstream.HeadResult, error) {
	f.headCalls.Add(1)
	f.mu.Lock()
	data, ok := f.objects[path]
	f.mu.Unlock()
	if !ok {
		return nil, upstream.ErrNotFound
	}
	return &upstream.HeadResult{Size: int64(len(data))}, nil
}

func (f *fakeStore) PutMultipart(ctx context.Context, path string) (upstream.MultipartWriter, error) {
	return &fakeMultipartWriter{store: f, path: path}, nil
}

type fakeMultipartWriter struct {
	store *fakeStore
	path  string
	buf   bytes.Buffer
}

func (w *fakeMultipartWriter) WriteChunk(ctx context.Context, chunk []byte) error {
	w.buf.Write(chunk)
	return nil
}

func (w *fakeMultipartWriter) Finish(ctx context.Context) error {
	w.store.put(w.path, w.buf.Bytes())
	return nil
}

func (w *fakeMultipartWriter) Abort(ctx context.Context) error {
	return nil
}
