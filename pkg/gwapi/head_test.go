package gwapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ditsuke/cachegate/pkg/cachekey"
)

func authedHead(h *testHarness, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodHead, "/"+testBucket+"/"+path, nil)
	req.Header.Set("Authorization", "Bearer "+testBearer)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHead_UpstreamMiss(t *testing.T) {
	h := newTestHarness(t, 1<<20, 0)
	rec := authedHead(h, "missing.txt")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// TestHandleHead_DoesNotAdmit asserts that a HEAD miss does not populate
// the cache: a subsequent GET must still be a cold miss. HEAD never admits
// without an explicit prefetch.
func TestHandleHead_DoesNotAdmit(t *testing.T) {
	h := newTestHarness(t, 1<<20, 0)
	h.store.put("obj.bin", []byte("payload"))

	rec := authedHead(h, "obj.bin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(len("payload")) {
		t.Fatalf("Content-Length = %q", got)
	}
	if h.store.headCalls.Load() != 1 {
		t.Fatalf("headCalls = %d, want 1", h.store.headCalls.Load())
	}

	if _, ok := h.cache.Get(cachekey.New(testBucket, "obj.bin")); ok {
		t.Fatalf("HEAD must not admit to cache")
	}
	if h.store.getCalls.Load() != 0 {
		t.Fatalf("HEAD must never call Get")
	}
}

// TestHandleHead_CacheHit asserts a HEAD against an already-cached key is
// served from the cache without touching upstream.
func TestHandleHead_CacheHit(t *testing.T) {
	h := newTestHarness(t, 1<<20, 0)
	h.store.put("obj.bin", []byte("payload"))

	if rec := authedGet(h, "obj.bin"); rec.Code != http.StatusOK {
		t.Fatalf("priming GET status = %d", rec.Code)
	}

	rec := authedHead(h, "obj.bin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if h.store.headCalls.Load() != 0 {
		t.Fatalf("headCalls = %d, want 0 on cache hit", h.store.headCalls.Load())
	}
}

// TestHandleHead_PrefetchTruthy asserts that prefetch=1 schedules a
// background fetch that eventually admits the object to cache. The
// prefetch=0 case is covered by TestHandleHead_PrefetchFalsy.
func TestHandleHead_PrefetchTruthy(t *testing.T) {
	h := newTestHarness(t, 1<<20, 0)
	h.store.put("obj.bin", []byte("prefetch me"))

	req := httptest.NewRequest(http.MethodHead, "/"+testBucket+"/obj.bin?prefetch=1", nil)
	req.Header.Set("Authorization", "Bearer "+testBearer)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := h.cache.Get(cachekey.New(testBucket, "obj.bin")); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("prefetch did not admit object to cache in time")
}

func TestHandleHead_PrefetchFalsy(t *testing.T) {
	h := newTestHarness(t, 1<<20, 0)
	h.store.put("obj.bin", []byte("no prefetch"))

	req := httptest.NewRequest(http.MethodHead, "/"+testBucket+"/obj.bin?prefetch=0", nil)
	req.Header.Set("Authorization", "Bearer "+testBearer)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := h.cache.Get(cachekey.New(testBucket, "obj.bin")); ok {
		t.Fatalf("prefetch=0 must not admit to cache")
	}
}
