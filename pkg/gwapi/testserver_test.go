package gwapi

import (
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/ditsuke/cachegate/pkg/cgauth"
	"github.com/ditsuke/cachegate/pkg/gwcache/memory"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

const testBucket = "bucket"
const testBearer = "test-bearer-token"

// testHarness bundles a real router (built via NewRouter, the same path
// production wires up) with the fake store and memory cache backing it, so
// tests can drive the HTTP surface with httptest while asserting on the
// fake's call counters.
type testHarness struct {
	handler http.Handler
	verif   *cgauth.Verifier
	store   *fakeStore
	cache   *memory.Cache
}

// newTestHarness builds a full gateway router over a fresh keypair, a
// single fake upstream store registered under testBucket, and a memory
// cache with the given caps. Metrics and tracing are left disabled
// (nil Sink, nil Registry), matching metrics.Sink's nil-receiver-safe
// contract.
func newTestHarness(t *testing.T, maxMemory, maxObjectSize int64) *testHarness {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	verif, err := cgauth.New(cgauth.Config{
		PublicKeyB64:  base64.RawURLEncoding.EncodeToString(pub),
		PrivateKeyB64: base64.RawURLEncoding.EncodeToString(priv),
		BearerToken:   testBearer,
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	store := newFakeStore()
	cache := memory.New(maxMemory)

	handler := NewRouter(Deps{
		Auth:     verif,
		Cache:    cache,
		Inflight: inflight.New(),
		Stores:   map[string]upstream.Store{testBucket: store},
		Metrics:  nil,
		Registry: nil,
	}, maxObjectSize)

	return &testHarness{handler: handler, verif: verif, store: store, cache: cache}
}
