// Package gwcache defines the cache backend interface shared by the
// memory-only and hybrid implementations (see gwcache/memory and
// gwcache/hybrid). Logging of backend errors is done by the implementations.
package gwcache

import (
	"github.com/ditsuke/cachegate/pkg/cachekey"
)

// Backend is the polymorphic cache interface consulted by the request
// state machine. Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the current entry for key if present and admitted.
	// Misses and backend errors both surface as ok == false; backend
	// errors are additionally logged as warnings by the implementation.
	Get(key cachekey.Key) (entry cachekey.Entry, ok bool)

	// Put admits bytes under key, subject to the backend's admission
	// policy. It silently no-ops if the backend is disabled or bytes
	// exceeds the per-object cap.
	Put(key cachekey.Key, bytes []byte, contentType string)

	// Stats returns a best-effort, non-blocking snapshot.
	Stats() cachekey.Stats
}
