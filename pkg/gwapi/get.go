package gwapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/cachekey"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

// handleGet serves an object read: cache lookup, then a single-flight
// upstream fetch on miss.
func (h *objectHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objPath := chi.URLParam(r, "*")

	ctx, span := telemetry.StartRequestSpan(r.Context(), r.Method, bucket, objPath)
	defer span.End()
	r = r.WithContext(ctx)

	if !validatePath(objPath) {
		h.metrics.ObserveRequest(r.Method, "400")
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if !h.authenticate(w, r, bucket, objPath) {
		return
	}
	store, ok := h.store(bucket)
	if !ok {
		h.metrics.ObserveRequest(r.Method, "404")
		http.Error(w, "unknown bucket", http.StatusNotFound)
		return
	}

	key := cachekey.New(bucket, objPath)

	if entry, ok := h.cache.Get(key); ok {
		h.metrics.ObserveCacheHit()
		span.SetAttributes(telemetry.CacheOutcome("hit"), telemetry.Status(http.StatusOK), telemetry.Bytes(entry.Size()))
		h.writeEntry(w, entry, true)
		h.metrics.ObserveRequest(r.Method, "200")
		return
	}
	h.metrics.ObserveCacheMiss()
	span.SetAttributes(telemetry.CacheOutcome("miss"))

	entry, err := h.getOrFetch(r, store, objPath, key)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}
	span.SetAttributes(telemetry.Status(http.StatusOK), telemetry.Bytes(entry.Size()))
	h.writeEntry(w, entry.Entry, entry.wasHit)
	h.metrics.ObserveRequest(r.Method, "200")
}

// fetchResult carries whether the entry came from a cache re-read
// (follower path) rather than a fresh upstream fetch.
type fetchResult struct {
	cachekey.Entry
	wasHit bool
}

// getOrFetch implements the inflight acquire/leader/follower dance: a
// leader fetches upstream and admits; a follower waits, re-reads the
// cache, and self-leads a fresh attempt (looping, since the self-led
// acquire may itself race into a follower role again) if the prior leader
// did not admit an entry.
func (h *objectHandler) getOrFetch(r *http.Request, store upstream.Store, objPath string, key cachekey.Key) (fetchResult, error) {
	for {
		permit := h.inflight.Acquire(key)
		telemetry.SpanFromContext(r.Context()).SetAttributes(telemetry.InflightRole(permit.Role.String()))

		if permit.Role == inflight.Leader {
			entry, err := func() (cachekey.Entry, error) {
				defer permit.Release()
				return h.fetchAndAdmit(r.Context(), store, objPath, key)
			}()
			if err != nil {
				return fetchResult{}, err
			}
			return fetchResult{Entry: entry, wasHit: false}, nil
		}

		permit.Wait()
		if entry, ok := h.cache.Get(key); ok {
			return fetchResult{Entry: entry, wasHit: true}, nil
		}
		// Prior leader did not admit; loop to self-lead or follow the next
		// leader.
	}
}
