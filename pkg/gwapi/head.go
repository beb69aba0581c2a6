package gwapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/cachekey"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

// isTruthy recognizes exactly {1, 0, true, false} (case-insensitive) as
// prefetch values; anything else is false.
func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// handleHead implements the HEAD pipeline.
func (h *objectHandler) handleHead(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objPath := chi.URLParam(r, "*")

	ctx, span := telemetry.StartRequestSpan(r.Context(), r.Method, bucket, objPath)
	defer span.End()
	r = r.WithContext(ctx)

	if !validatePath(objPath) {
		h.metrics.ObserveRequest(r.Method, "400")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !h.authenticate(w, r, bucket, objPath) {
		return
	}
	store, ok := h.store(bucket)
	if !ok {
		h.metrics.ObserveRequest(r.Method, "404")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	key := cachekey.New(bucket, objPath)

	if entry, ok := h.cache.Get(key); ok {
		h.metrics.ObserveCacheHit()
		ct := entry.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Length", strconv.FormatInt(entry.Size(), 10))
		w.WriteHeader(http.StatusOK)
		h.metrics.ObserveRequest(r.Method, "200")
	} else {
		h.metrics.ObserveCacheMiss()
		res, err := h.observeUpstreamHead(r.Context(), "HEAD", func() (*upstream.HeadResult, error) {
			return store.Head(r.Context(), objPath)
		})
		if err != nil {
			h.respondUpstreamError(w, r, err)
			return
		}
		ct := res.ContentType
		if ct == "" {
			ct = guessContentType(objPath)
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
		w.WriteHeader(http.StatusOK)
		h.metrics.ObserveRequest(r.Method, "200")
	}

	if isTruthy(r.URL.Query().Get("prefetch")) {
		h.prefetch(store, bucket, objPath, key)
	}
}

// prefetch schedules a background leader-only fetch. If another request
// is already fetching this key, it skips silently; failures are logged but
// never affect the HEAD response already written.
func (h *objectHandler) prefetch(store upstream.Store, bucket, objPath string, key cachekey.Key) {
	permit := h.inflight.Acquire(key)
	if permit.Role != inflight.Leader {
		return
	}

	go func() {
		defer permit.Release()
		if _, err := h.fetchAndAdmit(context.Background(), store, objPath, key); err != nil {
			logger.Warn("prefetch failed", logger.Bucket(bucket), logger.Path(objPath), logger.Err(err))
		}
	}()
}
