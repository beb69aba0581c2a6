package gwapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/cachekey"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

const putChunkSize = 256 * 1024

// handlePut implements the PUT pipeline: best-effort overwrite warning,
// streamed multipart upload to upstream with a bounded prefix buffer for
// cache admission.
func (h *objectHandler) handlePut(w http.ResponseWriter, r *http.Request) {
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

	h.warnIfExists(ctx, store, bucket, objPath)

	mw, err := store.PutMultipart(ctx, objPath)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	prefix := bytes.NewBuffer(make([]byte, 0, min64(h.maxObjectSize, putChunkSize*4)))
	capped := false

	buf := make([]byte, putChunkSize)
	for {
		n, readErr := r.Body.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if err := mw.WriteChunk(ctx, chunk); err != nil {
				_ = mw.Abort(ctx)
				h.respondUpstreamError(w, r, err)
				return
			}
			if !capped {
				if int64(prefix.Len()+n) > h.maxObjectSize {
					capped = true
				} else {
					prefix.Write(chunk)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = mw.Abort(ctx)
			h.metrics.ObserveRequest(r.Method, "400")
			http.Error(w, "request body read error", http.StatusBadRequest)
			return
		}
	}

	if err := mw.Finish(ctx); err != nil {
		logger.Warn("put finalize failed", logger.Bucket(bucket), logger.Path(objPath), logger.Err(err))
		h.respondUpstreamError(w, r, err)
		return
	}

	if !capped {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			contentType = guessContentType(objPath)
		}
		h.cache.Put(cachekey.New(bucket, objPath), prefix.Bytes(), contentType)
	}

	w.WriteHeader(http.StatusOK)
	h.metrics.ObserveRequest(r.Method, "200")
}

// warnIfExists issues a best-effort HEAD before overwriting: success logs
// an overwrite warning, not-found is silent, any other error is logged but
// never aborts the PUT.
func (h *objectHandler) warnIfExists(ctx context.Context, store upstream.Store, bucket, objPath string) {
	_, err := store.Head(ctx, objPath)
	switch {
	case err == nil:
		logger.WarnCtx(ctx, "put overwriting existing object", logger.Bucket(bucket), logger.Path(objPath))
	case errors.Is(err, upstream.ErrNotFound):
		// expected for a fresh object, no log
	default:
		logger.WarnCtx(ctx, "put pre-check head failed", logger.Bucket(bucket), logger.Path(objPath), logger.Err(err))
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
