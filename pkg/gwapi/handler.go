package gwapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/cachekey"
	"github.com/ditsuke/cachegate/pkg/cgauth"
	"github.com/ditsuke/cachegate/pkg/gwcache"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/metrics"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

// objectHandler implements the GET/HEAD/PUT request state machine:
// path validation, auth, cache lookup, single-flight upstream fetch,
// content-type resolution, and response shaping.
type objectHandler struct {
	auth          *cgauth.Verifier
	cache         gwcache.Backend
	inflight      *inflight.Coordinator
	stores        map[string]upstream.Store
	metrics       *metrics.Sink
	maxObjectSize int64
}

// validatePath rejects empty paths, paths starting with "/", and paths
// containing "..".
func validatePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.Contains(p, "..")
}

func (h *objectHandler) store(bucket string) (upstream.Store, bool) {
	s, ok := h.stores[bucket]
	return s, ok
}

// authenticate verifies the request and, on failure, writes a 401 response
// and records the auth_fail metric/log. Returns false when auth fails.
func (h *objectHandler) authenticate(w http.ResponseWriter, r *http.Request, bucket, objPath string) bool {
	_, span := telemetry.StartAuthSpan(r.Context())
	defer span.End()

	if err := h.auth.Verify(r, bucket, objPath); err != nil {
		kind := cgauth.Kind(err)
		logger.WarnCtx(r.Context(), "auth failed", logger.Bucket(bucket), logger.Path(objPath), logger.AuthKind(kind))
		span.SetAttributes(telemetry.AuthKind(kind))
		h.metrics.ObserveAuthFail(r.Method)
		h.metrics.ObserveRequest(r.Method, "401")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// fetchAndAdmit fetches objPath from store, admits the full payload to the
// cache under key, and returns the resulting entry. Always called under a
// held leader permit.
func (h *objectHandler) fetchAndAdmit(ctx context.Context, store upstream.Store, objPath string, key cachekey.Key) (cachekey.Entry, error) {
	obj, err := h.observeUpstream(ctx, "GET", func() (*upstream.Object, error) {
		return store.Get(ctx, objPath)
	})
	if err != nil {
		return cachekey.Entry{}, err
	}
	defer obj.Body.Close()

	buf, err := readAllLimited(obj.Body, obj.Size)
	if err != nil {
		return cachekey.Entry{}, err
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = resolveContentType(objPath, buf)
	}

	h.cache.Put(key, buf, contentType)
	return cachekey.Entry{Bytes: buf, ContentType: contentType}, nil
}

// writeEntry writes a cached entry as a 200 response with the X-CG-Status
// hit header.
func (h *objectHandler) writeEntry(w http.ResponseWriter, entry cachekey.Entry, hit bool) {
	ct := entry.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(entry.Size(), 10))
	w.Header().Set("X-CG-Status", hitHeader(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(entry.Bytes)
}

func hitHeader(hit bool) string {
	if hit {
		return "hit=1"
	}
	return "hit=0"
}

// respondUpstreamError maps a classified upstream error to a client status:
// not_found -> 404, everything else -> 502.
func (h *objectHandler) respondUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	kind := upstream.ErrorKind(err)
	logger.WarnCtx(r.Context(), "upstream error", logger.ErrorKind(kind), logger.Err(err))

	status := http.StatusBadGateway
	if kind == "not_found" {
		status = http.StatusNotFound
	}
	h.metrics.ObserveRequest(r.Method, statusLabel(status))
	http.Error(w, "upstream error", status)
}

func statusLabel(code int) string {
	switch code {
	case http.StatusOK:
		return "200"
	case http.StatusBadRequest:
		return "400"
	case http.StatusUnauthorized:
		return "401"
	case http.StatusNotFound:
		return "404"
	case http.StatusBadGateway:
		return "502"
	default:
		return "500"
	}
}
