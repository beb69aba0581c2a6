package gwapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ditsuke/cachegate/internal/logger"
)

// NewRouter builds the gateway's chi router: request ID / real IP /
// request logging / panic recovery / timeout middleware, the object
// GET/HEAD/PUT routes, and the unauthenticated /health, /stats, /metrics
// endpoints.
func NewRouter(deps Deps, maxObjectSize int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := &objectHandler{
		auth:          deps.Auth,
		cache:         deps.Cache,
		inflight:      deps.Inflight,
		stores:        deps.Stores,
		metrics:       deps.Metrics,
		maxObjectSize: maxObjectSize,
	}

	r.Get("/health", handleHealth)
	r.Get("/stats", h.handleStats)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/{bucket}/*", h.handleGet)
	r.Head("/{bucket}/*", h.handleHead)
	r.Put("/{bucket}/*", h.handlePut)

	return r
}

// requestLogger logs request start at debug and completion at info.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("gateway request started",
			"request_id", requestID,
			logger.Method(r.Method),
			"path", r.URL.Path,
			logger.ClientIP(r.RemoteAddr),
		)

		lc := logger.NewLogContext(r.RemoteAddr)
		lc.Method = r.Method
		r = r.WithContext(logger.WithContext(r.Context(), lc))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("gateway request completed",
			"request_id", requestID,
			logger.Method(r.Method),
			"path", r.URL.Path,
			logger.Status(ww.Status()),
			logger.Bytes(int64(ww.BytesWritten())),
			logger.DurationMs(float64(time.Since(start).Microseconds())/1000),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
