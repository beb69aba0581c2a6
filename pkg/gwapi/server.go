// Package gwapi is the gateway's HTTP surface: a chi router composing
// authentication, the cache, the inflight coordinator, and upstream
// adapters into the GET/HEAD/PUT request state machine, plus the
// unauthenticated /health, /stats and /metrics endpoints.
package gwapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/pkg/cgauth"
	"github.com/ditsuke/cachegate/pkg/gwcache"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/metrics"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

// Config configures the API server.
type Config struct {
	Addr            string
	MaxObjectSize   int64 // cache_max_object_bytes; see ResolveMaxObjectSize
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Deps bundles the gateway's core collaborators, wired once at startup and
// read-only thereafter.
type Deps struct {
	Auth     *cgauth.Verifier
	Cache    gwcache.Backend
	Inflight *inflight.Coordinator
	Stores   map[string]upstream.Store // bucket_id -> adapter
	Metrics  *metrics.Sink
	Registry *prometheus.Registry // nil disables /metrics
}

// Server wraps an *http.Server serving the gateway's HTTP surface.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer builds a Server from config and deps. The server is created in
// a stopped state; call Start to begin serving.
func NewServer(config Config, deps Deps) *Server {
	config.applyDefaults()

	router := NewRouter(deps, config.MaxObjectSize)

	return &Server{
		config: config,
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start serves requests until ctx is cancelled or the server fails, then
// performs a bounded graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("gateway server listening", "addr", s.config.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("gateway server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("gateway server failed: %w", err)
	}
}

// Stop gracefully shuts down the server. Safe to call multiple times and
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("gateway server shutdown initiated")
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("gateway server shutdown error: %w", err)
			logger.Error("gateway server shutdown error", "error", err)
		} else {
			logger.Info("gateway server stopped gracefully")
		}
	})
	return shutdownErr
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Addr
}

// ResolveMaxObjectSize applies the cache_max_object_bytes defaulting rule:
// if maxObjectSize is zero, it defaults to maxMemory. Single-object
// payloads larger than the whole memory tier would evict everything and
// still be evicted, so zero means "cap at the tier itself".
func ResolveMaxObjectSize(maxObjectSize, maxMemory int64) int64 {
	if maxObjectSize == 0 {
		return maxMemory
	}
	return maxObjectSize
}
