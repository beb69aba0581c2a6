package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ditsuke/cachegate/internal/errreport"
	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/cgauth"
	"github.com/ditsuke/cachegate/pkg/gwapi"
	"github.com/ditsuke/cachegate/pkg/gwcache"
	"github.com/ditsuke/cachegate/pkg/gwcache/hybrid"
	"github.com/ditsuke/cachegate/pkg/gwcache/memory"
	"github.com/ditsuke/cachegate/pkg/gwconfig"
	"github.com/ditsuke/cachegate/pkg/inflight"
	"github.com/ditsuke/cachegate/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the gateway server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := gwconfig.Load(ConfigFlag())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{Level: "INFO", Format: "text", Output: "stdout"}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing has no dedicated config key in this gateway's configuration
	// surface; it runs with the noop fallback until a collector endpoint
	// is wired through config.
	telemetryShutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	reportShutdown, err := errreport.Init(errreport.Config{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	})
	if err != nil {
		return fmt.Errorf("init error reporting: %w", err)
	}
	defer reportShutdown()

	registry := metrics.NewRegistry()
	sink := metrics.New(registry)

	auth, err := cgauth.New(cgauth.Config{
		PublicKeyB64:  cfg.Auth.PublicKey,
		PrivateKeyB64: cfg.Auth.PrivateKey,
		BearerToken:   cfg.Auth.BearerToken,
	})
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	cache := buildCache(cfg.Cache)

	stores, err := gwconfig.BuildStores(ctx, cfg.Stores)
	if err != nil {
		return fmt.Errorf("init stores: %w", err)
	}
	logger.Info("stores configured", "count", len(stores))

	maxObjectSize := gwapi.ResolveMaxObjectSize(int64(cfg.Cache.MaxObjectSize), int64(cfg.Cache.MaxMemory))

	server := gwapi.NewServer(gwapi.Config{
		Addr:            cfg.Listen,
		MaxObjectSize:   maxObjectSize,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, gwapi.Deps{
		Auth:     auth,
		Cache:    cache,
		Inflight: inflight.New(),
		Stores:   stores,
		Metrics:  sink,
		Registry: registry,
	})

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("cachegate is running", "addr", cfg.Listen)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received")
		cancel()
		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")
	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			errreport.Capture(err)
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}

// buildCache selects the hybrid disk-backed cache when MaxDisk is
// configured, falling back to the memory-only backend otherwise.
func buildCache(cfg gwconfig.CacheConfig) gwcache.Backend {
	if cfg.MaxDisk > 0 {
		return hybrid.New(hybrid.Config{
			MaxMemory: int64(cfg.MaxMemory),
			MaxDisk:   int64(cfg.MaxDisk),
			DiskPath:  cfg.DiskPath,
		})
	}
	return memory.New(int64(cfg.MaxMemory))
}
