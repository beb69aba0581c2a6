package gwconfig

import (
	"time"

	"github.com/ditsuke/cachegate/internal/bytesize"
)

// ApplyDefaults fills in zero-valued optional fields.
func ApplyDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	applyCacheDefaults(&cfg.Cache)
	applyStoreDefaults(cfg.Stores)
}

func applyCacheDefaults(cfg *CacheConfig) {
	// MaxObjectSize of zero is meaningful (resolved against MaxMemory at
	// server construction via gwapi.ResolveMaxObjectSize), so it is left
	// alone here.
	if cfg.MaxDisk > 0 && cfg.DiskPath == "" {
		cfg.DiskPath = "/var/lib/cachegate/disk-cache"
	}
}

func applyStoreDefaults(stores map[string]StoreConfig) {
	for id, store := range stores {
		switch store.Type {
		case "s3":
			if store.Region == "" {
				store.Region = "us-east-1"
			}
		}
		stores[id] = store
	}
}

// GetDefaultConfig returns a minimal, valid configuration suitable for
// `keygen`-adjacent scaffolding and tests. Callers must still supply the
// auth key pair and at least one store before Validate accepts it.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Listen: ":8080",
		Cache: CacheConfig{
			MaxMemory: 512 * bytesize.MiB,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
