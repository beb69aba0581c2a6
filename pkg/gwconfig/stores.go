package gwconfig

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ditsuke/cachegate/pkg/upstream"
	"github.com/ditsuke/cachegate/pkg/upstream/azurestore"
	"github.com/ditsuke/cachegate/pkg/upstream/s3store"
)

// StoreConfig configures one upstream bucket, discriminated by Type. S3
// fields are used when Type is "s3"; Container/ConnectionString when Type
// is "azure".
type StoreConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=s3 azure" yaml:"type"`

	// S3
	Bucket          string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Region          string `mapstructure:"region" yaml:"region,omitempty"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	ForcePathStyle  bool   `mapstructure:"force_path_style" yaml:"force_path_style,omitempty"`

	// Azure
	Container        string `mapstructure:"container" yaml:"container,omitempty"`
	ConnectionString string `mapstructure:"connection_string" yaml:"connection_string,omitempty"`
}

// BuildStores constructs an upstream.Store for every configured bucket,
// dispatching on Type. Stores are built concurrently; S3 client
// construction resolves credentials and can block on the network.
func BuildStores(ctx context.Context, stores map[string]StoreConfig) (map[string]upstream.Store, error) {
	var mu sync.Mutex
	built := make(map[string]upstream.Store, len(stores))

	g, ctx := errgroup.WithContext(ctx)
	for id, cfg := range stores {
		g.Go(func() error {
			store, err := buildStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("gwconfig: build store %q: %w", id, err)
			}
			mu.Lock()
			built[id] = store
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return built, nil
}

func buildStore(ctx context.Context, cfg StoreConfig) (upstream.Store, error) {
	switch cfg.Type {
	case "s3":
		return s3store.New(ctx, s3store.Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Endpoint:        cfg.Endpoint,
			ForcePathStyle:  cfg.ForcePathStyle,
		})
	case "azure":
		return azurestore.New(azurestore.Config{
			Container:        cfg.Container,
			ConnectionString: cfg.ConnectionString,
		})
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
