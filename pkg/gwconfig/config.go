// Package gwconfig loads the gateway's configuration from a YAML file or
// from the environment:
// viper for source merging, mapstructure decode hooks for byte-size and
// duration strings, and struct-tag validation once the config is
// assembled.
package gwconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ditsuke/cachegate/internal/bytesize"
)

const envConfigFlag = "env"
const envPrefix = "CACHEGATE"

// Config is the gateway's top-level configuration, recognized from either
// a YAML file or (when --config is "env") a flat CACHEGATE_-prefixed
// environment layout.
type Config struct {
	Listen          string                 `mapstructure:"listen" validate:"required" yaml:"listen"`
	Stores          map[string]StoreConfig `mapstructure:"stores" validate:"required,min=1,dive" yaml:"stores"`
	Auth            AuthConfig             `mapstructure:"auth" validate:"required" yaml:"auth"`
	Cache           CacheConfig            `mapstructure:"cache" validate:"required" yaml:"cache"`
	Sentry          SentryConfig           `mapstructure:"sentry" yaml:"sentry,omitempty"`
	ShutdownTimeout time.Duration          `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout,omitempty"`
}

// AuthConfig configures the bearer/presign verifier.
type AuthConfig struct {
	PublicKey   string `mapstructure:"public_key" validate:"required" yaml:"public_key"`
	PrivateKey  string `mapstructure:"private_key" validate:"required" yaml:"private_key"`
	BearerToken string `mapstructure:"bearer_token" yaml:"bearer_token,omitempty"`
}

// CacheConfig configures the cache tier(s). MaxObjectSize of zero defers to
// gwapi.ResolveMaxObjectSize (caps at MaxMemory). MaxDisk of zero means
// memory-only.
type CacheConfig struct {
	MaxMemory     bytesize.ByteSize `mapstructure:"max_memory" validate:"required,gt=0" yaml:"max_memory"`
	MaxObjectSize bytesize.ByteSize `mapstructure:"max_object_size" yaml:"max_object_size,omitempty"`
	MaxDisk       bytesize.ByteSize `mapstructure:"max_disk" yaml:"max_disk,omitempty"`
	DiskPath      string            `mapstructure:"disk_path" yaml:"disk_path,omitempty"`
}

// SentryConfig configures optional Sentry error reporting. A zero DSN
// disables reporting.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn" yaml:"dsn,omitempty"`
	Environment      string  `mapstructure:"environment" yaml:"environment,omitempty"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"traces_sample_rate,omitempty"`
	Debug            bool    `mapstructure:"debug" yaml:"debug,omitempty"`
}

// Load resolves configuration per the --config flag: "env" reads a flat
// CACHEGATE_-prefixed environment layout, anything else is a path to a
// YAML file.
func Load(configFlag string) (*Config, error) {
	if configFlag == envConfigFlag {
		return loadEnv()
	}
	return loadFile(configFlag)
}

// loadFile reads and validates a YAML config file at path.
func loadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("gwconfig: no config path given (use --config <path> or --config env)")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("gwconfig: read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("gwconfig: unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("gwconfig: validate config: %w", err)
	}
	return &cfg, nil
}

// loadEnv reads configuration from CACHEGATE_-prefixed environment
// variables. Stores is a map in the file format, which has no natural flat
// env encoding, so env mode configures exactly one store named "default"
// from CACHEGATE_STORE_* variables.
func loadEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envBindKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("gwconfig: bind env key %q: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("gwconfig: unmarshal env config: %w", err)
	}

	// UnmarshalKey("store") sees nothing when only the store.* sub-keys are
	// bound from the environment; AllSettings assembles them into a map.
	var store StoreConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHooks(),
		WeaklyTypedInput: true,
		Result:           &store,
	})
	if err != nil {
		return nil, fmt.Errorf("gwconfig: unmarshal env store: %w", err)
	}
	if err := dec.Decode(v.AllSettings()["store"]); err != nil {
		return nil, fmt.Errorf("gwconfig: unmarshal env store: %w", err)
	}
	if store.Type != "" {
		cfg.Stores = map[string]StoreConfig{"default": store}
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("gwconfig: validate env config: %w", err)
	}
	return &cfg, nil
}

// envBindKeys lists every scalar config key env mode recognizes. Viper's
// AutomaticEnv only resolves keys it already knows about, so each must be
// bound explicitly rather than discovered.
var envBindKeys = []string{
	"listen",
	"shutdown_timeout",
	"auth.public_key",
	"auth.private_key",
	"auth.bearer_token",
	"cache.max_memory",
	"cache.max_object_size",
	"cache.max_disk",
	"cache.disk_path",
	"sentry.dsn",
	"sentry.environment",
	"sentry.traces_sample_rate",
	"sentry.debug",
	"store.type",
	"store.bucket",
	"store.region",
	"store.access_key_id",
	"store.secret_access_key",
	"store.endpoint",
	"store.force_path_style",
	"store.container",
	"store.connection_string",
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("gwconfig: create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("gwconfig: marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("gwconfig: write config file: %w", err)
	}
	return nil
}

// decodeHooks composes the byte-size and duration mapstructure decode
// hooks applied while unmarshalling.
func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}
