package gwconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validYAML = `
listen: ":8080"
auth:
  public_key: "pub"
  private_key: "priv"
  bearer_token: "token"
cache:
  max_memory: "64MiB"
  max_object_size: "1MiB"
stores:
  bucket:
    type: s3
    bucket: my-bucket
    region: us-west-2
`

func TestLoadFile_Valid(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "pub", cfg.Auth.PublicKey)
	assert.EqualValues(t, 64*1024*1024, cfg.Cache.MaxMemory)
	assert.EqualValues(t, 1024*1024, cfg.Cache.MaxObjectSize)
	assert.Equal(t, "5s", cfg.ShutdownTimeout.String())

	store, ok := cfg.Stores["bucket"]
	require.True(t, ok)
	assert.Equal(t, "s3", store.Type)
	assert.Equal(t, "my-bucket", store.Bucket)
}

func TestLoadFile_MissingStoresRejected(t *testing.T) {
	path := writeConfigFile(t, `
listen: ":8080"
auth:
  public_key: "pub"
  private_key: "priv"
cache:
  max_memory: "64MiB"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadFile_UnknownStoreTypeRejected(t *testing.T) {
	path := writeConfigFile(t, `
listen: ":8080"
auth:
  public_key: "pub"
  private_key: "priv"
cache:
  max_memory: "64MiB"
stores:
  bucket:
    type: gcs
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadFile_S3RequiresBucket(t *testing.T) {
	path := writeConfigFile(t, `
listen: ":8080"
auth:
  public_key: "pub"
  private_key: "priv"
cache:
  max_memory: "64MiB"
stores:
  bucket:
    type: s3
`)

	_, err := Load(path)
	require.ErrorContains(t, err, "requires bucket")
}

func TestLoad_EnvMode(t *testing.T) {
	t.Setenv("CACHEGATE_LISTEN", ":9090")
	t.Setenv("CACHEGATE_AUTH_PUBLIC_KEY", "pub")
	t.Setenv("CACHEGATE_AUTH_PRIVATE_KEY", "priv")
	t.Setenv("CACHEGATE_CACHE_MAX_MEMORY", "32MiB")
	t.Setenv("CACHEGATE_STORE_TYPE", "azure")
	t.Setenv("CACHEGATE_STORE_CONTAINER", "blobs")
	t.Setenv("CACHEGATE_STORE_CONNECTION_STRING", "AccountName=a;AccountKey=b")

	cfg, err := Load("env")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.EqualValues(t, 32*1024*1024, cfg.Cache.MaxMemory)

	store, ok := cfg.Stores["default"]
	require.True(t, ok)
	assert.Equal(t, "azure", store.Type)
	assert.Equal(t, "blobs", store.Container)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Auth = AuthConfig{PublicKey: "pub", PrivateKey: "priv"}
	cfg.Stores = map[string]StoreConfig{
		"bucket": {Type: "s3", Bucket: "b", Region: "us-east-1"},
	}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Listen, loaded.Listen)
	assert.Equal(t, cfg.Stores["bucket"].Bucket, loaded.Stores["bucket"].Bucket)
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, "5s", cfg.ShutdownTimeout.String())
}
