package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drey.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
workspace: my-project
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, "my-project", config.Workspace)

	// Storage defaults applied.
	require.NotNil(t, config.Storage)
	assert.Equal(t, BackendFile, config.Storage.Backend)
	assert.Equal(t, DefaultLedgerPath, config.Storage.Path)
}

func TestLoad_RedisBackend(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
workspace: shared
storage:
  backend: redis
  redis_url: redis://localhost:6379/0
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, config.Storage.Backend)
	assert.Equal(t, "redis://localhost:6379/0", config.Storage.RedisURL)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/drey.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
workspace:
  - this is invalid
    yaml syntax
`)

	config, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate(t *testing.T) {
	t.Run("rejects unsupported version", func(t *testing.T) {
		c := &DreyConfig{Version: "2.0", Workspace: "w"}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported version")
	})

	t.Run("rejects missing workspace", func(t *testing.T) {
		c := &DreyConfig{Version: "1.0"}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workspace name is required")
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		c := &DreyConfig{Version: "1.0", Workspace: "w", Storage: &StorageConfig{Backend: "sqlite"}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid storage backend")
	})

	t.Run("rejects redis backend without url", func(t *testing.T) {
		c := &DreyConfig{Version: "1.0", Workspace: "w", Storage: &StorageConfig{Backend: BackendRedis}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis_url is required")
	})

	t.Run("rejects path on redis backend", func(t *testing.T) {
		c := &DreyConfig{Version: "1.0", Workspace: "w", Storage: &StorageConfig{
			Backend: BackendRedis, RedisURL: "redis://localhost:6379", Path: "ledger.md",
		}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only valid with backend: file")
	})

	t.Run("rejects redis_url on file backend", func(t *testing.T) {
		c := &DreyConfig{Version: "1.0", Workspace: "w", Storage: &StorageConfig{
			Backend: BackendFile, RedisURL: "redis://localhost:6379",
		}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only valid with backend: redis")
	})
}
