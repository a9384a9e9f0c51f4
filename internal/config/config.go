package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// DefaultLedgerPath is the record location for the file backend, relative to
// the workspace root.
const DefaultLedgerPath = ".drey/ledger.md"

// DreyConfig represents the top-level drey.yml configuration.
type DreyConfig struct {
	Version   string         `yaml:"version"`
	Workspace string         `yaml:"workspace"`         // Namespace for the ledger; one ledger exists per workspace
	Storage   *StorageConfig `yaml:"storage,omitempty"` // Defaults to the file backend
}

// StorageConfig selects and configures the ledger storage backend.
type StorageConfig struct {
	Backend  string `yaml:"backend,omitempty"`   // "file" (default) or "redis"
	Path     string `yaml:"path,omitempty"`      // File backend: record path relative to the workspace root
	RedisURL string `yaml:"redis_url,omitempty"` // Redis backend: required connection URL
}

// Validate performs strict validation on the configuration and applies
// defaults for the optional storage section.
func (c *DreyConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	// Required: workspace name
	if c.Workspace == "" {
		return fmt.Errorf("workspace name is required")
	}

	// Apply default storage config if missing
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			c.Storage.Path = DefaultLedgerPath
		}
		if c.Storage.RedisURL != "" {
			return fmt.Errorf("storage.redis_url is only valid with backend: redis")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required with backend: redis")
		}
		if c.Storage.Path != "" {
			return fmt.Errorf("storage.path is only valid with backend: file")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'file' or 'redis')", c.Storage.Backend)
	}

	return nil
}

// Load reads and validates drey.yml from the specified path.
func Load(path string) (*DreyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config DreyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
