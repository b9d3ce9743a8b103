package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record store drivers
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config represents the flat fieldbook configuration
type Config struct {
	Store StoreConfig `json:"store"`
	Media MediaConfig `json:"media"`
	HTTP  HTTPConfig  `json:"http"`
}

// StoreConfig selects and parameterizes the record store adapter
type StoreConfig struct {
	Driver string `json:"driver"`         // sqlite (default), postgres, memory
	Path   string `json:"path,omitempty"` // sqlite database file
	DSN    string `json:"dsn,omitempty"`  // postgres connection string
}

// MediaConfig selects and parameterizes the media store driver
type MediaConfig struct {
	Driver    string `json:"driver"`             // fs (default), s3, memory
	Root      string `json:"root,omitempty"`     // fs root directory
	Bucket    string `json:"bucket,omitempty"`   // s3 bucket
	Region    string `json:"region,omitempty"`   // s3 region
	Endpoint  string `json:"endpoint,omitempty"` // optional MinIO-style endpoint
	PathStyle bool   `json:"path_style,omitempty"`
	Prefix    string `json:"prefix,omitempty"` // operator-supplied upload target
}

// HTTPConfig parameterizes the form server
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// HomeDir returns the fieldbook home directory (~/.fieldbook).
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".fieldbook"), nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: StoreSQLite},
		Media: MediaConfig{Driver: "fs"},
		HTTP:  HTTPConfig{Addr: ":8090"},
	}
}

// Load reads config.json from the fieldbook home directory, falls back
// to defaults when the file is absent, then applies environment
// overrides. Errors only on an unreadable or malformed file.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)

	if cfg.Media.Driver == "" || cfg.Media.Driver == "fs" {
		if cfg.Media.Root == "" {
			cfg.Media.Root = filepath.Join(dir, "media")
		}
	}
	return cfg, nil
}

// Save writes config.json to the fieldbook home directory
func Save(cfg *Config) error {
	dir, err := HomeDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnv lets deployments override the file without editing it.
func applyEnv(cfg *Config) {
	setIfEnv(&cfg.Store.Driver, "FIELDBOOK_STORE_DRIVER")
	setIfEnv(&cfg.Store.Path, "FIELDBOOK_STORE_PATH")
	setIfEnv(&cfg.Store.DSN, "FIELDBOOK_STORE_DSN")
	setIfEnv(&cfg.Media.Driver, "FIELDBOOK_MEDIA_DRIVER")
	setIfEnv(&cfg.Media.Root, "FIELDBOOK_MEDIA_ROOT")
	setIfEnv(&cfg.Media.Bucket, "FIELDBOOK_MEDIA_BUCKET")
	setIfEnv(&cfg.Media.Region, "FIELDBOOK_MEDIA_REGION")
	setIfEnv(&cfg.Media.Endpoint, "FIELDBOOK_MEDIA_ENDPOINT")
	setIfEnv(&cfg.Media.Prefix, "FIELDBOOK_MEDIA_PREFIX")
	setIfEnv(&cfg.HTTP.Addr, "FIELDBOOK_HTTP_ADDR")
}

func setIfEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
