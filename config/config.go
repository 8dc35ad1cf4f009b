// Package config locates the planning document and tunes engine behavior.
// Settings come from an optional YAML file, overridden by environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names for StorageConfig.Backend.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultKey is the fixed key the document is stored under. It matches the
// key the original web client used, so exported documents stay portable.
const DefaultKey = "itemkey_planning_v1"

// StorageConfig selects where the planning document lives.
type StorageConfig struct {
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	Key           string `yaml:"key"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
}

// Config is the full engine configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Debug   bool          `yaml:"debug"`
}

// Default returns the configuration used when no file exists: a file-backed
// document under the user's home directory.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    defaultDocumentPath(),
			Key:     DefaultKey,
		},
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// Load reads the YAML file at path (or the default location when path is
// empty), applies environment overrides and validates the result. A missing
// file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fall through to env overrides
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ITEMKEY_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("ITEMKEY_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("ITEMKEY_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("ITEMKEY_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := os.Getenv("ITEMKEY_REDIS_PASSWORD"); v != "" {
		cfg.Storage.RedisPassword = v
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return errors.New("config: file backend needs storage.path")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("config: redis backend needs storage.redis_addr")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("config: storage.key must not be empty")
	}
	return nil
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".item-key"
	}
	return filepath.Join(home, ".item-key")
}

func defaultDocumentPath() string {
	return filepath.Join(baseDir(), "planning.json")
}
