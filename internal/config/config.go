// Package config holds the runtime settings for the blog's storage layer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config represents the configuration settings of the application.
type Config struct {
	DBPath   string   `yaml:"db_path"`
	Sessions Sessions `yaml:"sessions"`
}

// Sessions selects and parameterizes the session store backend.
type Sessions struct {
	Backend     string `yaml:"backend"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		DBPath: "blog.db",
		Sessions: Sessions{
			Backend:     BackendSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "session",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// BLOG_* environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error unmarshalling %s: %w", path, err)
		}
	}
	if v := os.Getenv("BLOG_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BLOG_SESSION_BACKEND"); v != "" {
		cfg.Sessions.Backend = v
	}
	if v := os.Getenv("BLOG_REDIS_ADDR"); v != "" {
		cfg.Sessions.RedisAddr = v
	}
	if v := os.Getenv("BLOG_REDIS_PREFIX"); v != "" {
		cfg.Sessions.RedisPrefix = v
	}
	if cfg.Sessions.Backend != BackendSQLite && cfg.Sessions.Backend != BackendRedis {
		return Config{}, fmt.Errorf("unknown session backend %q", cfg.Sessions.Backend)
	}
	return cfg, nil
}
