// Package config loads server configuration from a TOML file, a .env
// file, and environment variables, in that order of increasing
// precedence. Everything has a working default so `sam serve` runs
// against the in-memory store with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheFile   = "file"
	CacheNone   = "none"
)

// Duration wraps time.Duration so TOML files can say ttl = "5m".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `toml:"listen"`

	// CORSOrigins are the allowed cross-origin request origins. "*"
	// allows any origin.
	CORSOrigins []string `toml:"cors_origins"`

	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string `toml:"log_level"`

	// DefaultLanguage is the fallback for API error localization.
	DefaultLanguage string `toml:"default_language"`

	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
	ULM   ULMConfig   `toml:"ulm"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is StoreMemory or StoreMongo.
	Backend string `toml:"backend"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects and configures the projection cache backend.
type CacheConfig struct {
	// Backend is CacheMemory, CacheRedis, CacheFile, or CacheNone.
	Backend string `toml:"backend"`

	RedisURL string `toml:"redis_url"`

	// Dir is the file backend's directory. Empty means the per-user
	// cache directory.
	Dir string `toml:"dir"`

	// Size bounds the memory backend's entry count.
	Size int `toml:"size"`

	// TTL bounds entry lifetime in the memory backend.
	TTL Duration `toml:"ttl"`
}

// ULMConfig configures the outbound auth-gateway client. An empty
// BaseURL disables token verification, leaving mutations open - only
// acceptable for local development.
type ULMConfig struct {
	BaseURL   string   `toml:"base_url"`
	AppSource string   `toml:"app_source"`
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	Timeout   Duration `toml:"timeout"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		DefaultLanguage: "en",
		Store: StoreConfig{
			Backend:       StoreMemory,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "sam",
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Size:    512,
			TTL:     Duration(5 * time.Minute),
		},
		ULM: ULMConfig{
			AppSource: "sam",
			Timeout:   Duration(30 * time.Second),
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (optional when path is empty and the default file is absent), then
// environment variables. A .env file in the working directory is loaded
// into the environment first, as a development convenience.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; it is optional everywhere.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat("sam.toml"); err == nil {
			path = "sam.toml"
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration from SAM_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Listen, "SAM_LISTEN")
	setString(&c.LogLevel, "SAM_LOG_LEVEL")
	setString(&c.DefaultLanguage, "SAM_DEFAULT_LANGUAGE")
	if v := os.Getenv("SAM_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	setString(&c.Store.Backend, "SAM_STORE_BACKEND")
	setString(&c.Store.MongoURI, "SAM_MONGO_URI")
	setString(&c.Store.MongoDatabase, "SAM_MONGO_DATABASE")

	setString(&c.Cache.Backend, "SAM_CACHE_BACKEND")
	setString(&c.Cache.RedisURL, "SAM_REDIS_URL")
	setString(&c.Cache.Dir, "SAM_CACHE_DIR")
	if v := os.Getenv("SAM_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Cache.Size = n
		}
	}
	if v := os.Getenv("SAM_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = Duration(d)
		}
	}

	setString(&c.ULM.BaseURL, "SAM_ULM_URL")
	setString(&c.ULM.AppSource, "SAM_ULM_APP_SOURCE")
	setString(&c.ULM.Username, "SAM_ULM_USERNAME")
	setString(&c.ULM.Password, "SAM_ULM_PASSWORD")
}

// validate rejects backend names that would otherwise fail at first use.
func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("unknown store backend %q (expected %s or %s)",
			c.Store.Backend, StoreMemory, StoreMongo)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheFile, CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q (expected %s, %s, %s, or %s)",
			c.Cache.Backend, CacheMemory, CacheRedis, CacheFile, CacheNone)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
