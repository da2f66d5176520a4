// Package config loads Drawbridge configuration from a TOML file with
// environment-variable overrides.
//
// Precedence, lowest to highest: built-in defaults, the TOML file, then
// DRAWBRIDGE_* environment variables. A .env file in the working directory
// (or any parent) is loaded into the environment first, so local overrides
// don't need to be exported.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mlenz/drawbridge/pkg/layout"
	"github.com/mlenz/drawbridge/pkg/styles"
)

// Backend names accepted by the cache and history sections.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the full Drawbridge configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Icons   IconsConfig   `toml:"icons"`
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `toml:"listen"`
}

// IconsConfig configures the icon bundle source.
type IconsConfig struct {
	// BundleURL is where the icon archive is fetched from.
	BundleURL string `toml:"bundle_url"`
}

// LayoutConfig configures geometry derivation.
type LayoutConfig struct {
	// Margin is the container padding in diagram units.
	Margin float64 `toml:"margin"`
}

// CacheConfig selects and configures the icon bundle cache.
type CacheConfig struct {
	// Backend is one of "file", "redis", "none".
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty means the platform cache dir.
	Dir string `toml:"dir"`
	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`
	// RedisPassword authenticates the redis connection. Optional.
	RedisPassword string `toml:"redis_password"`
	// RedisDB selects the redis logical database.
	RedisDB int `toml:"redis_db"`
}

// HistoryConfig selects and configures diagram history storage.
type HistoryConfig struct {
	// Backend is one of "file", "mongo", "none".
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty means the platform config dir.
	Dir string `toml:"dir"`
	// MongoURI is the mongo backend's connection string.
	MongoURI string `toml:"mongo_uri"`
	// MongoDatabase is the mongo backend's database name.
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Listen: ":8080"},
		Icons:   IconsConfig{BundleURL: styles.DefaultBundleURL},
		Layout:  LayoutConfig{Margin: layout.DefaultMargin},
		Cache:   CacheConfig{Backend: BackendFile},
		History: HistoryConfig{Backend: BackendFile},
	}
}

// Load reads configuration from path, applying defaults and environment
// overrides. An empty path skips the file and uses defaults plus the
// environment. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	loadDotEnv()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case BackendFile, BackendMongo, BackendNone:
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	if c.Layout.Margin < 0 {
		return fmt.Errorf("layout margin must be non-negative, got %v", c.Layout.Margin)
	}
	return nil
}

// applyEnv overlays DRAWBRIDGE_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Listen, "DRAWBRIDGE_LISTEN")
	setString(&cfg.Icons.BundleURL, "DRAWBRIDGE_ICON_BUNDLE_URL")
	setFloat(&cfg.Layout.Margin, "DRAWBRIDGE_MARGIN")
	setString(&cfg.Cache.Backend, "DRAWBRIDGE_CACHE_BACKEND")
	setString(&cfg.Cache.Dir, "DRAWBRIDGE_CACHE_DIR")
	setString(&cfg.Cache.RedisAddr, "DRAWBRIDGE_REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "DRAWBRIDGE_REDIS_PASSWORD")
	setInt(&cfg.Cache.RedisDB, "DRAWBRIDGE_REDIS_DB")
	setString(&cfg.History.Backend, "DRAWBRIDGE_HISTORY_BACKEND")
	setString(&cfg.History.Dir, "DRAWBRIDGE_HISTORY_DIR")
	setString(&cfg.History.MongoURI, "DRAWBRIDGE_MONGO_URI")
	setString(&cfg.History.MongoDatabase, "DRAWBRIDGE_MONGO_DATABASE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// loadDotEnv loads a .env file, searching up the directory tree.
// Not finding one is fine.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
