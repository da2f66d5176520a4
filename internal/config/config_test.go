package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.History.Backend != BackendFile {
		t.Errorf("History.Backend = %q, want file", cfg.History.Backend)
	}
	if cfg.Layout.Margin != 30 {
		t.Errorf("Margin = %v, want 30", cfg.Layout.Margin)
	}
	if cfg.Icons.BundleURL == "" {
		t.Error("BundleURL must default to the builtin bundle")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawbridge.toml")
	data := `
[server]
listen = ":9000"

[layout]
margin = 12.5

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[history]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
mongo_database = "drawbridge"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", cfg.Server.Listen)
	}
	if cfg.Layout.Margin != 12.5 {
		t.Errorf("Margin = %v, want 12.5", cfg.Layout.Margin)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache not loaded: %+v", cfg.Cache)
	}
	if cfg.History.MongoDatabase != "drawbridge" {
		t.Errorf("history not loaded: %+v", cfg.History)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawbridge.toml")
	if err := os.WriteFile(path, []byte("[server]\nlisten = \":9000\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRAWBRIDGE_LISTEN", ":7070")
	t.Setenv("DRAWBRIDGE_MARGIN", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("Listen = %q, want env override :7070", cfg.Server.Listen)
	}
	if cfg.Layout.Margin != 5 {
		t.Errorf("Margin = %v, want env override 5", cfg.Layout.Margin)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("DRAWBRIDGE_CACHE_BACKEND", "memcached")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}

func TestLoadRejectsMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsNegativeMargin(t *testing.T) {
	t.Setenv("DRAWBRIDGE_MARGIN", "-3")

	if _, err := Load(""); err == nil {
		t.Error("expected error for negative margin")
	}
}
