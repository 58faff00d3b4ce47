package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
data_dir = "/var/lib/linguaviz"
backend = "mongo"
listen = "0.0.0.0:9000"

[mongo]
uri = "mongodb://db.internal:27017"
database = "content"

[redis]
addr = "cache.internal:6379"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DataDir != "/var/lib/linguaviz" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Backend != BackendMongo {
		t.Errorf("Backend = %q, want mongo", cfg.Backend)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Mongo.URI != "mongodb://db.internal:27017" || cfg.Mongo.Database != "content" {
		t.Errorf("Mongo = %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "cache.internal:6379" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `data_dir = "/tmp/content"`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q, want file default", cfg.Backend)
	}
	if cfg.Listen == "" {
		t.Error("Listen default not applied")
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `backend = "etcd"`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() accepted unknown backend")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("LoadConfig() accepted missing explicit config file")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, `data_dir = [broken`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() accepted invalid TOML")
	}
}
