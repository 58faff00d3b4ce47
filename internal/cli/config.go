package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Configuration
// =============================================================================

// Backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config controls where content is stored and how the server listens.
type Config struct {
	// DataDir is the root directory for the file backend.
	DataDir string `toml:"data_dir"`

	// Backend selects the storage backend: "file" (default) or "mongo".
	Backend string `toml:"backend"`

	// Listen is the address the serve command binds to.
	Listen string `toml:"listen"`

	Mongo MongoConfig `toml:"mongo"`
	Redis RedisConfig `toml:"redis"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig configures the optional Redis key index. An empty address
// disables the index.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig reads the config file at path, or the default XDG location when
// path is empty. A missing file yields the defaults; a present but invalid
// file is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, applyDefaults(cfg)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, applyDefaults(cfg)
}

func defaultConfig() *Config {
	return &Config{
		Backend: BackendFile,
		Listen:  "127.0.0.1:8420",
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: appName,
		},
	}
}

// applyDefaults fills fields that depend on the environment.
func applyDefaults(cfg *Config) error {
	if cfg.DataDir == "" {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		cfg.DataDir = dir
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Backend {
	case "", BackendFile, BackendMongo:
	default:
		return fmt.Errorf("unknown backend %q (expected %s or %s)", cfg.Backend, BackendFile, BackendMongo)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	return nil
}
