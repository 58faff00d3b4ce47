// Package cli implements the linguaviz command-line interface.
//
// This package provides commands for managing visual learning content:
// grammar flowcharts, progress visualizations, vocabulary visuals, and
// pronunciation guides. Content can be managed directly against the local
// store or served over HTTP with the serve command.
//
// # Commands
//
// The main commands are:
//   - flowchart: Create and edit grammar flowcharts
//   - progress: Manage progress visualizations
//   - vocab: Manage vocabulary visuals
//   - pronounce: Manage pronunciation guides
//   - serve: Run the HTTP API
//   - export/import: Archive the store to JSON and restore it
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a non-default configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/pkg/buildinfo"
	"github.com/linguaviz/linguaviz/pkg/storage"
	"github.com/linguaviz/linguaviz/pkg/visual"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "linguaviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default configuration file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "linguaviz",
		Short:        "Linguaviz manages visual language-learning content",
		Long:         `Linguaviz is a content store for visual language learning: grammar flowcharts, progress visualizations, vocabulary visuals, and pronunciation guides.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.flowchartCommand())
	root.AddCommand(c.progressCommand())
	root.AddCommand(c.vocabCommand())
	root.AddCommand(c.pronounceCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// openService builds the content store service from the effective config.
// The returned close function releases the backend and must be called when
// the command finishes.
func (c *CLI) openService(ctx context.Context) (*visual.Service, func() error, error) {
	cfg, err := LoadConfig(c.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc, err := visual.NewService(ctx, backend, c.Logger)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return svc, backend.Close, nil
}

// openBackend selects the storage backend from config. A configured Redis
// address wraps the backend with the key index used for scans.
func openBackend(ctx context.Context, cfg *Config) (storage.Backend, error) {
	var backend storage.Backend
	var err error

	switch cfg.Backend {
	case BackendMongo:
		backend, err = storage.NewMongoBackend(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	default:
		backend, err = storage.NewFileBackend(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		index, err := storage.NewRedisIndex(ctx, cfg.Redis.Addr)
		if err != nil {
			backend.Close()
			return nil, err
		}
		backend = storage.NewIndexedBackend(backend, index)
	}
	return backend, nil
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the default content directory using the XDG data standard
// (~/.local/share/linguaviz/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// configPath returns the default config file location using the XDG config
// standard (~/.config/linguaviz/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
