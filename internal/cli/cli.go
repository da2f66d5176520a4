// Package cli implements the drawbridge command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mlenz/drawbridge/internal/config"
	"github.com/mlenz/drawbridge/internal/history"
	"github.com/mlenz/drawbridge/pkg/buildinfo"
	"github.com/mlenz/drawbridge/pkg/cache"
	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/graph"
	"github.com/mlenz/drawbridge/pkg/pipeline"
	"github.com/mlenz/drawbridge/pkg/styles"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "drawbridge"

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

	// configPath is the --config flag value, resolved per command run.
	configPath string
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
		Use:          "drawbridge",
		Short:        "Drawbridge turns architecture descriptions into draw.io links",
		Long:         `Drawbridge converts a JSON description of typed, nested nodes and edges into a draw.io diagram and a shareable viewer URL, with no drawing tool in the loop.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a drawbridge.toml config file")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.iconsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for the current run.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Backend Factories
// =============================================================================

// newIconCache builds the cache backend the icon catalog stores bundles in.
func newIconCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newCatalog builds the icon catalog and populates it from the bundle.
// With noIcons, the builtin style table is used and no network is touched.
func (c *CLI) newCatalog(ctx context.Context, cfg config.Config, noCache, noIcons bool) (styles.Resolver, error) {
	if noIcons {
		return styles.Builtin(), nil
	}

	backend, err := newIconCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize icon cache: %w", err)
	}

	catalog := styles.NewCatalog(backend,
		styles.WithBundleURL(cfg.Icons.BundleURL),
		styles.WithLogger(c.Logger),
	)
	if err := catalog.Populate(ctx); err != nil {
		// Builtin styles still produce a valid diagram; resources just
		// fall back to the generic icon.
		c.Logger.Warn("icon bundle unavailable, using builtin styles", "err", err)
	}
	return catalog, nil
}

// newHistoryStore builds the history backend for CLI commands.
func newHistoryStore(ctx context.Context, cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return history.NewNullStore(), nil
	case config.BackendMongo:
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return history.NewFileStore(cfg.Dir)
	}
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(resolver styles.Resolver) *pipeline.Runner {
	return pipeline.NewRunner(resolver, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/drawbridge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Request Loading
// =============================================================================

// loadRequest reads a diagram request from a JSON file, or from stdin when
// path is "-".
func loadRequest(path string, stdin io.Reader) (graph.Request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return graph.Request{}, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "read request %s", path)
	}

	var req graph.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return graph.Request{}, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "decode request %s", path)
	}
	return req, nil
}
