// Package cli implements the graphviewer command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphviewer/pkg/buildinfo"
	"github.com/matzehuels/graphviewer/pkg/cache"
	"github.com/matzehuels/graphviewer/pkg/config"
	"github.com/matzehuels/graphviewer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphviewer"

	// connectTimeout bounds dialing a remote cache backend.
	connectTimeout = 5 * time.Second
)

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

	// Config is loaded before every command runs.
	Config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphviewer loads plain graphs into a visual model",
		Long:         `Graphviewer converts plain JSON graphs into a visual model of sized, positioned nodes and edges, and renders, exports or serves them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.String("font-family", "", "label font family")
	pf.Float64("font-size", 0, "label font size in points")
	pf.Float64("margin-x", 0, "horizontal label margin")
	pf.Float64("margin-y", 0, "vertical label margin")
	pf.String("cache", "", "cache backend: file (default), none, redis, mongo")
	pf.String("cache-dir", "", "file cache directory")

	// Register all subcommands
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers the config sources under the command's flags.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Log.Level != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		c.SetLogLevel(level)
	}
	return nil
}

// config returns the loaded config, or the defaults when no command hook
// ran (as in tests calling a RunE directly).
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		cfg, err := config.Load(nil)
		if err != nil {
			c.Logger.Warn("config fallback to defaults", "error", err)
			cfg = &config.Config{}
		}
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	switch c.config().Cache.Backend {
	case config.BackendRedis, config.BackendMongo:
		// Shared backends may hold other tools' keys.
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be determined degrades to no cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config().Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return cache.NewRedisCache(ctx, cfg.Redis)
	case config.BackendMongo:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return cache.NewMongoCache(ctx, cfg.Mongo, cfg.DB, "artifacts")
	case config.BackendFile, "":
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Debug("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/graphviewer/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

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
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the loaded config.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		Font:     cfg.Font,
		MarginX:  cfg.Margin.X,
		MarginY:  cfg.Margin.Y,
		Padding:  cfg.Render.Padding,
		Scale:    cfg.Render.Scale,
		Detailed: cfg.Render.Detailed,
		Logger:   c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
