// Package cli implements the zonesmith command-line interface.
//
// This package provides commands for checking and editing zone layout
// files, rendering them, managing stored layouts and the render cache, and
// running the HTTP API and the terminal editor. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - validate, show, edges: inspect a layout file
//   - split, move, delete-edge: edit a layout file in place
//   - render: generate SVG, PNG, PDF, DOT, adjacency or JSON artifacts
//   - template, store: work with built-in and stored layouts
//   - edit: open the interactive terminal editor
//   - serve: run the HTTP API
//   - cache: manage the render cache
//
// # Configuration
//
// Settings come from config.toml in the user config directory or the
// working directory, overridden by ZONESMITH_* environment variables. The
// --config flag names a file explicitly.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/internal/config"
	"github.com/matzehuels/zonesmith/pkg/buildinfo"
	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/pipeline"
	"github.com/matzehuels/zonesmith/pkg/store"
	"github.com/matzehuels/zonesmith/pkg/zone"
	"github.com/matzehuels/zonesmith/pkg/zonefile"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "zonesmith"

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
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and default
// settings. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Zonesmith edits screen zone layouts",
		Long:         `Zonesmith is a CLI tool for building window-snapping zone layouts: it checks, edits, renders and stores layouts that tile the screen, and serves them to editors over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: search the config directory and .)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.edgesCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.deleteEdgeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the settings and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if level <= LogDebug {
		installDebugHooks(c.Logger)
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	// Artifacts are scoped by build so a shared cache never serves output
	// from another renderer version.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache opens the configured render cache. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: c.Config.Cache.RedisAddr})
		return cache.NewRedisCache(client, appName+":artifact:"), nil
	default:
		fc, err := cache.NewFileCache(c.Config.Cache.Dir)
		if err != nil {
			c.Logger.Warn("render cache disabled", "dir", c.Config.Cache.Dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// openStore opens the configured layout store. Remote backends are fronted
// by the render cache so repeated reads skip the network.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.Config.StoreOptions())
	if err != nil {
		return nil, err
	}
	switch c.Config.Store.Backend {
	case store.BackendRedis, store.BackendMongo:
		ch, err := c.newCache(false)
		if err != nil {
			st.Close()
			return nil, err
		}
		return store.NewCached(st, ch, nil, c.Config.Cache.TTL, c.Logger), nil
	}
	return st, nil
}

// =============================================================================
// Layout Input
// =============================================================================

// loadLayout reads a layout file, or a built-in template when template is
// set.
func loadLayout(path, template string) (*zone.Layout, error) {
	if template != "" {
		zones, err := zone.Template(template)
		if err != nil {
			return nil, err
		}
		return &zone.Layout{Name: template, Zones: zones}, nil
	}
	return zonefile.Import(path)
}

// convert builds the edge graph for a layout.
func convert(l *zone.Layout) (*edgelayout.Layout, error) {
	return edgelayout.FromZones(l.Zones)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
